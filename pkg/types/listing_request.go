package types

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

// ListingRequest is the wire form of one listing view: filter state,
// sort order and the page cursor. Set-valued facets travel as
// comma-joined query values so a listing URL stays shareable and
// bookmarkable.
type ListingRequest struct {
	Filters  FilterState `json:"filters" schema:"-"`
	Sort     SortOrder   `json:"sort" schema:"sort"`
	Page     int         `json:"page" schema:"page"`
	PageSize int         `json:"pageSize" schema:"size"`
}

const (
	paramCategories = "categories"
	paramColors     = "colors"
	paramBuckets    = "buckets"
	paramMinPrice   = "minPrice"
	paramMaxPrice   = "maxPrice"

	DefaultPageSize = 24
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (r *ListingRequest) Sanitize() {
	r.Page = clamp(r.Page, 1, 10000)
	if r.PageSize == 0 {
		r.PageSize = DefaultPageSize
	}
	r.PageSize = clamp(r.PageSize, 1, 1000)
	r.Sort = ParseSortOrder(string(r.Sort))
	r.Filters.Sanitize()
}

func MakeBaseListingRequest() *ListingRequest {
	return &ListingRequest{
		Sort:     SortFeatured,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

func GetListingFromRequest(r *http.Request) (*ListingRequest, error) {
	lr := MakeBaseListingRequest()
	err := DecodeListingQuery(r.URL.Query(), lr)
	return lr, err
}

// DecodeListingQuery fills a ListingRequest from url query values.
// Scalar fields go through the schema decoder, set-valued facets are
// split on commas.
func DecodeListingQuery(query url.Values, result *ListingRequest) error {
	err := decoder.Decode(result, query)
	if err != nil {
		return err
	}
	result.Filters.SecondaryCategories = splitParam(query.Get(paramCategories))
	result.Filters.Colors = splitParam(query.Get(paramColors))
	result.Filters.PriceBucketIds = splitParam(query.Get(paramBuckets))
	if v := query.Get(paramMinPrice); v != "" {
		result.Filters.PriceRange[0], _ = strconv.ParseFloat(v, 64)
	}
	if v := query.Get(paramMaxPrice); v != "" {
		result.Filters.PriceRange[1], _ = strconv.ParseFloat(v, 64)
	}
	result.Sanitize()
	return nil
}

// Query is the inverse of DecodeListingQuery for everything that makes
// a view shareable. The page cursor deliberately stays out: a shared
// link always starts at page one.
func (r *ListingRequest) Query() url.Values {
	values := url.Values{}
	if len(r.Filters.SecondaryCategories) > 0 {
		values.Set(paramCategories, strings.Join(r.Filters.SecondaryCategories, ","))
	}
	if len(r.Filters.Colors) > 0 {
		values.Set(paramColors, strings.Join(r.Filters.Colors, ","))
	}
	if len(r.Filters.PriceBucketIds) > 0 {
		values.Set(paramBuckets, strings.Join(r.Filters.PriceBucketIds, ","))
	}
	if !r.Filters.PriceRange.IsZero() {
		values.Set(paramMinPrice, formatPrice(r.Filters.PriceRange[0]))
		values.Set(paramMaxPrice, formatPrice(r.Filters.PriceRange[1]))
	}
	if r.Sort != SortFeatured && r.Sort != "" {
		values.Set("sort", string(r.Sort))
	}
	return values
}

// ShareableURL appends the current query to a base page URL.
func (r *ListingRequest) ShareableURL(base string) string {
	query := r.Query()
	if len(query) == 0 {
		return base
	}
	return base + "?" + query.Encode()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		result = append(result, p)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
