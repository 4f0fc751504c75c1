package types

import (
	"slices"
	"strings"
)

// PriceRange is an inclusive [min, max] interval. The zero value means
// "unset" until real category bounds are known.
type PriceRange [2]float64

func (r PriceRange) IsZero() bool {
	return r[0] == 0 && r[1] == 0
}

func (r PriceRange) Contains(price float64) bool {
	return price >= r[0] && price <= r[1]
}

// FilterState holds every active facet constraint for one listing.
// Bucket ids and the numeric price range are independent ways to
// constrain price and are intersected when both are set.
type FilterState struct {
	SecondaryCategories []string   `json:"secondaryCategories"`
	Colors              []string   `json:"colors"`
	PriceBucketIds      []string   `json:"priceBucketIds"`
	PriceRange          PriceRange `json:"priceRange"`
}

func toggle(list []string, value string, checked bool) []string {
	idx := slices.Index(list, value)
	if checked {
		if idx < 0 {
			return append(list, value)
		}
		return list
	}
	if idx >= 0 {
		return slices.Delete(list, idx, idx+1)
	}
	return list
}

func (f *FilterState) ToggleSecondaryCategory(id string, checked bool) {
	f.SecondaryCategories = toggle(f.SecondaryCategories, id, checked)
}

// Colors are matched case-insensitively, stored lowercase.
func (f *FilterState) ToggleColor(color string, checked bool) {
	f.Colors = toggle(f.Colors, strings.ToLower(color), checked)
}

func (f *FilterState) TogglePriceBucket(bucketId string, checked bool) {
	f.PriceBucketIds = toggle(f.PriceBucketIds, bucketId, checked)
}

// HasActive reports whether any constraint deviates from "show
// everything" given the authoritative category bounds.
func (f *FilterState) HasActive(bounds PriceRange) bool {
	if len(f.SecondaryCategories) > 0 || len(f.Colors) > 0 || len(f.PriceBucketIds) > 0 {
		return true
	}
	return !f.PriceRange.IsZero() && f.PriceRange != bounds
}

// Reset clears every facet and restores the price range to the full
// category bounds.
func (f *FilterState) Reset(bounds PriceRange) {
	f.SecondaryCategories = nil
	f.Colors = nil
	f.PriceBucketIds = nil
	f.PriceRange = bounds
}

func (f *FilterState) Sanitize() {
	for i, c := range f.Colors {
		f.Colors[i] = strings.ToLower(c)
	}
	if f.PriceRange[0] > f.PriceRange[1] {
		f.PriceRange[0], f.PriceRange[1] = f.PriceRange[1], f.PriceRange[0]
	}
}
