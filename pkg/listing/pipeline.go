package listing

import (
	"slices"
	"strings"

	"github.com/craftmandi/craft-finder/pkg/facet"
	"github.com/craftmandi/craft-finder/pkg/types"
)

// ApplyFilters runs the facet constraints over a product set in the
// fixed order secondary-category, color, price-bucket, numeric range.
// The numeric range pass is skipped when it equals the authoritative
// category bounds, where it would be a no-op over every product.
func ApplyFilters(products []types.Product, filters *types.FilterState, buckets []facet.PriceBucket, bounds types.PriceRange) []types.Product {
	result := make([]types.Product, 0, len(products))
	applyRange := !filters.PriceRange.IsZero() && filters.PriceRange != bounds
	for _, p := range products {
		if len(filters.SecondaryCategories) > 0 &&
			!slices.Contains(filters.SecondaryCategories, p.SecondaryCategory.Id) {
			continue
		}
		if len(filters.Colors) > 0 &&
			!slices.Contains(filters.Colors, strings.ToLower(p.Color)) {
			continue
		}
		if !facet.InSelectedBuckets(p.NetPrice, filters.PriceBucketIds, buckets) {
			continue
		}
		if applyRange && !filters.PriceRange.Contains(p.NetPrice) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Paginate slices one 1-based page out of a result set and reports
// whether another page follows.
func Paginate(products []types.Product, page, size int) ([]types.Product, bool) {
	start := (page - 1) * size
	if start >= len(products) {
		return nil, false
	}
	end := min(start+size, len(products))
	return products[start:end], end < len(products)
}

// Annotate recomputes cart and wishlist membership on every fetched
// product. Membership is never cached from an earlier page; the lists
// may have changed between fetches.
func Annotate(products []types.Product, cart, wishlist Membership) []types.Product {
	if cart == nil {
		cart = NoMembership
	}
	if wishlist == nil {
		wishlist = NoMembership
	}
	result := make([]types.Product, len(products))
	for i, p := range products {
		p.InCart = cart.Contains(p.Id)
		p.InWishlist = wishlist.Contains(p.Id)
		result[i] = p
	}
	return result
}
