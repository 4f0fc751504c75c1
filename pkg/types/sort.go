package types

import "sort"

type SortOrder string

const (
	SortFeatured      SortOrder = "featured"
	SortPriceLowHigh  SortOrder = "price-low-to-high"
	SortPriceHighLow  SortOrder = "price-high-to-low"
	SortRatingHighLow SortOrder = "rating-high-to-low"
	SortRatingLowHigh SortOrder = "rating-low-to-high"
)

func ParseSortOrder(value string) SortOrder {
	switch SortOrder(value) {
	case SortPriceLowHigh, SortPriceHighLow, SortRatingHighLow, SortRatingLowHigh:
		return SortOrder(value)
	}
	return SortFeatured
}

// SortProducts orders products in place. Featured is a no-op so the
// fetch order survives untouched; the other orders are stable sorts to
// keep equal-keyed products in a deterministic position.
func SortProducts(products []Product, order SortOrder) {
	switch order {
	case SortPriceLowHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].NetPrice < products[j].NetPrice
		})
	case SortPriceHighLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].NetPrice > products[j].NetPrice
		})
	case SortRatingHighLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case SortRatingLowHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating < products[j].Rating
		})
	}
}
