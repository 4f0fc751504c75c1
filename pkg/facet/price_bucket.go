package facet

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/craftmandi/craft-finder/pkg/types"
)

// PriceBucket is one checkbox option for price filtering. Buckets are
// regenerated from scratch against a product sample; identity across
// regenerations only exists through the deterministic id.
type PriceBucket struct {
	Id    string  `json:"id"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Partition tiers keyed by price spread. A single fixed width is
// either too coarse for cheap catalogs or explodes into hundreds of
// buckets for wide ones, so the scheme switches on spread.
var breakpointTiers = []struct {
	maxSpread   float64
	breakpoints []float64
}{
	{2000, []float64{500, 1000, 1500, 2000}},
	{10000, []float64{1000, 2000, 5000, 10000}},
	{-1, []float64{1000, 5000, 10000, 25000, 50000}},
}

// PriceBuckets builds the ordered, non-overlapping bucket list for a
// category. minPrice and maxPrice must be the bounds of the full
// unfiltered category, never of a filtered subset, so unchecking one
// filter can not make other bucket options disappear.
func PriceBuckets(minPrice, maxPrice float64, products []types.Product) []PriceBucket {
	if minPrice >= maxPrice {
		return nil
	}
	if len(products) <= 3 {
		return degenerateBuckets(products)
	}

	spread := maxPrice - minPrice
	var edges []float64
	switch {
	case spread <= 200:
		edges = fixedWidthEdges(minPrice, maxPrice, 50)
	case spread <= 500:
		edges = fixedWidthEdges(minPrice, maxPrice, 100)
	default:
		for _, tier := range breakpointTiers {
			if tier.maxSpread < 0 || spread <= tier.maxSpread {
				edges = breakpointEdges(minPrice, maxPrice, tier.breakpoints)
				break
			}
		}
	}

	result := make([]PriceBucket, 0, len(edges))
	for i := 0; i < len(edges)-1; i++ {
		lo := edges[i]
		hi := min(edges[i+1], maxPrice)
		last := i == len(edges)-2
		bucket := PriceBucket{
			Id:  bucketId(lo, hi),
			Min: lo,
			Max: hi,
		}
		if last {
			// Open-ended tail: catches maxPrice itself and reads
			// as "and above" in the UI.
			bucket.Label = "₹" + formatPrice(lo) + "+"
			bucket.Count = countMatching(products, func(p float64) bool {
				return p >= lo
			})
		} else {
			bucket.Label = "₹" + formatPrice(lo) + " - ₹" + formatPrice(hi)
			// Half-open [lo, hi), except a bucket clipped at the
			// category maximum keeps products priced exactly there.
			inclusive := hi == maxPrice
			bucket.Count = countMatching(products, func(p float64) bool {
				return p >= lo && (p < hi || (inclusive && p == hi))
			})
		}
		if bucket.Count > 0 {
			result = append(result, bucket)
		}
	}
	return result
}

// Samples of three or fewer products get one point bucket per
// distinct observed price instead of misleading single-point ranges.
func degenerateBuckets(products []types.Product) []PriceBucket {
	counts := map[float64]int{}
	for _, p := range products {
		counts[p.NetPrice]++
	}
	prices := make([]float64, 0, len(counts))
	for price := range counts {
		prices = append(prices, price)
	}
	slices.Sort(prices)
	result := make([]PriceBucket, 0, len(prices))
	for _, price := range prices {
		result = append(result, PriceBucket{
			Id:    bucketId(price, price),
			Label: "₹" + formatPrice(price),
			Min:   price,
			Max:   price,
			Count: counts[price],
		})
	}
	return result
}

// InSelectedBuckets is the membership test behind bucket checkboxes:
// no selection shows everything, multiple selections OR together.
func InSelectedBuckets(price float64, selectedIds []string, buckets []PriceBucket) bool {
	if len(selectedIds) == 0 {
		return true
	}
	for _, b := range buckets {
		if !slices.Contains(selectedIds, b.Id) {
			continue
		}
		if price >= b.Min && price <= b.Max {
			return true
		}
	}
	return false
}

func fixedWidthEdges(minPrice, maxPrice, width float64) []float64 {
	// Align the first edge to the nearest lower multiple of the width.
	start := float64(int(minPrice/width)) * width
	edges := []float64{start}
	for edge := start + width; ; edge += width {
		edges = append(edges, edge)
		if edge >= maxPrice {
			break
		}
	}
	return edges
}

func breakpointEdges(minPrice, maxPrice float64, breakpoints []float64) []float64 {
	edges := []float64{minPrice}
	for _, bp := range breakpoints {
		if bp <= minPrice {
			continue
		}
		if bp >= maxPrice {
			break
		}
		edges = append(edges, bp)
	}
	return append(edges, maxPrice)
}

func countMatching(products []types.Product, match func(price float64) bool) int {
	count := 0
	for _, p := range products {
		if match(p.NetPrice) {
			count++
		}
	}
	return count
}

func bucketId(lo, hi float64) string {
	return fmt.Sprintf("%s-%s", formatPrice(lo), formatPrice(hi))
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
