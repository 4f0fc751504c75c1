package facet

import (
	"sort"
	"strings"

	"github.com/craftmandi/craft-finder/pkg/types"
)

// Option is one selectable facet value with its live product count.
type Option struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SecondaryCategoryOptions derives the category facet from a full
// category sample, ordered by display name.
func SecondaryCategoryOptions(products []types.Product) []Option {
	counts := map[string]*Option{}
	for _, p := range products {
		if p.SecondaryCategory.Id == "" {
			continue
		}
		opt, ok := counts[p.SecondaryCategory.Id]
		if !ok {
			opt = &Option{Id: p.SecondaryCategory.Id, Name: p.SecondaryCategory.Name}
			counts[p.SecondaryCategory.Id] = opt
		}
		opt.Count++
	}
	return sortedOptions(counts)
}

// ColorOptions derives the color facet. Colors match and count
// case-insensitively, keyed lowercase.
func ColorOptions(products []types.Product) []Option {
	counts := map[string]*Option{}
	for _, p := range products {
		color := strings.ToLower(strings.TrimSpace(p.Color))
		if color == "" {
			continue
		}
		opt, ok := counts[color]
		if !ok {
			opt = &Option{Id: color, Name: color}
			counts[color] = opt
		}
		opt.Count++
	}
	return sortedOptions(counts)
}

// PriceBounds returns the inclusive [min, max] price interval of the
// sample, or the zero range for an empty sample.
func PriceBounds(products []types.Product) types.PriceRange {
	if len(products) == 0 {
		return types.PriceRange{}
	}
	bounds := types.PriceRange{products[0].NetPrice, products[0].NetPrice}
	for _, p := range products[1:] {
		bounds[0] = min(bounds[0], p.NetPrice)
		bounds[1] = max(bounds[1], p.NetPrice)
	}
	return bounds
}

func sortedOptions(counts map[string]*Option) []Option {
	result := make([]Option, 0, len(counts))
	for _, opt := range counts {
		result = append(result, *opt)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].Id < result[j].Id
		}
		return result[i].Name < result[j].Name
	})
	return result
}
