package facet

import (
	"testing"

	"github.com/craftmandi/craft-finder/pkg/types"
)

func TestColorOptionsAreCaseInsensitive(t *testing.T) {
	products := []types.Product{
		{Id: "1", Color: "Red"},
		{Id: "2", Color: "red"},
		{Id: "3", Color: "Indigo"},
		{Id: "4", Color: " "},
	}
	options := ColorOptions(products)
	if len(options) != 2 {
		t.Fatalf("expected 2 color options, got %v", options)
	}
	if options[0].Id != "indigo" || options[0].Count != 1 {
		t.Errorf("unexpected option %+v", options[0])
	}
	if options[1].Id != "red" || options[1].Count != 2 {
		t.Errorf("expected red counted twice, got %+v", options[1])
	}
}

func TestSecondaryCategoryOptions(t *testing.T) {
	products := []types.Product{
		{Id: "1", SecondaryCategory: types.CategoryRef{Id: "c1", Name: "Pottery"}},
		{Id: "2", SecondaryCategory: types.CategoryRef{Id: "c1", Name: "Pottery"}},
		{Id: "3", SecondaryCategory: types.CategoryRef{Id: "c2", Name: "Baskets"}},
		{Id: "4"},
	}
	options := SecondaryCategoryOptions(products)
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %v", options)
	}
	if options[0].Name != "Baskets" || options[0].Count != 1 {
		t.Errorf("unexpected option %+v", options[0])
	}
	if options[1].Id != "c1" || options[1].Count != 2 {
		t.Errorf("unexpected option %+v", options[1])
	}
}

func TestPriceBounds(t *testing.T) {
	bounds := PriceBounds(priced(450, 120, 900, 340))
	if bounds[0] != 120 || bounds[1] != 900 {
		t.Errorf("expected bounds [120 900], got %v", bounds)
	}
	if got := PriceBounds(nil); !got.IsZero() {
		t.Errorf("expected zero bounds for empty sample, got %v", got)
	}
}
