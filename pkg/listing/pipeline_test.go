package listing

import (
	"context"
	"testing"

	"github.com/craftmandi/craft-finder/pkg/facet"
	"github.com/craftmandi/craft-finder/pkg/types"
)

func ids(products []types.Product) []string {
	result := make([]string, len(products))
	for i, p := range products {
		result[i] = p.Id
	}
	return result
}

func sameIds(got []types.Product, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, p := range got {
		if p.Id != want[i] {
			return false
		}
	}
	return true
}

func TestApplyFiltersIntersectsFacets(t *testing.T) {
	products := craftProducts()
	bounds := facet.PriceBounds(products)
	buckets := facet.PriceBuckets(bounds[0], bounds[1], products)

	filters := types.FilterState{
		SecondaryCategories: []string{"c1"},
		Colors:              []string{"red"},
		PriceRange:          bounds,
	}
	got := ApplyFilters(products, &filters, buckets, bounds)
	if !sameIds(got, "p1", "p4") {
		t.Errorf("expected red pottery only, got %v", ids(got))
	}

	// a bucket constraint narrows the same set further
	filters.PriceBucketIds = []string{"100-150"}
	got = ApplyFilters(products, &filters, buckets, bounds)
	if !sameIds(got, "p1") {
		t.Errorf("expected p1 only, got %v", ids(got))
	}
}

func TestApplyFiltersRangeAtBoundsIsNoOp(t *testing.T) {
	products := craftProducts()
	bounds := facet.PriceBounds(products)
	filters := types.FilterState{PriceRange: bounds}
	if got := ApplyFilters(products, &filters, nil, bounds); len(got) != len(products) {
		t.Errorf("full-span range must not exclude anything, got %v", ids(got))
	}
}

func TestApplyFiltersNarrowedRange(t *testing.T) {
	products := craftProducts()
	bounds := facet.PriceBounds(products)
	filters := types.FilterState{PriceRange: types.PriceRange{150, 250}}
	got := ApplyFilters(products, &filters, nil, bounds)
	if !sameIds(got, "p2", "p3") {
		t.Errorf("expected inclusive [150 250] to match p2 and p3, got %v", ids(got))
	}
}

func TestPaginate(t *testing.T) {
	products := craftProducts()

	page, hasNext := Paginate(products, 1, 3)
	if len(page) != 3 || !hasNext {
		t.Errorf("expected 3 items with a next page, got %d hasNext=%v", len(page), hasNext)
	}
	page, hasNext = Paginate(products, 2, 3)
	if !sameIds(page, "p4") || hasNext {
		t.Errorf("expected the final partial page, got %v hasNext=%v", ids(page), hasNext)
	}
	page, hasNext = Paginate(products, 3, 3)
	if page != nil || hasNext {
		t.Errorf("expected nothing past the end, got %v hasNext=%v", ids(page), hasNext)
	}
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	products := craftProducts()
	annotated := Annotate(products, idSet{"p1": true}, nil)
	if !annotated[0].InCart {
		t.Errorf("expected p1 annotated in cart")
	}
	if products[0].InCart {
		t.Errorf("annotation must not write through to the source slice")
	}
}

type fakePageSource struct {
	fakeSource
}

func (f *fakePageSource) FetchPage(_ context.Context, _ string, page, size int) ([]types.Product, bool, error) {
	items, hasNext := Paginate(f.products, page, size)
	return items, hasNext, nil
}

func TestControllerUsesServerPagination(t *testing.T) {
	src := &fakePageSource{fakeSource: fakeSource{
		category: types.CategoryRef{Id: "cat"},
		products: craftProducts(),
	}}
	c := newTestController(src, nil, nil)
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if got := c.Products(); !sameIds(got, "p1", "p2") {
		t.Errorf("expected the server's first page, got %v", ids(got))
	}
	if !c.HasNextPage() {
		t.Errorf("expected the server-reported next page")
	}
	c.LoadMoreSentinel()(ctx)
	if got := c.Products(); !sameIds(got, "p1", "p2", "p3", "p4") {
		t.Errorf("expected both server pages accumulated, got %v", ids(got))
	}
}
