package listing

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/craftmandi/craft-finder/pkg/types"
)

type fakeSource struct {
	category   types.CategoryRef
	products   []types.Product
	resolveErr error
	fetchErr   error
}

func (f *fakeSource) Resolve(_ context.Context, ref string) (types.CategoryRef, error) {
	if f.resolveErr != nil {
		return types.CategoryRef{}, f.resolveErr
	}
	return f.category, nil
}

func (f *fakeSource) FetchAll(context.Context, string) ([]types.Product, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.products, nil
}

type idSet map[string]bool

func (s idSet) Contains(id string) bool { return s[id] }

func craftProducts() []types.Product {
	return []types.Product{
		{Id: "p1", Name: "Terracotta Vase", NetPrice: 100, Color: "Red", Rating: 4.5,
			SecondaryCategory: types.CategoryRef{Id: "c1", Name: "Pottery"}},
		{Id: "p2", Name: "Cane Basket", NetPrice: 150, Color: "Natural", Rating: 3.8,
			SecondaryCategory: types.CategoryRef{Id: "c2", Name: "Baskets"}},
		{Id: "p3", Name: "Indigo Stole", NetPrice: 250, Color: "indigo", Rating: 4.9,
			SecondaryCategory: types.CategoryRef{Id: "c3", Name: "Textiles"}},
		{Id: "p4", Name: "Brass Lamp", NetPrice: 300, Color: "Red", Rating: 4.1,
			SecondaryCategory: types.CategoryRef{Id: "c1", Name: "Pottery"}},
	}
}

func newTestController(src CategorySource, cartIds, wishIds idSet) *Controller {
	return New(Options{
		Source:        src,
		Cart:          cartIds,
		Wishlist:      wishIds,
		PageSize:      2,
		PriceDebounce: 20 * time.Millisecond,
		BaseURL:       "https://shop.example/category/crafts",
	})
}

func TestInitLoadsMetadataAndFirstPage(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat", Name: "Crafts"}, products: craftProducts()}
	c := newTestController(src, nil, nil)
	defer c.Close()

	if err := c.Init(context.Background(), "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if bounds := c.PriceBounds(); bounds != (types.PriceRange{100, 300}) {
		t.Errorf("unexpected bounds %v", bounds)
	}
	if got := len(c.SecondaryCategoryOptions()); got != 3 {
		t.Errorf("expected 3 secondary category options, got %d", got)
	}
	if got := len(c.ColorOptions()); got != 3 {
		t.Errorf("expected 3 color options, got %d", got)
	}
	if got := c.Filters().PriceRange; got != (types.PriceRange{100, 300}) {
		t.Errorf("price range must seed to the full bounds, got %v", got)
	}
	if got := len(c.Products()); got != 2 {
		t.Errorf("expected first page of 2 products, got %d", got)
	}
	if !c.HasNextPage() {
		t.Errorf("expected a next page")
	}
}

func TestInitSeedsFiltersFromURL(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	c := newTestController(src, nil, nil)
	defer c.Close()

	query := url.Values{}
	query.Set("colors", "red")
	query.Set("sort", "price-high-to-low")
	if err := c.Init(context.Background(), "crafts", query); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	products := c.Products()
	if len(products) != 2 {
		t.Fatalf("expected 2 red products, got %v", products)
	}
	if products[0].Id != "p4" || products[1].Id != "p1" {
		t.Errorf("expected price-high-to-low red products, got %v", products)
	}
	if !c.HasActiveFilters() {
		t.Errorf("seeded filters must count as active")
	}
}

func TestResolveFailureLeavesFacetsEmpty(t *testing.T) {
	src := &fakeSource{resolveErr: errors.New("category not found")}
	c := newTestController(src, nil, nil)
	defer c.Close()

	if err := c.Init(context.Background(), "missing", nil); err == nil {
		t.Fatalf("expected init error")
	}
	if c.Error() != "category not found" {
		t.Errorf("expected surfaced error, got %q", c.Error())
	}
	if len(c.SecondaryCategoryOptions()) != 0 || len(c.ColorOptions()) != 0 || len(c.PriceBuckets()) != 0 {
		t.Errorf("facet metadata must stay empty after a failed resolve")
	}
	if len(c.Products()) != 0 {
		t.Errorf("no products expected after failed init")
	}
}

func TestFilterChangeRefreshesListing(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	c := newTestController(src, nil, nil)
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	c.SetSecondaryCategory(ctx, "c2", true)
	products := c.Products()
	if len(products) != 1 || products[0].Id != "p2" {
		t.Errorf("expected only the basket, got %v", products)
	}

	c.SetSecondaryCategory(ctx, "c2", false)
	if got := len(c.Products()); got != 2 {
		t.Errorf("expected full first page after unchecking, got %d", got)
	}
}

func TestPriceBucketFilter(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	c := newTestController(src, nil, nil)
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// spread 200 -> 50-wide buckets; "100-150" holds only p1
	c.SetPriceBucket(ctx, "100-150", true)
	products := c.Products()
	if len(products) != 1 || products[0].Id != "p1" {
		t.Errorf("expected only p1 in bucket 100-150, got %v", products)
	}
}

func TestDebouncedPriceRangeCommit(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	c := newTestController(src, nil, nil)
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// rapid slider movement: only the final position commits
	c.SetPriceRange(types.PriceRange{100, 280})
	c.SetPriceRange(types.PriceRange{100, 200})
	if got := c.Filters().PriceRange; got != (types.PriceRange{100, 300}) {
		t.Errorf("range must not commit before the debounce settles, got %v", got)
	}
	if got := c.CurrentPriceRange(); got != (types.PriceRange{100, 200}) {
		t.Errorf("live slider value should track immediately, got %v", got)
	}

	time.Sleep(60 * time.Millisecond)
	if got := c.Filters().PriceRange; got != (types.PriceRange{100, 200}) {
		t.Errorf("expected committed range [100 200], got %v", got)
	}
	products := c.Products()
	if len(products) != 2 || products[0].Id != "p1" || products[1].Id != "p2" {
		t.Errorf("expected p1 and p2 inside [100 200], got %v", products)
	}
}

func TestClearFilters(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	var mu sync.Mutex
	changes := 0
	c := New(Options{
		Source:   src,
		PageSize: 2,
		OnURLChange: func(url.Values) {
			mu.Lock()
			changes++
			mu.Unlock()
		},
	})
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	c.SetColor(ctx, "Red", true)
	c.SetSortBy(ctx, types.SortPriceHighLow)
	c.SetPriceBucket(ctx, "100-150", true)
	mu.Lock()
	before := changes
	mu.Unlock()

	c.ClearFilters(ctx)
	filters := c.Filters()
	if len(filters.Colors) != 0 || len(filters.PriceBucketIds) != 0 || len(filters.SecondaryCategories) != 0 {
		t.Errorf("expected empty facet arrays, got %+v", filters)
	}
	if filters.PriceRange != (types.PriceRange{100, 300}) {
		t.Errorf("expected price range restored to bounds, got %v", filters.PriceRange)
	}
	if c.SortBy() != types.SortFeatured {
		t.Errorf("expected featured sort, got %v", c.SortBy())
	}
	if c.HasActiveFilters() {
		t.Errorf("no filters should be active after clearing")
	}
	mu.Lock()
	got := changes - before
	mu.Unlock()
	if got != 1 {
		t.Errorf("clearing must commit as a single state change, got %d", got)
	}
}

func TestCartAndWishlistAnnotation(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	cartIds := idSet{"p2": true}
	wishIds := idSet{"p1": true}
	c := newTestController(src, cartIds, wishIds)
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	products := c.Products()
	if !products[1].InCart || products[0].InCart {
		t.Errorf("unexpected cart annotation: %+v", products)
	}
	if !products[0].InWishlist || products[1].InWishlist {
		t.Errorf("unexpected wishlist annotation: %+v", products)
	}

	// membership changes must be recomputed on the next fetch, not
	// cached from the prior page
	cartIds["p1"] = true
	c.SetSortBy(ctx, types.SortFeatured)
	products = c.Products()
	if !products[0].InCart {
		t.Errorf("annotation not recomputed after cart change: %+v", products[0])
	}
}

func TestShareableURLRoundTrip(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	c := newTestController(src, nil, nil)
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	c.SetColor(ctx, "red", true)
	c.SetSortBy(ctx, types.SortPriceLowHigh)

	shared, err := url.Parse(c.ShareableURL())
	if err != nil {
		t.Fatalf("invalid shareable url: %v", err)
	}
	req := types.MakeBaseListingRequest()
	if err := types.DecodeListingQuery(shared.Query(), req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(req.Filters.Colors) != 1 || req.Filters.Colors[0] != "red" {
		t.Errorf("colors lost in round trip: %+v", req.Filters)
	}
	if req.Sort != types.SortPriceLowHigh {
		t.Errorf("sort lost in round trip: %v", req.Sort)
	}
}

func TestURLSyncOnStateChange(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	var mu sync.Mutex
	var synced []url.Values
	c := New(Options{
		Source:   src,
		PageSize: 2,
		OnURLChange: func(q url.Values) {
			mu.Lock()
			synced = append(synced, q)
			mu.Unlock()
		},
	})
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	c.SetColor(ctx, "indigo", true)
	mu.Lock()
	defer mu.Unlock()
	if len(synced) != 1 {
		t.Fatalf("expected one URL rewrite per state change, got %d", len(synced))
	}
	if synced[0].Get("colors") != "indigo" {
		t.Errorf("unexpected synced query %v", synced[0])
	}
}

func TestLoadMoreSentinelPages(t *testing.T) {
	src := &fakeSource{category: types.CategoryRef{Id: "cat"}, products: craftProducts()}
	c := newTestController(src, nil, nil)
	defer c.Close()
	ctx := context.Background()
	if err := c.Init(ctx, "crafts", nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sentinel := c.LoadMoreSentinel()
	sentinel(ctx)
	if got := len(c.Products()); got != 4 {
		t.Errorf("expected all 4 products after sentinel trigger, got %d", got)
	}
	if c.HasNextPage() {
		t.Errorf("expected no further pages")
	}
}
