// Package listing implements the faceted category listing engine: one
// parameterized controller owning filter and sort state, facet
// metadata with live counts, URL synchronization and an infinite
// scroll feed, over any CategorySource.
package listing

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/craftmandi/craft-finder/pkg/debounce"
	"github.com/craftmandi/craft-finder/pkg/facet"
	"github.com/craftmandi/craft-finder/pkg/scroll"
	"github.com/craftmandi/craft-finder/pkg/types"
)

type Options struct {
	Source   CategorySource
	Cart     Membership
	Wishlist Membership

	PageSize int
	// PriceDebounce is the settle window for the continuous price
	// slider before its value commits into the filter state.
	PriceDebounce time.Duration
	// BaseURL is the page URL shareable links are built on.
	BaseURL string
	// OnURLChange receives the serialized filter/sort query after
	// every committed state change, for the host to write into the
	// address bar. May be nil.
	OnURLChange func(url.Values)
}

const defaultPriceDebounce = 800 * time.Millisecond

type Controller struct {
	opts Options

	mu          sync.Mutex
	category    types.CategoryRef
	all         []types.Product
	bounds      types.PriceRange
	buckets     []facet.PriceBucket
	colors      []facet.Option
	secondaries []facet.Option
	filters     types.FilterState
	sort        types.SortOrder
	// currentPriceRange tracks the slider live; it only becomes
	// filters.PriceRange once the debouncer settles.
	currentPriceRange types.PriceRange
	initialized       bool
	initErr           error

	scroller *scroll.Scroller[types.Product]
	slider   *debounce.Debouncer[types.PriceRange]
	// base context for triggers that fire outside a caller's flow
	// (slider settle, sentinel visibility).
	ctx context.Context
}

func New(opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = types.DefaultPageSize
	}
	if opts.PriceDebounce <= 0 {
		opts.PriceDebounce = defaultPriceDebounce
	}
	c := &Controller{
		opts: opts,
		sort: types.SortFeatured,
		ctx:  context.Background(),
	}
	c.scroller = scroll.New(c.fetchPage)
	c.slider = debounce.New(opts.PriceDebounce, c.commitPriceRange)
	return c
}

// Init runs the ordered initialization protocol: resolve the category,
// run the one-time metadata pass over the full category, then seed
// filter and sort state from the URL query. Seeding must wait for real
// price bounds; a seeded range of [0,0] would read as "no filter" when
// the user wanted the full span. A resolution or metadata failure
// leaves every facet list empty rather than failing the host.
func (c *Controller) Init(ctx context.Context, ref string, query url.Values) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	category, err := c.opts.Source.Resolve(ctx, ref)
	if err != nil {
		c.mu.Lock()
		c.initErr = err
		c.mu.Unlock()
		return err
	}
	all, err := c.opts.Source.FetchAll(ctx, category.Id)
	if err != nil {
		c.mu.Lock()
		c.category = category
		c.initErr = err
		c.mu.Unlock()
		return err
	}

	bounds := facet.PriceBounds(all)
	req := types.MakeBaseListingRequest()
	if err := types.DecodeListingQuery(query, req); err != nil {
		req = types.MakeBaseListingRequest()
	}
	if req.Filters.PriceRange.IsZero() {
		req.Filters.PriceRange = bounds
	}

	c.mu.Lock()
	c.category = category
	c.all = all
	c.bounds = bounds
	c.buckets = facet.PriceBuckets(bounds[0], bounds[1], all)
	c.colors = facet.ColorOptions(all)
	c.secondaries = facet.SecondaryCategoryOptions(all)
	c.filters = req.Filters
	c.sort = req.Sort
	c.currentPriceRange = req.Filters.PriceRange
	c.initialized = true
	c.initErr = nil
	c.mu.Unlock()

	c.scroller.Refresh(ctx)
	return nil
}

// fetchPage is the FetchFunc handed to the scroll engine. The source's
// product set goes through filters, sort and pagination, and every
// returned product gets fresh cart/wishlist annotation.
func (c *Controller) fetchPage(ctx context.Context, page int) (scroll.Page[types.Product], error) {
	c.mu.Lock()
	filters := c.filters
	sortBy := c.sort
	buckets := c.buckets
	bounds := c.bounds
	all := c.all
	categoryId := c.category.Id
	size := c.opts.PageSize
	c.mu.Unlock()

	if paged, ok := c.opts.Source.(PageSource); ok {
		items, hasNext, err := paged.FetchPage(ctx, categoryId, page, size)
		if err != nil {
			return scroll.Page[types.Product]{}, err
		}
		items = ApplyFilters(items, &filters, buckets, bounds)
		types.SortProducts(items, sortBy)
		return scroll.Page[types.Product]{
			Items:   Annotate(items, c.opts.Cart, c.opts.Wishlist),
			HasNext: hasNext,
		}, nil
	}

	matched := ApplyFilters(all, &filters, buckets, bounds)
	types.SortProducts(matched, sortBy)
	items, hasNext := Paginate(matched, page, size)
	return scroll.Page[types.Product]{
		Items:   Annotate(items, c.opts.Cart, c.opts.Wishlist),
		HasNext: hasNext,
	}, nil
}

// stateChanged is the single event path behind every committed filter
// or sort mutation: rewrite the URL, then refresh the feed. Keeping
// one path avoids the duplicate refreshes that separate watchers on
// overlapping state produce.
func (c *Controller) stateChanged(ctx context.Context) {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return
	}
	onURL := c.opts.OnURLChange
	query := c.requestLocked().Query()
	c.mu.Unlock()

	if onURL != nil {
		onURL(query)
	}
	c.scroller.Refresh(ctx)
}

func (c *Controller) SetSecondaryCategory(ctx context.Context, id string, checked bool) {
	c.mu.Lock()
	c.filters.ToggleSecondaryCategory(id, checked)
	c.mu.Unlock()
	c.stateChanged(ctx)
}

func (c *Controller) SetColor(ctx context.Context, color string, checked bool) {
	c.mu.Lock()
	c.filters.ToggleColor(color, checked)
	c.mu.Unlock()
	c.stateChanged(ctx)
}

func (c *Controller) SetPriceBucket(ctx context.Context, bucketId string, checked bool) {
	c.mu.Lock()
	c.filters.TogglePriceBucket(bucketId, checked)
	c.mu.Unlock()
	c.stateChanged(ctx)
}

func (c *Controller) SetSortBy(ctx context.Context, order types.SortOrder) {
	c.mu.Lock()
	c.sort = types.ParseSortOrder(string(order))
	c.mu.Unlock()
	c.stateChanged(ctx)
}

// SetPriceRange records the slider position immediately but only
// commits it into the filter state once the slider has been still for
// the debounce window.
func (c *Controller) SetPriceRange(priceRange types.PriceRange) {
	if priceRange[0] > priceRange[1] {
		priceRange[0], priceRange[1] = priceRange[1], priceRange[0]
	}
	c.mu.Lock()
	c.currentPriceRange = priceRange
	c.mu.Unlock()
	c.slider.Set(priceRange)
}

func (c *Controller) commitPriceRange(priceRange types.PriceRange) {
	c.mu.Lock()
	c.filters.PriceRange = priceRange
	ctx := c.ctx
	c.mu.Unlock()
	c.stateChanged(ctx)
}

// ClearFilters resets every facet, restores the full price bounds and
// the featured order, and refreshes once.
func (c *Controller) ClearFilters(ctx context.Context) {
	c.mu.Lock()
	c.filters.Reset(c.bounds)
	c.currentPriceRange = c.bounds
	c.sort = types.SortFeatured
	c.mu.Unlock()
	c.stateChanged(ctx)
}

// Close cancels the pending slider commit and detaches the sentinel.
func (c *Controller) Close() {
	c.slider.Stop()
	c.scroller.Close()
}

func (c *Controller) requestLocked() *types.ListingRequest {
	return &types.ListingRequest{
		Filters:  c.filters,
		Sort:     c.sort,
		Page:     1,
		PageSize: c.opts.PageSize,
	}
}

func (c *Controller) Products() []types.Product { return c.scroller.Items() }
func (c *Controller) IsLoading() bool           { return c.scroller.IsLoading() }
func (c *Controller) IsLoadingMore() bool       { return c.scroller.IsLoadingMore() }
func (c *Controller) HasNextPage() bool         { return c.scroller.HasNextPage() }

// LoadMoreSentinel is the handle the host attaches to its viewport
// sentinel element.
func (c *Controller) LoadMoreSentinel() func(context.Context) {
	return c.scroller.Sentinel()
}

func (c *Controller) Error() string {
	c.mu.Lock()
	initErr := c.initErr
	c.mu.Unlock()
	if initErr != nil {
		return initErr.Error()
	}
	return c.scroller.Err()
}

func (c *Controller) Category() types.CategoryRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

func (c *Controller) Filters() types.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

func (c *Controller) SortBy() types.SortOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

func (c *Controller) CurrentPriceRange() types.PriceRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPriceRange
}

func (c *Controller) PriceBounds() types.PriceRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

func (c *Controller) PriceBuckets() []facet.PriceBucket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buckets
}

func (c *Controller) ColorOptions() []facet.Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.colors
}

func (c *Controller) SecondaryCategoryOptions() []facet.Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.secondaries
}

func (c *Controller) HasActiveFilters() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.HasActive(c.bounds) || c.sort != types.SortFeatured
}

// ShareableURL reproduces the current view: re-parsing its query
// reconstructs an equivalent filter and sort state.
func (c *Controller) ShareableURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestLocked().ShareableURL(c.opts.BaseURL)
}
