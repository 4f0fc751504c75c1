// Package server is the HTTP surface over the listing engine: a
// stateless listing endpoint running the same filter/sort/annotate
// pipeline the embedded controller uses, a facet metadata endpoint and
// the cart/wishlist routes.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/craftmandi/craft-finder/pkg/cart"
	"github.com/craftmandi/craft-finder/pkg/common"
	"github.com/craftmandi/craft-finder/pkg/facet"
	"github.com/craftmandi/craft-finder/pkg/listing"
	"github.com/craftmandi/craft-finder/pkg/tracking"
	"github.com/craftmandi/craft-finder/pkg/types"
)

var (
	noListings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftfinder_listings_total",
		Help: "The total number of processed listing requests",
	})
	noFacetLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftfinder_facet_loads_total",
		Help: "The total number of facet metadata loads",
	})
	noListingErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftfinder_listing_errors_total",
		Help: "The total number of failed listing requests",
	})
)

type ListingServer struct {
	Source  listing.CategorySource
	Carts   cart.Storage
	Tracker tracking.Tracker
	BaseURL string
}

type listingResponse struct {
	Success    bool               `json:"success"`
	Data       []types.Product    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
	ShareURL   string             `json:"shareUrl,omitempty"`
}

type paginationResponse struct {
	HasNext     bool `json:"hasNext"`
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
}

type facetsResponse struct {
	Success             bool               `json:"success"`
	Category            types.CategoryRef  `json:"category"`
	SecondaryCategories []facet.Option     `json:"secondaryCategories"`
	Colors              []facet.Option     `json:"colors"`
	PriceBuckets        []facet.PriceBucket `json:"priceBuckets"`
	PriceBounds         types.PriceRange   `json:"priceBounds"`
}

// HandleListing serves one filtered, sorted, annotated page of a
// category listing: GET /api/listing/{ref}.
func (s *ListingServer) HandleListing(w http.ResponseWriter, r *http.Request) {
	noListings.Inc()
	sessionId := common.HandleSessionCookie(w, r)
	cartId := common.HandleCartCookie(w, r, cart.NewId)

	req, err := types.GetListingFromRequest(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := s.Source.Resolve(r.Context(), r.PathValue("ref"))
	if err != nil {
		noListingErrors.Inc()
		common.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	all, err := s.Source.FetchAll(r.Context(), category.Id)
	if err != nil {
		noListingErrors.Inc()
		common.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	// Bounds and buckets always come from the full unfiltered
	// category, so filter options stay stable while filters change.
	bounds := facet.PriceBounds(all)
	buckets := facet.PriceBuckets(bounds[0], bounds[1], all)
	if req.Filters.PriceRange.IsZero() {
		req.Filters.PriceRange = bounds
	}

	matched := listing.ApplyFilters(all, &req.Filters, buckets, bounds)
	types.SortProducts(matched, req.Sort)
	total := len(matched)
	pageItems, hasNext := listing.Paginate(matched, req.Page, req.PageSize)
	pageItems = listing.Annotate(pageItems,
		cart.CartMembership(s.Carts, cartId),
		cart.WishlistMembership(s.Carts, cartId))

	if s.Tracker != nil {
		s.Tracker.TrackFilterChange(sessionId, category, &req.Filters, req.Sort)
	}

	totalPages := (total + req.PageSize - 1) / req.PageSize
	common.WriteJson(w, listingResponse{
		Success: true,
		Data:    pageItems,
		Pagination: paginationResponse{
			HasNext:     hasNext,
			CurrentPage: req.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
		},
		ShareURL: req.ShareableURL(s.BaseURL + "/category/" + category.Id),
	})
}

// HandleFacets serves the filter options for a category: the metadata
// pass result a listing UI renders its sidebar from.
// GET /api/listing/{ref}/facets.
func (s *ListingServer) HandleFacets(w http.ResponseWriter, r *http.Request) {
	noFacetLoads.Inc()
	sessionId := common.HandleSessionCookie(w, r)

	category, err := s.Source.Resolve(r.Context(), r.PathValue("ref"))
	if err != nil {
		noListingErrors.Inc()
		common.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	all, err := s.Source.FetchAll(r.Context(), category.Id)
	if err != nil {
		noListingErrors.Inc()
		common.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	bounds := facet.PriceBounds(all)

	if s.Tracker != nil {
		s.Tracker.TrackListingView(sessionId, category)
	}

	common.WriteJson(w, facetsResponse{
		Success:             true,
		Category:            category,
		SecondaryCategories: facet.SecondaryCategoryOptions(all),
		Colors:              facet.ColorOptions(all),
		PriceBuckets:        facet.PriceBuckets(bounds[0], bounds[1], all),
		PriceBounds:         bounds,
	})
}

// Register wires every route onto the mux.
func (s *ListingServer) Register(mux *http.ServeMux) {
	cartServer := &cart.Server{Storage: s.Carts}
	mux.HandleFunc("OPTIONS /api/", common.CorsHandler(func(http.ResponseWriter, *http.Request) {}))
	mux.HandleFunc("GET /api/listing/{ref}", common.CorsHandler(s.HandleListing))
	mux.HandleFunc("GET /api/listing/{ref}/facets", common.CorsHandler(s.HandleFacets))
	mux.HandleFunc("GET /api/cart", common.CorsHandler(cartServer.GetCart))
	mux.HandleFunc("POST /api/cart/items", common.CorsHandler(cartServer.AddItem))
	mux.HandleFunc("DELETE /api/cart/items/{productId}", common.CorsHandler(cartServer.RemoveItem))
	mux.HandleFunc("GET /api/wishlist", common.CorsHandler(cartServer.GetWishlist))
	mux.HandleFunc("POST /api/wishlist/{productId}", common.CorsHandler(cartServer.ToggleWishlist))
}
