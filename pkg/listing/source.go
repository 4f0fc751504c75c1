package listing

import (
	"context"

	"github.com/craftmandi/craft-finder/pkg/types"
)

// CategorySource is the capability a controller needs from a product
// backend. One interface replaces the per-identity listing variants:
// resolving by category name, parent-category slug or primary-category
// id is the source's concern, not the controller's.
type CategorySource interface {
	// Resolve turns a slug, name or id into a normalized category.
	Resolve(ctx context.Context, ref string) (types.CategoryRef, error)
	// FetchAll returns the full unfiltered product set of a category.
	// The controller uses it both for the metadata pass and, absent a
	// PageSource, as the base for client-side pagination.
	FetchAll(ctx context.Context, categoryId string) ([]types.Product, error)
}

// PageSource is an optional extension for backends that paginate
// server-side. The controller still runs its metadata pass through
// FetchAll; per-page content then comes from FetchPage.
type PageSource interface {
	CategorySource
	FetchPage(ctx context.Context, categoryId string, page, size int) ([]types.Product, bool, error)
}

// Membership answers "is this product id in the user's cart" (or
// wishlist). The collections themselves are owned elsewhere; the
// controller only reads them to annotate fetched products.
type Membership interface {
	Contains(productId string) bool
}

// MembershipFunc adapts a plain function to Membership.
type MembershipFunc func(productId string) bool

func (f MembershipFunc) Contains(productId string) bool {
	if f == nil {
		return false
	}
	return f(productId)
}

// NoMembership is the annotation source for anonymous sessions.
var NoMembership Membership = MembershipFunc(nil)
