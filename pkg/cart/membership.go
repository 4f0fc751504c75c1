package cart

import "github.com/craftmandi/craft-finder/pkg/listing"

// CartMembership binds one cart to the listing engine's annotation
// interface.
func CartMembership(storage Storage, cartId string) listing.Membership {
	return listing.MembershipFunc(func(productId string) bool {
		return storage.InCart(cartId, productId)
	})
}

func WishlistMembership(storage Storage, cartId string) listing.Membership {
	return listing.MembershipFunc(func(productId string) bool {
		return storage.InWishlist(cartId, productId)
	})
}
