package types

// CategoryRef is the normalized shape for any category reference.
// Upstream data sometimes delivers a bare id string and sometimes a
// populated object; sources normalize both into this before products
// enter the filtering core.
type CategoryRef struct {
	Id   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Product struct {
	Id                string      `json:"id"`
	Name              string      `json:"name"`
	Slug              string      `json:"slug"`
	NetPrice          float64     `json:"netPrice"`
	Color             string      `json:"color,omitempty"`
	Rating            float64     `json:"rating,omitempty"`
	SecondaryCategory CategoryRef `json:"secondaryCategory"`
	ParentCategory    CategoryRef `json:"parentCategory"`

	// Derived per fetch from the session's cart and wishlist,
	// never persisted on the product itself.
	InCart     bool `json:"inCart"`
	InWishlist bool `json:"wishlist"`
}
