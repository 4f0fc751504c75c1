package cart

import (
	"encoding/json"
	"net/http"

	"github.com/craftmandi/craft-finder/pkg/common"
)

// Server exposes cart and wishlist operations over HTTP. The cart id
// lives in a session cookie; a first write creates it.
type Server struct {
	Storage Storage
}

func (s *Server) respond(w http.ResponseWriter, data any, err error) {
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJson(w, data)
}

func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	cartId := common.HandleCartCookie(w, r, NewId)
	cart, err := s.Storage.GetCart(cartId)
	s.respond(w, cart, err)
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	cartId := common.HandleCartCookie(w, r, NewId)
	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid item")
		return
	}
	cart, err := s.Storage.AddItem(cartId, item)
	s.respond(w, cart, err)
}

func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartId := common.HandleCartCookie(w, r, NewId)
	productId := r.PathValue("productId")
	if productId == "" {
		common.WriteError(w, http.StatusBadRequest, "missing product id")
		return
	}
	cart, err := s.Storage.RemoveItem(cartId, productId)
	s.respond(w, cart, err)
}

func (s *Server) GetWishlist(w http.ResponseWriter, r *http.Request) {
	cartId := common.HandleCartCookie(w, r, NewId)
	list, err := s.Storage.GetWishlist(cartId)
	s.respond(w, list, err)
}

func (s *Server) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	cartId := common.HandleCartCookie(w, r, NewId)
	productId := r.PathValue("productId")
	if productId == "" {
		common.WriteError(w, http.StatusBadRequest, "missing product id")
		return
	}
	list, err := s.Storage.ToggleWishlist(cartId, productId)
	s.respond(w, list, err)
}
