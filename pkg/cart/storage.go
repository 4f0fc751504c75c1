// Package cart owns the user's cart and wishlist collections. The
// listing engine only reads them, through Membership queries, to
// annotate fetched products.
package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

type Item struct {
	ProductId string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	NetPrice  float64 `json:"netPrice,omitempty"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	Id         string  `json:"id"`
	Items      []Item  `json:"items"`
	TotalPrice float64 `json:"totalPrice"`
}

type Wishlist struct {
	Id         string   `json:"id"`
	ProductIds []string `json:"productIds"`
}

type Storage interface {
	GetCart(cartId string) (*Cart, error)
	AddItem(cartId string, item Item) (*Cart, error)
	RemoveItem(cartId string, productId string) (*Cart, error)
	InCart(cartId string, productId string) bool

	GetWishlist(cartId string) (*Wishlist, error)
	ToggleWishlist(cartId string, productId string) (*Wishlist, error)
	InWishlist(cartId string, productId string) bool
}

func NewId() string {
	return uuid.NewString()
}

// DiskStorage keeps one JSON file per cart and wishlist under a base
// path, sharded by id prefix.
type DiskStorage struct {
	Path string
	mu   sync.Mutex
}

func NewDiskStorage(path string) *DiskStorage {
	return &DiskStorage{Path: path}
}

func (s *DiskStorage) fileName(kind, id string) string {
	shard := "0"
	if len(id) >= 2 {
		shard = id[:2]
	}
	return filepath.Join(s.Path, kind, shard, id+".json")
}

func readFile(path string, dest any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(dest)
}

func writeFile(path string, src any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(src)
}

func (s *DiskStorage) GetCart(cartId string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCart(cartId)
}

func (s *DiskStorage) loadCart(cartId string) (*Cart, error) {
	cart := &Cart{Id: cartId, Items: []Item{}}
	err := readFile(s.fileName("carts", cartId), cart)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return cart, nil
}

func (s *DiskStorage) saveCart(cart *Cart) error {
	total := 0.0
	for _, item := range cart.Items {
		total += item.NetPrice * float64(item.Quantity)
	}
	cart.TotalPrice = total
	return writeFile(s.fileName("carts", cart.Id), cart)
}

func (s *DiskStorage) AddItem(cartId string, item Item) (*Cart, error) {
	if item.ProductId == "" {
		return nil, fmt.Errorf("missing product id")
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.loadCart(cartId)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductId == item.ProductId {
			cart.Items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, item)
	}
	if err := s.saveCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *DiskStorage) RemoveItem(cartId string, productId string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.loadCart(cartId)
	if err != nil {
		return nil, err
	}
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductId != productId {
			items = append(items, item)
		}
	}
	cart.Items = items
	if err := s.saveCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *DiskStorage) InCart(cartId string, productId string) bool {
	cart, err := s.GetCart(cartId)
	if err != nil {
		return false
	}
	for _, item := range cart.Items {
		if item.ProductId == productId {
			return true
		}
	}
	return false
}

func (s *DiskStorage) GetWishlist(cartId string) (*Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadWishlist(cartId)
}

func (s *DiskStorage) loadWishlist(cartId string) (*Wishlist, error) {
	list := &Wishlist{Id: cartId, ProductIds: []string{}}
	err := readFile(s.fileName("wishlists", cartId), list)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return list, nil
}

func (s *DiskStorage) ToggleWishlist(cartId string, productId string) (*Wishlist, error) {
	if productId == "" {
		return nil, fmt.Errorf("missing product id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.loadWishlist(cartId)
	if err != nil {
		return nil, err
	}
	ids := list.ProductIds[:0]
	removed := false
	for _, id := range list.ProductIds {
		if id == productId {
			removed = true
			continue
		}
		ids = append(ids, id)
	}
	if !removed {
		ids = append(ids, productId)
	}
	list.ProductIds = ids
	if err := writeFile(s.fileName("wishlists", cartId), list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *DiskStorage) InWishlist(cartId string, productId string) bool {
	list, err := s.GetWishlist(cartId)
	if err != nil {
		return false
	}
	for _, id := range list.ProductIds {
		if id == productId {
			return true
		}
	}
	return false
}
