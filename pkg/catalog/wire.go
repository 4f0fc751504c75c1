package catalog

import (
	"encoding/json"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/craftmandi/craft-finder/pkg/types"
)

// Backend response envelope. Every fetch failure is converted into
// this shape before it reaches engine state, so no raw transport error
// escapes to the host.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination *pagination     `json:"pagination"`
	Error      string          `json:"error"`
}

type pagination struct {
	HasNext     bool `json:"hasNext"`
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
}

type wireCategory struct {
	Id   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// wireProduct mirrors the backend product document. parentCategory
// arrives either as a bare id string or as a populated object
// depending on whether the backend populated the reference; the raw
// message keeps both until normalization.
type wireProduct struct {
	Id              string          `json:"_id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	NetPrice        float64         `json:"netPrice"`
	Color           string          `json:"color"`
	Rating          float64         `json:"rating"`
	ProductCategory *wireCategory   `json:"productCategory"`
	ParentCategory  json.RawMessage `json:"parentCategory"`
}

// normalizeCategory resolves the string-or-object union into the one
// CategoryRef shape the filtering core accepts.
func normalizeCategory(raw []byte) types.CategoryRef {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return types.CategoryRef{}
	}
	var id string
	if err := sonic.Unmarshal(raw, &id); err == nil {
		return types.CategoryRef{Id: id}
	}
	var obj wireCategory
	if err := sonic.Unmarshal(raw, &obj); err == nil {
		return types.CategoryRef{Id: obj.Id, Name: obj.Name}
	}
	return types.CategoryRef{}
}

func (p *wireProduct) normalize() types.Product {
	product := types.Product{
		Id:             p.Id,
		Name:           p.Name,
		Slug:           p.Slug,
		NetPrice:       p.NetPrice,
		Color:          p.Color,
		Rating:         p.Rating,
		ParentCategory: normalizeCategory(p.ParentCategory),
	}
	if p.ProductCategory != nil {
		product.SecondaryCategory = types.CategoryRef{
			Id:   p.ProductCategory.Id,
			Name: p.ProductCategory.Name,
		}
	}
	return product
}

func normalizeProducts(wire []wireProduct) []types.Product {
	result := make([]types.Product, len(wire))
	for i := range wire {
		result[i] = wire[i].normalize()
	}
	return result
}
