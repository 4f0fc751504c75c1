// Package catalog provides the data-source implementations behind a
// listing: the HTTP client for the product backend, a disk-backed
// catalog for local serving and tests, and a cached wrapper.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/craftmandi/craft-finder/pkg/types"
)

// Client talks to the product backend API and implements
// listing.PageSource over its envelope responses.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog unreachable: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		if env.Error != "" {
			return nil, fmt.Errorf("catalog: %s", env.Error)
		}
		return nil, fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
	}
	return &env, nil
}

func (c *Client) Resolve(ctx context.Context, ref string) (types.CategoryRef, error) {
	env, err := c.get(ctx, "/api/categories/"+url.PathEscape(ref), nil)
	if err != nil {
		return types.CategoryRef{}, err
	}
	var category wireCategory
	if err := sonic.Unmarshal(env.Data, &category); err != nil {
		return types.CategoryRef{}, fmt.Errorf("invalid category payload: %w", err)
	}
	if category.Id == "" {
		return types.CategoryRef{}, fmt.Errorf("category not found: %s", ref)
	}
	return types.CategoryRef{Id: category.Id, Name: category.Name}, nil
}

func (c *Client) FetchAll(ctx context.Context, categoryId string) ([]types.Product, error) {
	query := url.Values{"category": {categoryId}}
	env, err := c.get(ctx, "/api/products", query)
	if err != nil {
		return nil, err
	}
	var wire []wireProduct
	if err := sonic.Unmarshal(env.Data, &wire); err != nil {
		return nil, fmt.Errorf("invalid product payload: %w", err)
	}
	return normalizeProducts(wire), nil
}

func (c *Client) FetchPage(ctx context.Context, categoryId string, page, size int) ([]types.Product, bool, error) {
	query := url.Values{
		"category": {categoryId},
		"page":     {fmt.Sprintf("%d", page)},
		"limit":    {fmt.Sprintf("%d", size)},
	}
	env, err := c.get(ctx, "/api/products", query)
	if err != nil {
		return nil, false, err
	}
	var wire []wireProduct
	if err := sonic.Unmarshal(env.Data, &wire); err != nil {
		return nil, false, fmt.Errorf("invalid product payload: %w", err)
	}
	hasNext := false
	if env.Pagination != nil {
		hasNext = env.Pagination.HasNext
	}
	return normalizeProducts(wire), hasNext, nil
}
