package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/craftmandi/craft-finder/pkg/types"
)

// DiskCatalog serves a category tree and its products from a gzipped
// JSON dataset on disk. It backs local serving and the test suite
// without a live backend.
type DiskCatalog struct {
	mu         sync.RWMutex
	categories []types.CategoryRef
	bySlug     map[string]types.CategoryRef
	products   map[string][]types.Product
}

type diskDataset struct {
	Categories []wireCategory `json:"categories"`
	Products   []wireProduct  `json:"products"`
}

func OpenDiskCatalog(path string) (*DiskCatalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	var dataset diskDataset
	if err := json.NewDecoder(reader).Decode(&dataset); err != nil {
		return nil, fmt.Errorf("invalid catalog dataset %s: %w", path, err)
	}
	return newDiskCatalog(dataset.Categories, dataset.Products), nil
}

func newDiskCatalog(categories []wireCategory, products []wireProduct) *DiskCatalog {
	d := &DiskCatalog{
		bySlug:   map[string]types.CategoryRef{},
		products: map[string][]types.Product{},
	}
	for _, c := range categories {
		ref := types.CategoryRef{Id: c.Id, Name: c.Name}
		d.categories = append(d.categories, ref)
		if c.Slug != "" {
			d.bySlug[strings.ToLower(c.Slug)] = ref
		}
		d.bySlug[strings.ToLower(c.Name)] = ref
		d.bySlug[c.Id] = ref
	}
	for i := range products {
		p := products[i].normalize()
		d.products[p.ParentCategory.Id] = append(d.products[p.ParentCategory.Id], p)
	}
	return d
}

func (d *DiskCatalog) Categories() []types.CategoryRef {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.categories
}

// Resolve accepts an id, a slug or a display name.
func (d *DiskCatalog) Resolve(_ context.Context, ref string) (types.CategoryRef, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if category, ok := d.bySlug[strings.ToLower(ref)]; ok {
		return category, nil
	}
	return types.CategoryRef{}, fmt.Errorf("category not found: %s", ref)
}

func (d *DiskCatalog) FetchAll(_ context.Context, categoryId string) ([]types.Product, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.products[categoryId], nil
}
