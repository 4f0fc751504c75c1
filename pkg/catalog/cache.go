package catalog

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/craftmandi/craft-finder/pkg/types"
)

// Cache is a redis-backed cache with a short-lived local memory layer
// in front of it.
type Cache struct {
	client *redis.Client
	mu     sync.Mutex
	mem    map[string]localEntry
}

type localEntry struct {
	expires time.Time
	data    []byte
}

const localTTL = time.Minute

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, mem: map[string]localEntry{}}
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	c.mu.Lock()
	local, found := c.mem[key]
	if found && time.Now().Before(local.expires) {
		c.mu.Unlock()
		return json.Unmarshal(local.data, out)
	}
	if found {
		delete(c.mem, key)
	}
	c.mu.Unlock()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	c.mu.Lock()
	c.mem[key] = localEntry{expires: time.Now().Add(localTTL), data: data}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.mem[key] = localEntry{expires: time.Now().Add(min(localTTL, expiration)), data: data}
	c.mu.Unlock()
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Close() {
	c.client.Close()
}

// CachedSource wraps a CategorySource with a short-TTL cache keyed by
// category id, so sibling listing views do not repeat the full
// metadata fetch. Invalidate must be called on any write that changes
// product pricing or category membership.
type CachedSource struct {
	Source interface {
		Resolve(ctx context.Context, ref string) (types.CategoryRef, error)
		FetchAll(ctx context.Context, categoryId string) ([]types.Product, error)
	}
	Cache *Cache
	TTL   time.Duration
}

func (s *CachedSource) Resolve(ctx context.Context, ref string) (types.CategoryRef, error) {
	key := "category:ref:" + ref
	var category types.CategoryRef
	if err := s.Cache.Get(ctx, key, &category); err == nil && category.Id != "" {
		return category, nil
	}
	category, err := s.Source.Resolve(ctx, ref)
	if err != nil {
		return types.CategoryRef{}, err
	}
	if err := s.Cache.Set(ctx, key, category, s.TTL); err != nil {
		log.Printf("cache set failed for %s: %v", key, err)
	}
	return category, nil
}

func (s *CachedSource) FetchAll(ctx context.Context, categoryId string) ([]types.Product, error) {
	key := productsKey(categoryId)
	var products []types.Product
	if err := s.Cache.Get(ctx, key, &products); err == nil {
		return products, nil
	}
	products, err := s.Source.FetchAll(ctx, categoryId)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, key, products, s.TTL); err != nil {
		log.Printf("cache set failed for %s: %v", key, err)
	}
	return products, nil
}

func (s *CachedSource) Invalidate(ctx context.Context, categoryId string) {
	if err := s.Cache.Delete(ctx, productsKey(categoryId)); err != nil {
		log.Printf("cache invalidate failed for %s: %v", categoryId, err)
	}
}

func productsKey(categoryId string) string {
	return "category:" + categoryId + ":products"
}
