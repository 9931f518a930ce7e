// Package service holds the read services that sit between the HTTP handlers
// and the store. Reads go through the TTL cache; the cache is never evicted
// on write, so a mutation may not be visible until the entry expires.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"northwind-service/internal/model"
	"northwind-service/internal/store"
	"northwind-service/pkg/cache"
	"northwind-service/prometheus"
)

const (
	categoryCacheTTL  = 10 * time.Minute
	categoriesKey     = "categories"
	categoryCountsKey = "categories_counts"
)

// CategoryService serves category reads with a 10-minute cache window.
type CategoryService struct {
	store *store.Store
	cache cache.Cache
	log   *zap.Logger
}

// NewCategoryService wires a category service.
func NewCategoryService(st *store.Store, c cache.Cache, log *zap.Logger) *CategoryService {
	return &CategoryService{store: st, cache: c, log: log}
}

// ListAll returns every category ordered by name.
func (s *CategoryService) ListAll(ctx context.Context) ([]model.Category, error) {
	var cached []model.Category
	if ok := s.cacheGet(ctx, categoriesKey, &cached); ok {
		prometheus.RecordCacheHit("categories")
		return cached, nil
	}
	prometheus.RecordCacheMiss("categories")

	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, categoriesKey, categories, categoryCacheTTL)
	return categories, nil
}

// GetByID returns the category with its non-discontinued products, or nil
// when it does not exist. Absence is not cached.
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	key := fmt.Sprintf("category_%d", id)

	var cached model.Category
	if ok := s.cacheGet(ctx, key, &cached); ok {
		prometheus.RecordCacheHit("category")
		return &cached, nil
	}
	prometheus.RecordCacheMiss("category")

	category, err := s.store.CategoryByID(ctx, id)
	if err != nil || category == nil {
		return category, err
	}
	s.cacheSet(ctx, key, category, categoryCacheTTL)
	return category, nil
}

// ListWithProductCounts returns one aggregate row per category ordered by
// name, including categories without products.
func (s *CategoryService) ListWithProductCounts(ctx context.Context) ([]store.CategoryProductCount, error) {
	var cached []store.CategoryProductCount
	if ok := s.cacheGet(ctx, categoryCountsKey, &cached); ok {
		prometheus.RecordCacheHit("category_counts")
		return cached, nil
	}
	prometheus.RecordCacheMiss("category_counts")

	counts, err := s.store.CategoryProductCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, categoryCountsKey, counts, categoryCacheTTL)
	return counts, nil
}

// cacheGet reads a cached entry, treating cache failures as misses so a
// broken cache degrades to direct reads.
func (s *CategoryService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (s *CategoryService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
