package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"northwind-service/internal/model"
	"northwind-service/internal/store"
	"northwind-service/pkg/cache"
	"northwind-service/prometheus"
)

const (
	productCacheTTL   = 5 * time.Minute
	searchResultLimit = 20
)

// ProductService serves product reads. Single-product and per-category reads
// are cached for 5 minutes; filtered listings, search and the reorder view
// always hit the store.
type ProductService struct {
	store *store.Store
	cache cache.Cache
	log   *zap.Logger
}

// NewProductService wires a product service.
func NewProductService(st *store.Store, c cache.Cache, log *zap.Logger) *ProductService {
	return &ProductService{store: st, cache: c, log: log}
}

// ListAll returns products matching the filter, ordered by name and
// paginated. Not cached: the filter space is unbounded.
func (s *ProductService) ListAll(ctx context.Context, filter store.ProductFilter) ([]model.Product, error) {
	return s.store.Products(ctx, filter)
}

// GetByID returns the product with category and supplier attached, or nil
// when it does not exist.
func (s *ProductService) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	key := fmt.Sprintf("product_%d", id)

	var cached model.Product
	if ok := s.cacheGet(ctx, key, &cached); ok {
		prometheus.RecordCacheHit("product")
		return &cached, nil
	}
	prometheus.RecordCacheMiss("product")

	product, err := s.store.ProductByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}
	s.cacheSet(ctx, key, product, productCacheTTL)
	return product, nil
}

// GetByCategory returns the category's non-discontinued products ordered by
// name, with suppliers attached.
func (s *ProductService) GetByCategory(ctx context.Context, categoryID uint) ([]model.Product, error) {
	key := fmt.Sprintf("products_cat_%d", categoryID)

	var cached []model.Product
	if ok := s.cacheGet(ctx, key, &cached); ok {
		prometheus.RecordCacheHit("products_by_category")
		return cached, nil
	}
	prometheus.RecordCacheMiss("products_by_category")

	products, err := s.store.ProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, products, productCacheTTL)
	return products, nil
}

// GetNeedingReorder returns products at or below their reorder level, lowest
// stock first. Never cached: restocking decisions need current state.
func (s *ProductService) GetNeedingReorder(ctx context.Context) ([]model.Product, error) {
	return s.store.ProductsNeedingReorder(ctx)
}

// Search returns up to 20 non-discontinued products whose name contains term.
// A blank term returns an empty result without touching the store.
func (s *ProductService) Search(ctx context.Context, term string) ([]model.Product, error) {
	if strings.TrimSpace(term) == "" {
		return []model.Product{}, nil
	}
	return s.store.SearchProducts(ctx, term, searchResultLimit)
}

func (s *ProductService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (s *ProductService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
