package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"northwind-service/internal/model"
)

// Pagination bounds for product listings.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ProductFilter narrows a product listing. All set fields apply conjunctively
// in a fixed order: discontinued exclusion, category, supplier, price lower
// bound, price upper bound, name substring.
type ProductFilter struct {
	CategoryID          *uint
	SupplierID          *uint
	IncludeDiscontinued bool
	MinPrice            *float64
	MaxPrice            *float64
	SearchTerm          string
	Page                int
	PageSize            int
}

func (f *ProductFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// CategoryProductCount is the per-category aggregate served by the category
// listing: the total product count and the count of products still on sale.
type CategoryProductCount struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	ProductCount       int     `json:"product_count"`
	ActiveProductCount int     `json:"active_product_count"`
}

// Categories returns all categories ordered by name.
func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).
		Order("name asc").
		Find(&categories).Error
	return categories, wrap("categories", err)
}

// CategoryByID returns the category with its non-discontinued products
// attached, or nil when no such category exists.
func (s *Store) CategoryByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).
		Preload("Products", "discontinued = ?", false).
		First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("category by id", err)
	}
	return &category, nil
}

// CategoryProductCounts returns one row per category, ordered by name.
// Categories without products are included with zero counts.
func (s *Store) CategoryProductCounts(ctx context.Context) ([]CategoryProductCount, error) {
	var rows []CategoryProductCount
	err := s.db.WithContext(ctx).
		Model(&model.Category{}).
		Select("categories.id, categories.name, categories.description,"+
			" count(products.id) as product_count,"+
			" count(case when products.discontinued = ? then products.id end) as active_product_count", false).
		Joins("left join products on products.category_id = categories.id").
		Group("categories.id, categories.name, categories.description").
		Order("categories.name asc").
		Scan(&rows).Error
	return rows, wrap("category product counts", err)
}

// Products lists products matching the filter, ordered by name and paginated.
func (s *Store) Products(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	filter.normalize()

	query := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Preload("Category").
		Preload("Supplier")

	if !filter.IncludeDiscontinued {
		query = query.Where("discontinued = ?", false)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.MinPrice != nil {
		query = query.Where("unit_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("unit_price <= ?", *filter.MaxPrice)
	}
	if filter.SearchTerm != "" {
		query = query.Where("name like ?", "%"+filter.SearchTerm+"%")
	}

	var products []model.Product
	err := query.
		Order("name asc").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&products).Error
	return products, wrap("products", err)
}

// ProductByID returns the product with category and supplier attached, or nil
// when no such product exists.
func (s *Store) ProductByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("product by id", err)
	}
	return &product, nil
}

// ProductsByCategory returns the category's non-discontinued products with
// suppliers attached, ordered by name.
func (s *Store) ProductsByCategory(ctx context.Context, categoryID uint) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Preload("Supplier").
		Where("category_id = ? and discontinued = ?", categoryID, false).
		Order("name asc").
		Find(&products).Error
	return products, wrap("products by category", err)
}

// ProductsNeedingReorder returns non-discontinued products at or below their
// reorder level, lowest stock first. Products without a stock or reorder
// level never match.
func (s *Store) ProductsNeedingReorder(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Where("discontinued = ?", false).
		Where("units_in_stock <= reorder_level").
		Order("units_in_stock asc").
		Find(&products).Error
	return products, wrap("products needing reorder", err)
}

// SearchProducts returns non-discontinued products whose name contains term,
// ordered by name and capped at limit.
func (s *Store) SearchProducts(ctx context.Context, term string, limit int) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("discontinued = ?", false).
		Where("name like ?", "%"+term+"%").
		Order("name asc").
		Limit(limit).
		Find(&products).Error
	return products, wrap("search products", err)
}

// Suppliers returns all suppliers ordered by company name.
func (s *Store) Suppliers(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := s.db.WithContext(ctx).
		Order("company_name asc").
		Find(&suppliers).Error
	return suppliers, wrap("suppliers", err)
}

// SupplierByID returns the supplier or nil when no such supplier exists.
func (s *Store) SupplierByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	err := s.db.WithContext(ctx).First(&supplier, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("supplier by id", err)
	}
	return &supplier, nil
}

// UserByEmail returns the user or nil when no account matches.
func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("user by email", err)
	}
	return &user, nil
}
