package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"northwind-service/internal/model"
	"northwind-service/internal/service"
	"northwind-service/internal/store"
	"northwind-service/pkg/logger"
	"northwind-service/prometheus"
)

// ProductHandler serves product reads through the cached service and writes
// through the store.
type ProductHandler struct {
	products *service.ProductService
	store    *store.Store
}

// NewProductHandler wires the product handler.
func NewProductHandler(products *service.ProductService, st *store.Store) *ProductHandler {
	return &ProductHandler{products: products, store: st}
}

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name            string   `json:"name" validate:"required,max=40"`
	CategoryID      *uint    `json:"category_id,omitempty"`
	SupplierID      *uint    `json:"supplier_id,omitempty"`
	QuantityPerUnit *string  `json:"quantity_per_unit,omitempty" validate:"omitempty,max=20"`
	UnitPrice       *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	UnitsInStock    *int16   `json:"units_in_stock,omitempty" validate:"omitempty,gte=0"`
	UnitsOnOrder    *int16   `json:"units_on_order,omitempty" validate:"omitempty,gte=0"`
	ReorderLevel    *int16   `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
	Discontinued    bool     `json:"discontinued"`
}

// List returns a page of products matching the query filters, ordered by
// name. Discontinued products are excluded unless includeDiscontinued=true.
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("list")

	filter, err := parseProductFilter(c)
	if err != nil {
		log.Warn("Invalid filter parameter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	products, err := h.products.ListAll(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, toProductDTOs(products))
}

// Get returns one product with its category and supplier names and derived
// inventory fields.
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := h.products.GetByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve product"})
	}
	if product == nil {
		log.Warn("Product not found", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, toProductDetailDTO(product))
}

// Search returns up to 20 products whose name contains q. A blank q returns
// an empty list.
func (h *ProductHandler) Search(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("search")

	term := c.QueryParam("q")
	products, err := h.products.Search(c.Request().Context(), term)
	if err != nil {
		log.Error("Product search failed", zap.String("term", term), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Search failed"})
	}

	return c.JSON(http.StatusOK, toProductDTOs(products))
}

// LowStock returns products at or below their reorder level, lowest stock
// first. Always fresh, never cached.
func (h *ProductHandler) LowStock(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("low_stock")

	products, err := h.products.GetNeedingReorder(c.Request().Context())
	if err != nil {
		log.Error("Failed to list low-stock products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	return c.JSON(http.StatusOK, toProductDTOs(products))
}

// Create adds a new product after verifying its category and supplier
// references exist.
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("create")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	clientMsg, err := h.checkReferences(ctx, &req)
	if err != nil {
		log.Error("Failed to verify product references", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}
	if clientMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": clientMsg})
	}

	product := model.Product{
		Name:            req.Name,
		CategoryID:      req.CategoryID,
		SupplierID:      req.SupplierID,
		QuantityPerUnit: req.QuantityPerUnit,
		UnitPrice:       req.UnitPrice,
		UnitsInStock:    req.UnitsInStock,
		UnitsOnOrder:    req.UnitsOnOrder,
		ReorderLevel:    req.ReorderLevel,
		Discontinued:    req.Discontinued,
	}
	if err := h.store.Create(ctx, &product); err != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// Update modifies an existing product.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	product, err := h.store.ProductByID(ctx, id)
	if err != nil {
		log.Error("Failed to load product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}
	if product == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	clientMsg, err := h.checkReferences(ctx, &req)
	if err != nil {
		log.Error("Failed to verify product references", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}
	if clientMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": clientMsg})
	}

	product.Name = req.Name
	product.CategoryID = req.CategoryID
	product.SupplierID = req.SupplierID
	product.QuantityPerUnit = req.QuantityPerUnit
	product.UnitPrice = req.UnitPrice
	product.UnitsInStock = req.UnitsInStock
	product.UnitsOnOrder = req.UnitsOnOrder
	product.ReorderLevel = req.ReorderLevel
	product.Discontinued = req.Discontinued

	if err := h.store.Update(ctx, product); err != nil {
		log.Error("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	log.Info("Product updated successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// Discontinue flags a product as no longer sold.
func (h *ProductHandler) Discontinue(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("discontinue")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx := c.Request().Context()
	product, err := h.store.ProductByID(ctx, id)
	if err != nil {
		log.Error("Failed to load product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to discontinue product"})
	}
	if product == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	product.Discontinue()
	if err := h.store.Update(ctx, product); err != nil {
		log.Error("Failed to discontinue product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to discontinue product"})
	}

	log.Info("Product discontinued", zap.Uint("product_id", id), zap.String("name", product.Name))
	return c.JSON(http.StatusOK, toProductDetailDTO(product))
}

// Delete removes a product.
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx := c.Request().Context()
	product, err := h.store.ProductByID(ctx, id)
	if err != nil {
		log.Error("Failed to load product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}
	if product == nil {
		log.Warn("Product not found for deletion", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	if err := h.store.Delete(ctx, product); err != nil {
		log.Error("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	log.Info("Product deleted successfully", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// checkReferences verifies that the request's category and supplier ids
// reference existing rows. A non-empty message means the request should be
// rejected; a non-nil error means the check itself failed.
func (h *ProductHandler) checkReferences(ctx context.Context, req *ProductRequest) (string, error) {
	if req.CategoryID != nil {
		category, err := h.store.CategoryByID(ctx, *req.CategoryID)
		if err != nil {
			return "", err
		}
		if category == nil {
			return "category does not exist", nil
		}
	}
	if req.SupplierID != nil {
		supplier, err := h.store.SupplierByID(ctx, *req.SupplierID)
		if err != nil {
			return "", err
		}
		if supplier == nil {
			return "supplier does not exist", nil
		}
	}
	return "", nil
}

// parseProductFilter builds the listing filter from query parameters,
// rejecting malformed values.
func parseProductFilter(c echo.Context) (store.ProductFilter, error) {
	var filter store.ProductFilter

	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, errors.New("invalid categoryId parameter")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if raw := c.QueryParam("supplierId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, errors.New("invalid supplierId parameter")
		}
		supplierID := uint(id)
		filter.SupplierID = &supplierID
	}
	if raw := c.QueryParam("includeDiscontinued"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("invalid includeDiscontinued parameter")
		}
		filter.IncludeDiscontinued = include
	}
	if raw := c.QueryParam("minPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.New("invalid minPrice parameter")
		}
		filter.MinPrice = &price
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.New("invalid maxPrice parameter")
		}
		filter.MaxPrice = &price
	}
	filter.SearchTerm = c.QueryParam("q")
	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("invalid page parameter")
		}
		filter.Page = page
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("invalid pageSize parameter")
		}
		filter.PageSize = size
	}

	return filter, nil
}
