package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"northwind-service/internal/model"
	"northwind-service/internal/service"
	"northwind-service/internal/store"
	"northwind-service/pkg/logger"
	"northwind-service/prometheus"
)

// CategoryHandler serves category reads through the cached service and
// writes through the store.
type CategoryHandler struct {
	categories *service.CategoryService
	store      *store.Store
}

// NewCategoryHandler wires the category handler.
func NewCategoryHandler(categories *service.CategoryService, st *store.Store) *CategoryHandler {
	return &CategoryHandler{categories: categories, store: st}
}

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=15"`
	Description *string `json:"description,omitempty"`
}

// List returns every category with its product counts, ordered by name.
// Categories without products appear with zero counts.
func (h *CategoryHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCategoryOperation("list")

	counts, err := h.categories.ListWithProductCounts(c.Request().Context())
	if err != nil {
		log.Error("Failed to list categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	log.Info("Categories retrieved successfully", zap.Int("count", len(counts)))
	return c.JSON(http.StatusOK, counts)
}

// Get returns one category with its non-discontinued products.
func (h *CategoryHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCategoryOperation("get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	category, err := h.categories.GetByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get category", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve category"})
	}
	if category == nil {
		log.Warn("Category not found", zap.Uint("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// Create adds a new category.
func (h *CategoryHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCategoryOperation("create")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category := model.Category{Name: req.Name, Description: req.Description}
	if err := h.store.Create(c.Request().Context(), &category); err != nil {
		log.Error("Failed to create category", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}

	log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// Update modifies an existing category.
func (h *CategoryHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCategoryOperation("update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	category, err := h.store.CategoryByID(ctx, id)
	if err != nil {
		log.Error("Failed to load category", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}
	if category == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := h.store.Update(ctx, category); err != nil {
		log.Error("Failed to update category", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}

	log.Info("Category updated successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusOK, category)
}

// Delete removes a category. Products in the category keep existing with
// their category reference cleared.
func (h *CategoryHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCategoryOperation("delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx := c.Request().Context()
	category, err := h.store.CategoryByID(ctx, id)
	if err != nil {
		log.Error("Failed to load category", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}
	if category == nil {
		log.Warn("Category not found for deletion", zap.Uint("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	if err := h.store.Delete(ctx, category); err != nil {
		log.Error("Failed to delete category", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}

	log.Info("Category deleted successfully", zap.Uint("category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}
