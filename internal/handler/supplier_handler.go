package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"northwind-service/internal/model"
	"northwind-service/internal/store"
	"northwind-service/pkg/logger"
	"northwind-service/prometheus"
)

// SupplierHandler serves supplier reads and writes through the store.
// Supplier data changes rarely and is small, so reads go straight to the
// database without a cache layer.
type SupplierHandler struct {
	store *store.Store
}

// NewSupplierHandler wires the supplier handler.
func NewSupplierHandler(st *store.Store) *SupplierHandler {
	return &SupplierHandler{store: st}
}

// SupplierRequest defines the structure for supplier creation/update requests
type SupplierRequest struct {
	CompanyName  string  `json:"company_name" validate:"required,max=40"`
	ContactName  *string `json:"contact_name,omitempty" validate:"omitempty,max=30"`
	ContactTitle *string `json:"contact_title,omitempty" validate:"omitempty,max=30"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=60"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=15"`
	Region       *string `json:"region,omitempty" validate:"omitempty,max=15"`
	PostalCode   *string `json:"postal_code,omitempty" validate:"omitempty,max=10"`
	Country      *string `json:"country,omitempty" validate:"omitempty,max=15"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=24"`
	Fax          *string `json:"fax,omitempty" validate:"omitempty,max=24"`
	HomePage     *string `json:"home_page,omitempty"`
}

// List returns all suppliers ordered by company name.
func (h *SupplierHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("list")

	suppliers, err := h.store.Suppliers(c.Request().Context())
	if err != nil {
		log.Error("Failed to list suppliers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve suppliers"})
	}

	log.Info("Suppliers retrieved successfully", zap.Int("count", len(suppliers)))
	return c.JSON(http.StatusOK, suppliers)
}

// Get returns one supplier.
func (h *SupplierHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	supplier, err := h.store.SupplierByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get supplier", zap.Uint("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve supplier"})
	}
	if supplier == nil {
		log.Warn("Supplier not found", zap.Uint("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	return c.JSON(http.StatusOK, supplier)
}

// Create adds a new supplier.
func (h *SupplierHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("create")

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	supplier := model.Supplier{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		ContactTitle: req.ContactTitle,
		Address:      req.Address,
		City:         req.City,
		Region:       req.Region,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
		Fax:          req.Fax,
		HomePage:     req.HomePage,
	}
	if err := h.store.Create(c.Request().Context(), &supplier); err != nil {
		log.Error("Failed to create supplier", zap.String("company_name", req.CompanyName), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create supplier"})
	}

	log.Info("Supplier created successfully",
		zap.Uint("supplier_id", supplier.ID),
		zap.String("company_name", supplier.CompanyName))
	return c.JSON(http.StatusCreated, supplier)
}

// Update modifies an existing supplier.
func (h *SupplierHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	supplier, err := h.store.SupplierByID(ctx, id)
	if err != nil {
		log.Error("Failed to load supplier", zap.Uint("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update supplier"})
	}
	if supplier == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	supplier.CompanyName = req.CompanyName
	supplier.ContactName = req.ContactName
	supplier.ContactTitle = req.ContactTitle
	supplier.Address = req.Address
	supplier.City = req.City
	supplier.Region = req.Region
	supplier.PostalCode = req.PostalCode
	supplier.Country = req.Country
	supplier.Phone = req.Phone
	supplier.Fax = req.Fax
	supplier.HomePage = req.HomePage
	if err := h.store.Update(ctx, supplier); err != nil {
		log.Error("Failed to update supplier", zap.Uint("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update supplier"})
	}

	log.Info("Supplier updated successfully",
		zap.Uint("supplier_id", supplier.ID),
		zap.String("company_name", supplier.CompanyName))
	return c.JSON(http.StatusOK, supplier)
}

// Delete removes a supplier. Products from the supplier keep existing with
// their supplier reference cleared.
func (h *SupplierHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	ctx := c.Request().Context()
	supplier, err := h.store.SupplierByID(ctx, id)
	if err != nil {
		log.Error("Failed to load supplier", zap.Uint("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete supplier"})
	}
	if supplier == nil {
		log.Warn("Supplier not found for deletion", zap.Uint("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	if err := h.store.Delete(ctx, supplier); err != nil {
		log.Error("Failed to delete supplier", zap.Uint("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete supplier"})
	}

	log.Info("Supplier deleted successfully", zap.Uint("supplier_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Supplier deleted successfully"})
}
