package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"northwind-service/internal/model"
	"northwind-service/internal/service"
	"northwind-service/internal/store"
	"northwind-service/pkg/cache"
)

func newProductHandler(t *testing.T) (*ProductHandler, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	svc := service.NewProductService(st, cache.NewMemory(), zap.NewNop())
	return NewProductHandler(svc, st), st
}

func doJSON(t *testing.T, handler echo.HandlerFunc, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestProductGetNotFound(t *testing.T) {
	h, _ := newProductHandler(t)

	rec := doJSON(t, h.Get, http.MethodGet, "/api/products/999", "", map[string]string{"id": "999"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductGetInvalidID(t *testing.T) {
	h, _ := newProductHandler(t)

	rec := doJSON(t, h.Get, http.MethodGet, "/api/products/abc", "", map[string]string{"id": "abc"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductGetIncludesDerivedFields(t *testing.T) {
	h, st := newProductHandler(t)
	ctx := context.Background()

	category := model.Category{Name: "Beverages"}
	require.NoError(t, st.Create(ctx, &category))
	price := 18.00
	stock := int16(5)
	reorder := int16(10)
	product := model.Product{
		Name:         "Chai",
		CategoryID:   &category.ID,
		UnitPrice:    &price,
		UnitsInStock: &stock,
		ReorderLevel: &reorder,
	}
	require.NoError(t, st.Create(ctx, &product))

	rec := doJSON(t, h.Get, http.MethodGet, "/api/products/1", "", map[string]string{"id": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var dto ProductDetailDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Equal(t, "Chai", dto.Name)
	require.Equal(t, "Beverages", dto.Category)
	require.True(t, dto.NeedsReorder, "stock 5 at reorder level 10 must flag")
	require.Equal(t, 90.0, dto.InventoryValue)
	require.True(t, dto.InStock)
}

func TestProductCreateRejectsUnknownCategory(t *testing.T) {
	h, _ := newProductHandler(t)

	rec := doJSON(t, h.Create, http.MethodPost, "/api/products",
		`{"name":"Chai","category_id":42}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "category does not exist")
}

func TestProductCreateRejectsUnknownSupplier(t *testing.T) {
	h, _ := newProductHandler(t)

	rec := doJSON(t, h.Create, http.MethodPost, "/api/products",
		`{"name":"Chai","supplier_id":42}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "supplier does not exist")
}

func TestProductCreateRejectsOverlongName(t *testing.T) {
	h, _ := newProductHandler(t)

	name := strings.Repeat("x", 41)
	rec := doJSON(t, h.Create, http.MethodPost, "/api/products",
		`{"name":"`+name+`"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductCreateAndDiscontinue(t *testing.T) {
	h, st := newProductHandler(t)

	rec := doJSON(t, h.Create, http.MethodPost, "/api/products",
		`{"name":"Chai","unit_price":18.0,"units_in_stock":39}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.False(t, created.Discontinued)
	require.False(t, created.CreatedAt.IsZero())
	require.Nil(t, created.UpdatedAt)

	rec = doJSON(t, h.Discontinue, http.MethodPost, "/api/products/1/discontinue", "",
		map[string]string{"id": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	reloaded, err := st.ProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	require.True(t, reloaded.Discontinued)
	require.NotNil(t, reloaded.UpdatedAt)
}

func TestProductDeleteNotFound(t *testing.T) {
	h, _ := newProductHandler(t)

	rec := doJSON(t, h.Delete, http.MethodDelete, "/api/products/999", "",
		map[string]string{"id": "999"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseProductFilter(t *testing.T) {
	e := echo.New()

	newContext := func(query string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/api/products?"+query, nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	filter, err := parseProductFilter(newContext("categoryId=3&minPrice=10&maxPrice=20&q=cha&page=2&pageSize=5"))
	require.NoError(t, err)
	require.NotNil(t, filter.CategoryID)
	require.Equal(t, uint(3), *filter.CategoryID)
	require.Equal(t, 10.0, *filter.MinPrice)
	require.Equal(t, 20.0, *filter.MaxPrice)
	require.Equal(t, "cha", filter.SearchTerm)
	require.Equal(t, 2, filter.Page)
	require.Equal(t, 5, filter.PageSize)
	require.False(t, filter.IncludeDiscontinued)

	filter, err = parseProductFilter(newContext("includeDiscontinued=true"))
	require.NoError(t, err)
	require.True(t, filter.IncludeDiscontinued)

	for _, query := range []string{
		"categoryId=abc",
		"supplierId=-1",
		"includeDiscontinued=maybe",
		"minPrice=cheap",
		"maxPrice=expensive",
		"page=first",
		"pageSize=lots",
	} {
		_, err = parseProductFilter(newContext(query))
		require.Error(t, err, "query %q", query)
	}
}

func TestProductListRejectsMalformedFilter(t *testing.T) {
	h, _ := newProductHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products?minPrice=cheap", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
