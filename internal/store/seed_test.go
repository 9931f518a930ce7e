package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"northwind-service/internal/model"
)

func TestSeedCreatesReferenceDataset(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Seed(ctx))

	categories, err := st.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 8)

	suppliers, err := st.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 5)

	products, err := st.Products(ctx, ProductFilter{IncludeDiscontinued: true, PageSize: MaxPageSize})
	require.NoError(t, err)
	require.Len(t, products, 8)

	// Both cheeses resolve to the same supplier.
	var cabrales, manchego *model.Product
	for i := range products {
		switch products[i].Name {
		case "Queso Cabrales":
			cabrales = &products[i]
		case "Queso Manchego La Pastora":
			manchego = &products[i]
		}
	}
	require.NotNil(t, cabrales)
	require.NotNil(t, manchego)
	require.NotNil(t, cabrales.SupplierID)
	require.NotNil(t, manchego.SupplierID)
	require.Equal(t, *cabrales.SupplierID, *manchego.SupplierID)
	require.NotNil(t, cabrales.Supplier)
	require.Equal(t, "Cooperativa de Quesos 'Las Cabras'", cabrales.Supplier.CompanyName)
}

func TestSeedIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Seed(ctx))
	require.NoError(t, st.Seed(ctx))

	categories, err := st.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 8)

	products, err := st.Products(ctx, ProductFilter{IncludeDiscontinued: true, PageSize: MaxPageSize})
	require.NoError(t, err)
	require.Len(t, products, 8)
}

func TestSeedMarksGumboMixDiscontinued(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Seed(ctx))

	active, err := st.Products(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, active, 7)
	for _, p := range active {
		require.NotEqual(t, "Chef Anton's Gumbo Mix", p.Name)
	}
}

func TestSeedCreatesDemoAccounts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Seed(ctx))

	admin, err := st.UserByEmail(ctx, "admin@northwind.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	require.Equal(t, model.RoleAdmin, admin.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))

	user, err := st.UserByEmail(ctx, "user@northwind.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, model.RoleUser, user.Role)
}
