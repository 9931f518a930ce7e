package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"northwind-service/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.Category{}, &model.Supplier{}, &model.Product{}, &model.User{})
	require.NoError(t, err)

	return New(db)
}

func TestApplyTimestamps(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	added := &model.Category{Name: "Beverages"}
	updated := &model.Category{Name: "Seafood", Timestamps: model.Timestamps{
		CreatedAt: now.Add(-24 * time.Hour),
	}}

	b := NewBatch().Add(added).Update(updated)
	ApplyTimestamps(now, b)

	require.Equal(t, now, added.CreatedAt)
	require.Nil(t, added.UpdatedAt, "creation must not set UpdatedAt")

	require.Equal(t, now.Add(-24*time.Hour), updated.CreatedAt, "update must not touch CreatedAt")
	require.NotNil(t, updated.UpdatedAt)
	require.Equal(t, now, *updated.UpdatedAt)
}

func TestSaveUsesOneInstantPerBatch(t *testing.T) {
	st := newTestStore(t)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return fixed }

	first := &model.Category{Name: "Beverages"}
	second := &model.Category{Name: "Condiments"}
	err := st.Save(context.Background(), NewBatch().Add(first).Add(second))
	require.NoError(t, err)

	require.Equal(t, fixed, first.CreatedAt)
	require.Equal(t, fixed, second.CreatedAt)
}

func TestSaveEmptyBatchIsNoop(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Save(context.Background(), nil))
	require.NoError(t, st.Save(context.Background(), NewBatch()))
}

func TestSaveRollsBackWholeBatchOnFailure(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Create(ctx, &model.Category{Name: "Beverages"}))

	// The second add violates the unique name index, so the first add must
	// be rolled back too.
	batch := NewBatch().
		Add(&model.Category{Name: "Produce"}).
		Add(&model.Category{Name: "Beverages"})
	err := st.Save(ctx, batch)
	require.Error(t, err)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "save", perr.Op)

	categories, err := st.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Equal(t, "Beverages", categories[0].Name)
}

func TestUpdateStampsUpdatedAtOnly(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return created }

	category := &model.Category{Name: "Beverages"}
	require.NoError(t, st.Create(ctx, category))
	require.Nil(t, category.UpdatedAt)

	modified := created.Add(time.Hour)
	st.now = func() time.Time { return modified }

	category.Name = "Drinks"
	require.NoError(t, st.Update(ctx, category))

	reloaded, err := st.CategoryByID(ctx, category.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	require.Equal(t, "Drinks", reloaded.Name)
	require.Equal(t, created, reloaded.CreatedAt.UTC())
	require.NotNil(t, reloaded.UpdatedAt)
	require.Equal(t, modified, reloaded.UpdatedAt.UTC())
}

func TestDeleteCategoryClearsProductReferences(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	category := &model.Category{Name: "Beverages"}
	require.NoError(t, st.Create(ctx, category))

	product := &model.Product{Name: "Chai", CategoryID: &category.ID}
	require.NoError(t, st.Create(ctx, product))

	require.NoError(t, st.Delete(ctx, category))

	reloaded, err := st.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded, "product must survive its category")
	require.Nil(t, reloaded.CategoryID)

	gone, err := st.CategoryByID(ctx, category.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestDeleteSupplierClearsProductReferences(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	supplier := &model.Supplier{CompanyName: "Exotic Liquids"}
	require.NoError(t, st.Create(ctx, supplier))

	product := &model.Product{Name: "Chai", SupplierID: &supplier.ID}
	require.NoError(t, st.Create(ctx, product))

	require.NoError(t, st.Delete(ctx, supplier))

	reloaded, err := st.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded, "product must survive its supplier")
	require.Nil(t, reloaded.SupplierID)
}

func TestLookupsReturnNilForMissingRows(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	category, err := st.CategoryByID(ctx, 999)
	require.NoError(t, err)
	require.Nil(t, category)

	product, err := st.ProductByID(ctx, 999)
	require.NoError(t, err)
	require.Nil(t, product)

	supplier, err := st.SupplierByID(ctx, 999)
	require.NoError(t, err)
	require.Nil(t, supplier)

	user, err := st.UserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, user)
}
