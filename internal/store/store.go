// Package store is the persistence gateway: a transactional, queryable view
// over the category, product, supplier and user collections.
package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"northwind-service/internal/model"
)

// Store wraps a gorm handle. Instances are cheap; each request may use the
// shared one concurrently since gorm manages its own connection pool.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a Store over the given database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// ApplyTimestamps stamps every added entity's CreatedAt and every updated
// entity's UpdatedAt with the same instant. Exposed as a separate step so the
// stamping rule is testable on its own.
func ApplyTimestamps(now time.Time, b *Batch) {
	for _, e := range b.adds {
		if t, ok := e.(model.Timestamped); ok {
			t.StampCreated(now)
		}
	}
	for _, e := range b.updates {
		if t, ok := e.(model.Timestamped); ok {
			t.StampUpdated(now)
		}
	}
}

// Save commits all pending mutations in the batch as one transaction, using a
// single UTC "now" for every timestamp in the batch. On failure nothing is
// applied. Deleting a category or supplier clears the foreign key on its
// products inside the same transaction, so no product is ever left pointing
// at a removed row.
func (s *Store) Save(ctx context.Context, b *Batch) error {
	if b == nil || b.empty() {
		return nil
	}

	ApplyTimestamps(s.now().UTC(), b)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range b.adds {
			if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
				return err
			}
		}
		for _, e := range b.updates {
			if err := tx.Omit(clause.Associations).Save(e).Error; err != nil {
				return err
			}
		}
		for _, e := range b.deletes {
			if err := clearProductReferences(tx, e); err != nil {
				return err
			}
			if err := tx.Delete(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrap("save", err)
}

// Create persists a single new entity.
func (s *Store) Create(ctx context.Context, entity interface{}) error {
	return s.Save(ctx, NewBatch().Add(entity))
}

// Update persists field changes on a single entity.
func (s *Store) Update(ctx context.Context, entity interface{}) error {
	return s.Save(ctx, NewBatch().Update(entity))
}

// Delete removes a single entity.
func (s *Store) Delete(ctx context.Context, entity interface{}) error {
	return s.Save(ctx, NewBatch().Delete(entity))
}

func clearProductReferences(tx *gorm.DB, entity interface{}) error {
	switch e := entity.(type) {
	case *model.Category:
		return tx.Model(&model.Product{}).
			Where("category_id = ?", e.ID).
			Update("category_id", nil).Error
	case *model.Supplier:
		return tx.Model(&model.Product{}).
			Where("supplier_id = ?", e.ID).
			Update("supplier_id", nil).Error
	}
	return nil
}
