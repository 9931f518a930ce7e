package store

// Batch collects pending mutations for one atomic save. Entities are applied
// in the order adds, updates, deletes; within each group, insertion order.
type Batch struct {
	adds    []interface{}
	updates []interface{}
	deletes []interface{}
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Add schedules an entity for insertion.
func (b *Batch) Add(entity interface{}) *Batch {
	b.adds = append(b.adds, entity)
	return b
}

// Update schedules a tracked entity's field changes for writing.
func (b *Batch) Update(entity interface{}) *Batch {
	b.updates = append(b.updates, entity)
	return b
}

// Delete schedules an entity for removal.
func (b *Batch) Delete(entity interface{}) *Batch {
	b.deletes = append(b.deletes, entity)
	return b
}

func (b *Batch) empty() bool {
	return len(b.adds) == 0 && len(b.updates) == 0 && len(b.deletes) == 0
}
