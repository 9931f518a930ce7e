package model

import "time"

// Timestamps carries audit timestamps for an entity. CreatedAt is set exactly
// once when the entity is first persisted; UpdatedAt is set on every later
// modification and stays nil on creation. Automatic stamping by the ORM is
// disabled so the store's save path is the only writer.
type Timestamps struct {
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"`
}

// Timestamped is implemented by every entity embedding Timestamps.
type Timestamped interface {
	StampCreated(now time.Time)
	StampUpdated(now time.Time)
}

func (t *Timestamps) StampCreated(now time.Time) {
	t.CreatedAt = now
}

func (t *Timestamps) StampUpdated(now time.Time) {
	t.UpdatedAt = &now
}
