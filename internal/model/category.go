package model

// Category groups products for the catalog. Deleting a category never deletes
// its products; their category reference is cleared instead.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(15);uniqueIndex;not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Picture     []byte    `json:"-"`
	Products    []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Timestamps
}
