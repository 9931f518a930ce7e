package model

// Product is the catalog's central entity. Category and supplier references
// are optional: a product may be uncategorized or have no supplier.
type Product struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"type:varchar(40);index;not null"`
	CategoryID      *uint     `json:"category_id,omitempty" gorm:"index"`
	SupplierID      *uint     `json:"supplier_id,omitempty" gorm:"index"`
	QuantityPerUnit *string   `json:"quantity_per_unit,omitempty" gorm:"type:varchar(20)"`
	UnitPrice       *float64  `json:"unit_price,omitempty"`
	UnitsInStock    *int16    `json:"units_in_stock,omitempty"`
	UnitsOnOrder    *int16    `json:"units_on_order,omitempty"`
	ReorderLevel    *int16    `json:"reorder_level,omitempty"`
	Discontinued    bool      `json:"discontinued" gorm:"not null;default:false"`
	Category        *Category `json:"category,omitempty"`
	Supplier        *Supplier `json:"supplier,omitempty"`
	Timestamps
}

// NeedsReorder reports whether the product should be restocked. A missing
// stock or reorder level never flags a product.
func (p *Product) NeedsReorder() bool {
	if p.Discontinued || p.UnitsInStock == nil || p.ReorderLevel == nil {
		return false
	}
	return *p.UnitsInStock <= *p.ReorderLevel
}

// InventoryValue is unit price times units in stock, treating missing values
// as zero.
func (p *Product) InventoryValue() float64 {
	if p.UnitPrice == nil || p.UnitsInStock == nil {
		return 0
	}
	return *p.UnitPrice * float64(*p.UnitsInStock)
}

// IsInStock reports whether the product is sellable right now.
func (p *Product) IsInStock() bool {
	return !p.Discontinued && p.UnitsInStock != nil && *p.UnitsInStock > 0
}

// Discontinue flags the product as no longer sold. The UpdatedAt stamp is
// applied by the store when the change is saved.
func (p *Product) Discontinue() {
	p.Discontinued = true
}
