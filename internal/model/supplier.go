package model

import "strings"

// Supplier represents a company that supplies products. Deleting a supplier
// clears the supplier reference on its products rather than deleting them.
type Supplier struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CompanyName  string    `json:"company_name" gorm:"type:varchar(40);index;not null"`
	ContactName  *string   `json:"contact_name,omitempty" gorm:"type:varchar(30)"`
	ContactTitle *string   `json:"contact_title,omitempty" gorm:"type:varchar(30)"`
	Address      *string   `json:"address,omitempty" gorm:"type:varchar(60)"`
	City         *string   `json:"city,omitempty" gorm:"type:varchar(15)"`
	Region       *string   `json:"region,omitempty" gorm:"type:varchar(15)"`
	PostalCode   *string   `json:"postal_code,omitempty" gorm:"type:varchar(10)"`
	Country      *string   `json:"country,omitempty" gorm:"type:varchar(15)"`
	Phone        *string   `json:"phone,omitempty" gorm:"type:varchar(24)"`
	Fax          *string   `json:"fax,omitempty" gorm:"type:varchar(24)"`
	HomePage     *string   `json:"home_page,omitempty" gorm:"type:text"`
	Products     []Product `json:"products,omitempty" gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL"`
	Timestamps
}

// FullAddress joins the populated postal address fields with commas.
func (s *Supplier) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []*string{s.Address, s.City, s.Region, s.PostalCode, s.Country} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}
