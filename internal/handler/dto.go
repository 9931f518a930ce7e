package handler

import "northwind-service/internal/model"

// ProductDTO is the flat listing shape served by the API. Responses never
// expose the internal entity graph.
type ProductDTO struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Price        *float64 `json:"price,omitempty"`
	Stock        *int16   `json:"stock,omitempty"`
	Discontinued bool     `json:"discontinued"`
	Category     string   `json:"category,omitempty"`
}

// ProductDetailDTO is the single-product shape, including derived fields.
type ProductDetailDTO struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	QuantityPerUnit *string  `json:"quantity_per_unit,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Stock           *int16   `json:"stock,omitempty"`
	OnOrder         *int16   `json:"on_order,omitempty"`
	ReorderLevel    *int16   `json:"reorder_level,omitempty"`
	Discontinued    bool     `json:"discontinued"`
	Category        string   `json:"category,omitempty"`
	Supplier        string   `json:"supplier,omitempty"`
	NeedsReorder    bool     `json:"needs_reorder"`
	InventoryValue  float64  `json:"inventory_value"`
	InStock         bool     `json:"in_stock"`
}

func toProductDTO(p *model.Product) ProductDTO {
	dto := ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.UnitPrice,
		Stock:        p.UnitsInStock,
		Discontinued: p.Discontinued,
	}
	if p.Category != nil {
		dto.Category = p.Category.Name
	}
	return dto
}

func toProductDTOs(products []model.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDTO(&products[i]))
	}
	return dtos
}

func toProductDetailDTO(p *model.Product) ProductDetailDTO {
	dto := ProductDetailDTO{
		ID:              p.ID,
		Name:            p.Name,
		QuantityPerUnit: p.QuantityPerUnit,
		Price:           p.UnitPrice,
		Stock:           p.UnitsInStock,
		OnOrder:         p.UnitsOnOrder,
		ReorderLevel:    p.ReorderLevel,
		Discontinued:    p.Discontinued,
		NeedsReorder:    p.NeedsReorder(),
		InventoryValue:  p.InventoryValue(),
		InStock:         p.IsInStock(),
	}
	if p.Category != nil {
		dto.Category = p.Category.Name
	}
	if p.Supplier != nil {
		dto.Supplier = p.Supplier.CompanyName
	}
	return dto
}
