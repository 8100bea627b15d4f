package model

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"product_id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"decimal_gte_zero"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Category    string          `json:"category"`
}

// ProductPatch carries a partial update: only non-nil fields are applied.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

// Apply overlays the patch onto p, leaving unset fields untouched.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
}

// Value is the on-hand worth of the product (price * quantity).
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
