package model

import (
	"math"
	"time"
)

// MaxStockQuantity is the largest stock_quantity or low_stock_threshold any
// store can hold; the PostgreSQL columns are INTEGER.
const MaxStockQuantity = math.MaxInt32

// Product represents a stocked item in the inventory.
type Product struct {
	ID                string    `json:"id" db:"id" gorm:"primaryKey;type:varchar(36)"`
	Name              string    `json:"name" db:"name" gorm:"not null"`
	Description       string    `json:"description" db:"description"`
	StockQuantity     int       `json:"stock_quantity" db:"stock_quantity" gorm:"not null;default:0;check:stock_quantity >= 0"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold" gorm:"not null;default:0;check:low_stock_threshold >= 0"`
	CreatedAt         time.Time `json:"created_at" db:"created_at" gorm:"index"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the stock quantity is strictly below the threshold.
func (p Product) IsLowStock() bool {
	return p.StockQuantity < p.LowStockThreshold
}

// ProductInput is the payload for creating or fully replacing a product.
type ProductInput struct {
	Name              string `json:"name" validate:"required,min=1,max=255"`
	Description       string `json:"description" validate:"max=2000"`
	StockQuantity     int    `json:"stock_quantity" validate:"gte=0,lte=2147483647"`
	LowStockThreshold int    `json:"low_stock_threshold" validate:"gte=0,lte=2147483647"`
}

// ProductUpdate is a partial update. Nil fields are left untouched.
type ProductUpdate struct {
	Name              *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Description       *string `json:"description,omitempty" validate:"omitnil,max=2000"`
	StockQuantity     *int    `json:"stock_quantity,omitempty" validate:"omitnil,gte=0,lte=2147483647"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" validate:"omitnil,gte=0,lte=2147483647"`
}

// AsUpdate converts a full input into an update that sets every field.
func (in ProductInput) AsUpdate() ProductUpdate {
	return ProductUpdate{
		Name:              &in.Name,
		Description:       &in.Description,
		StockQuantity:     &in.StockQuantity,
		LowStockThreshold: &in.LowStockThreshold,
	}
}

// Apply copies the set fields of u onto p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.StockQuantity != nil {
		p.StockQuantity = *u.StockQuantity
	}
	if u.LowStockThreshold != nil {
		p.LowStockThreshold = *u.LowStockThreshold
	}
}

// StockRequest is the body of the add_stock and remove_stock endpoints.
// Quantity is kept raw so that non-integer JSON values can be rejected.
type StockRequest struct {
	Quantity RawQuantity `json:"quantity"`
}
