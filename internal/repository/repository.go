package repository

import (
	"context"

	"inventory-api/internal/model"
)

// Filter narrows a product listing.
type Filter struct {
	// LowStockOnly keeps products whose stock_quantity < low_stock_threshold.
	LowStockOnly bool

	// Limit caps the number of results; zero means no limit.
	Limit int

	// Offset skips that many results.
	Offset int
}

// Matches reports whether p passes the filter's field predicate.
func (f Filter) Matches(p model.Product) bool {
	if f.LowStockOnly && !p.IsLowStock() {
		return false
	}
	return true
}

// MutateFunc changes a product in place inside ProductRepository.Update.
// Returning an error aborts the update without writing.
type MutateFunc func(p *model.Product) error

// ProductRepository defines the interface for product data access operations.
// Listings are returned in insertion order.
type ProductRepository interface {
	// Create inserts a new product, assigning its ID and timestamps.
	Create(ctx context.Context, product *model.Product) error

	// GetByID retrieves a single product by its ID. It returns (nil, nil)
	// when no product has that ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// List retrieves the products that match the filter.
	List(ctx context.Context, filter Filter) ([]model.Product, error)

	// Update performs an atomic read-modify-write of one product. The record
	// is locked for the duration of mutate. It returns model.ErrProductNotFound
	// if the product does not exist, and mutate's error unchanged if it fails.
	Update(ctx context.Context, id string, mutate MutateFunc) (*model.Product, error)

	// Delete removes a product. It reports whether a product was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
