package service

import (
	"context"

	"inventory-api/internal/model"
)

// InventoryService defines operations for product and stock management.
type InventoryService interface {
	// CreateProduct validates the input and stores a new product.
	CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error)

	// GetProduct retrieves a single product by ID.
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// ListProducts retrieves products in insertion order with pagination.
	ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error)

	// UpdateProduct applies a partial update. A negative stock_quantity
	// rejects the whole update with model.ErrInvalidUpdate.
	UpdateProduct(ctx context.Context, id string, update model.ProductUpdate) (*model.Product, error)

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, id string) error

	// AddStock increases the stock of a product by a positive quantity.
	AddStock(ctx context.Context, id string, quantity int) (*model.Product, error)

	// RemoveStock decreases the stock of a product by a positive quantity
	// no greater than the current stock.
	RemoveStock(ctx context.Context, id string, quantity int) (*model.Product, error)

	// ListLowStock retrieves every product whose stock is below its threshold.
	ListLowStock(ctx context.Context) ([]model.Product, error)
}
