package events

import (
	"context"
	"time"

	"inventory-api/internal/model"
)

// LowStockEvent is emitted when a product drops below its low-stock threshold.
type LowStockEvent struct {
	ProductID         string    `json:"product_id"`
	Name              string    `json:"name"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// NewLowStockEvent builds the event for p at time now.
func NewLowStockEvent(p model.Product, now time.Time) LowStockEvent {
	return LowStockEvent{
		ProductID:         p.ID,
		Name:              p.Name,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		OccurredAt:        now.UTC(),
	}
}

// Publisher delivers inventory events to interested consumers.
type Publisher interface {
	// PublishLowStock announces that a product has become low on stock.
	PublishLowStock(ctx context.Context, event LowStockEvent) error

	// Close releases resources held by the publisher.
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that discards every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishLowStock(context.Context, LowStockEvent) error { return nil }

func (nopPublisher) Close() error { return nil }
