package repository

import (
	"context"
	"sync"
	"time"

	"inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memoryRepository implements ProductRepository in process memory.
type memoryRepository struct {
	mu       sync.Mutex
	products map[string]model.Product
	order    []string
	now      func() time.Time
	logger   zerolog.Logger
}

// NewMemoryProductRepository creates an in-memory product repository.
func NewMemoryProductRepository(logger zerolog.Logger) ProductRepository {
	return &memoryRepository{
		products: make(map[string]model.Product),
		now:      time.Now,
		logger:   logger.With().Str("repository", "product").Str("driver", "memory").Logger(),
	}
}

func (r *memoryRepository) Create(ctx context.Context, product *model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now

	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)

	r.logger.Debug().Str("product_id", product.ID).Msg("product created")
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	products := []model.Product{}
	skipped := 0
	for _, id := range r.order {
		p := r.products[id]
		if !filter.Matches(p) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		products = append(products, p)
		if filter.Limit > 0 && len(products) == filter.Limit {
			break
		}
	}

	return products, nil
}

func (r *memoryRepository) Update(ctx context.Context, id string, mutate MutateFunc) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}

	// mutate works on a copy so a failed mutation leaves the record intact
	next := current
	if err := mutate(&next); err != nil {
		return nil, err
	}

	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.now().UTC()
	r.products[id] = next

	return &next, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}

	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Debug().Str("product_id", id).Msg("product deleted")
	return true, nil
}
