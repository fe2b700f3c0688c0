package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-api/internal/events"
	"inventory-api/internal/model"
	"inventory-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Pagination bounds for ListProducts.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// inventoryService implements InventoryService.
type inventoryService struct {
	productRepo repository.ProductRepository
	publisher   events.Publisher
	validate    *validator.Validate
	now         func() time.Time
	logger      zerolog.Logger
}

// NewInventoryService creates a new inventory service. A nil publisher
// disables low-stock notifications.
func NewInventoryService(
	productRepo repository.ProductRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) InventoryService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}

	return &inventoryService{
		productRepo: productRepo,
		publisher:   publisher,
		validate:    newValidator(),
		now:         time.Now,
		logger:      logger.With().Str("service", "inventory").Logger(),
	}
}

// CreateProduct validates the input and stores a new product.
func (s *inventoryService) CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)

	if err := s.validate.Struct(input); err != nil {
		s.logger.Debug().Err(err).Msg("product input rejected")
		return nil, validationError(err)
	}

	product := &model.Product{
		Name:              input.Name,
		Description:       input.Description,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: input.LowStockThreshold,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Int("stock_quantity", product.StockQuantity).
		Msg("product created")

	return product, nil
}

// GetProduct retrieves a single product by ID.
func (s *inventoryService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// ListProducts retrieves products in insertion order with pagination.
func (s *inventoryService) ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.List(ctx, repository.Filter{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// UpdateProduct applies a partial update atomically. Nothing is written
// unless every supplied field is valid.
func (s *inventoryService) UpdateProduct(ctx context.Context, id string, update model.ProductUpdate) (*model.Product, error) {
	if update.StockQuantity != nil && *update.StockQuantity < 0 {
		s.logger.Debug().
			Str("product_id", id).
			Int("stock_quantity", *update.StockQuantity).
			Msg("negative stock quantity rejected")
		return nil, model.ErrInvalidUpdate
	}

	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		update.Name = &trimmed
	}

	if err := s.validate.Struct(update); err != nil {
		s.logger.Debug().Err(err).Str("product_id", id).Msg("product update rejected")
		return nil, validationError(err)
	}

	if id == "" {
		return nil, model.ErrProductNotFound
	}

	var wasLow bool
	product, err := s.productRepo.Update(ctx, id, func(p *model.Product) error {
		wasLow = p.IsLowStock()
		update.Apply(p)
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, "update product", id)
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	s.notifyIfBecameLow(ctx, wasLow, product)

	return product, nil
}

// DeleteProduct removes a product.
func (s *inventoryService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrProductNotFound
	}

	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if !deleted {
		s.logger.Debug().Str("product_id", id).Msg("product not found for deletion")
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// AddStock increases the stock of a product by a positive quantity.
func (s *inventoryService) AddStock(ctx context.Context, id string, quantity int) (*model.Product, error) {
	if err := model.ValidateQuantity(quantity); err != nil {
		s.logger.Debug().Str("product_id", id).Int("quantity", quantity).Msg("invalid add quantity")
		return nil, err
	}

	if id == "" {
		return nil, model.ErrProductNotFound
	}

	var wasLow bool
	product, err := s.productRepo.Update(ctx, id, func(p *model.Product) error {
		if quantity > model.MaxStockQuantity-p.StockQuantity {
			s.logger.Debug().
				Str("product_id", id).
				Int("quantity", quantity).
				Int("stock_quantity", p.StockQuantity).
				Msg("stock limit exceeded")
			return model.ErrStockLimitExceeded
		}
		wasLow = p.IsLowStock()
		p.StockQuantity += quantity
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, "add stock", id)
	}

	s.logger.Info().
		Str("product_id", id).
		Int("quantity", quantity).
		Int("stock_quantity", product.StockQuantity).
		Msg("stock added")
	s.notifyIfBecameLow(ctx, wasLow, product)

	return product, nil
}

// RemoveStock decreases the stock of a product. A quantity larger than the
// current stock fails with model.ErrInsufficientStock and changes nothing.
func (s *inventoryService) RemoveStock(ctx context.Context, id string, quantity int) (*model.Product, error) {
	if err := model.ValidateQuantity(quantity); err != nil {
		s.logger.Debug().Str("product_id", id).Int("quantity", quantity).Msg("invalid remove quantity")
		return nil, err
	}

	if id == "" {
		return nil, model.ErrProductNotFound
	}

	var wasLow bool
	product, err := s.productRepo.Update(ctx, id, func(p *model.Product) error {
		if quantity > p.StockQuantity {
			s.logger.Debug().
				Str("product_id", id).
				Int("quantity", quantity).
				Int("stock_quantity", p.StockQuantity).
				Msg("insufficient stock")
			return model.ErrInsufficientStock
		}
		wasLow = p.IsLowStock()
		p.StockQuantity -= quantity
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, "remove stock", id)
	}

	s.logger.Info().
		Str("product_id", id).
		Int("quantity", quantity).
		Int("stock_quantity", product.StockQuantity).
		Msg("stock removed")
	s.notifyIfBecameLow(ctx, wasLow, product)

	return product, nil
}

// ListLowStock retrieves every product whose stock is below its threshold,
// in store order.
func (s *inventoryService) ListLowStock(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx, repository.Filter{LowStockOnly: true})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list low stock products")
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved low stock products")

	return products, nil
}

// mutationError passes domain errors through and wraps everything else.
func (s *inventoryService) mutationError(err error, action, id string) error {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	s.logger.Error().Err(err).Str("product_id", id).Msgf("failed to %s", action)
	return fmt.Errorf("failed to %s: %w", action, err)
}

// notifyIfBecameLow publishes a low-stock event when a write moved the
// product into low stock. Publishing failures are logged only; the write
// has already been committed.
func (s *inventoryService) notifyIfBecameLow(ctx context.Context, wasLow bool, product *model.Product) {
	if wasLow || !product.IsLowStock() {
		return
	}

	event := events.NewLowStockEvent(*product, s.now())
	if err := s.publisher.PublishLowStock(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("product_id", product.ID).
			Msg("failed to publish low stock event")
	}
}
