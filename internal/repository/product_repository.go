package repository

import (
	"context"
	"errors"
	"fmt"

	"inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, stock_quantity, low_stock_threshold, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Str("driver", "postgres").Logger(),
	}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.StockQuantity,
		&p.LowStockThreshold,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts a new product, assigning its ID and timestamps.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, description, stock_quantity, low_stock_threshold)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	id := uuid.NewString()
	err := r.pool.QueryRow(ctx, query,
		id,
		product.Name,
		product.Description,
		product.StockQuantity,
		product.LowStockThreshold,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	product.ID = id
	r.logger.Debug().Str("product_id", id).Msg("product created")

	return nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// List retrieves the products that match the filter in insertion order.
func (r *productRepository) List(ctx context.Context, filter Filter) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = FALSE OR stock_quantity < low_stock_threshold)
		ORDER BY seq
		LIMIT $2 OFFSET $3
	`

	// LIMIT NULL is "no limit" in PostgreSQL
	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	rows, err := r.pool.Query(ctx, query, filter.LowStockOnly, limit, filter.Offset)
	if err != nil {
		r.logger.Error().Err(err).
			Bool("low_stock_only", filter.LowStockOnly).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Update locks the product row with SELECT ... FOR UPDATE, applies mutate and
// writes the result back in the same transaction.
func (r *productRepository) Update(ctx context.Context, id string, mutate MutateFunc) (product *model.Product, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var current model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	if err = scanProduct(tx.QueryRow(ctx, query, id), &current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found for update")
			err = model.ErrProductNotFound
			return nil, err
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to lock product")
		err = fmt.Errorf("failed to lock product: %w", err)
		return nil, err
	}

	next := current
	if err = mutate(&next); err != nil {
		return nil, err
	}

	update := `
		UPDATE products
		SET name = $2, description = $3, stock_quantity = $4, low_stock_threshold = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = tx.QueryRow(ctx, update,
		current.ID,
		next.Name,
		next.Description,
		next.StockQuantity,
		next.LowStockThreshold,
	).Scan(&next.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		err = fmt.Errorf("failed to update product: %w", err)
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to commit transaction")
		err = fmt.Errorf("failed to commit transaction: %w", err)
		return nil, err
	}

	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	r.logger.Debug().
		Str("product_id", id).
		Int("stock_quantity", next.StockQuantity).
		Msg("product updated")

	return &next, nil
}

// Delete removes a product by its ID.
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
