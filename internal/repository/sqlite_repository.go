package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqliteRepository implements ProductRepository with GORM over SQLite.
type sqliteRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// gormLogWriter routes GORM's own logging into zerolog at debug level.
type gormLogWriter struct {
	logger zerolog.Logger
}

func (w gormLogWriter) Printf(format string, args ...interface{}) {
	w.logger.Debug().Msgf(format, args...)
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// migrates the products table. The pool is limited to one connection so
// that transactions on the file are serialized.
func OpenSQLite(path string, logger zerolog.Logger) (*gorm.DB, error) {
	gormLog := gormlogger.New(gormLogWriter{logger: logger.With().Str("component", "gorm").Logger()}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Product{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	logger.Info().Str("path", path).Msg("sqlite database opened")

	return db, nil
}

// NewSQLiteProductRepository creates a GORM-backed product repository.
func NewSQLiteProductRepository(db *gorm.DB, logger zerolog.Logger) ProductRepository {
	return &sqliteRepository{
		db:     db,
		logger: logger.With().Str("repository", "product").Str("driver", "sqlite").Logger(),
	}
}

func (r *sqliteRepository) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.NewString()
	product.CreatedAt = time.Time{}
	product.UpdatedAt = time.Time{}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	r.logger.Debug().Str("product_id", product.ID).Msg("product created")
	return nil
}

func (r *sqliteRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

func (r *sqliteRepository) List(ctx context.Context, filter Filter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.LowStockOnly {
		q = q.Where("stock_quantity < low_stock_threshold")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	products := []model.Product{}
	// rowid follows insertion order
	if err := q.Order("rowid").Find(&products).Error; err != nil {
		r.logger.Error().Err(err).Bool("low_stock_only", filter.LowStockOnly).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return products, nil
}

func (r *sqliteRepository) Update(ctx context.Context, id string, mutate MutateFunc) (*model.Product, error) {
	var updated model.Product

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Product
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrProductNotFound
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		next := current
		if err := mutate(&next); err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt

		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		var domainErr *model.DomainError
		if !errors.As(err, &domainErr) {
			r.logger.Error().Err(err).Str("product_id", id).Msg("product update failed")
		}
		return nil, err
	}

	r.logger.Debug().
		Str("product_id", id).
		Int("stock_quantity", updated.StockQuantity).
		Msg("product updated")

	return &updated, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		r.logger.Error().Err(res.Error).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}
