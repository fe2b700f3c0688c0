package catalog

import (
	"context"
	"fmt"

	"inventory-api/internal/model"

	"github.com/rs/zerolog"
)

// ProductCatalog creates products with full input validation and lists
// what is already stored.
type ProductCatalog interface {
	CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error)
}

// ImportResult counts the outcome of an import. Skipped is set when
// SeedIfEmpty found existing products and imported nothing.
type ImportResult struct {
	Created int
	Failed  int
	Skipped bool
}

// Importer seeds the inventory from a catalogue file.
type Importer struct {
	loader  Loader
	creator ProductCatalog
	logger  zerolog.Logger
}

// NewImporter creates an importer that reads through loader and writes
// through creator.
func NewImporter(loader Loader, creator ProductCatalog, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:  loader,
		creator: creator,
		logger:  logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import creates a product for every entry in the catalogue at path.
// Entries that fail to create are logged and counted; only a failure to
// load the catalogue itself is returned as an error.
func (i *Importer) Import(ctx context.Context, path string) (ImportResult, error) {
	var result ImportResult

	inputs, err := i.loader.Load(ctx, path)
	if err != nil {
		return result, fmt.Errorf("failed to load catalogue: %w", err)
	}

	for idx, input := range inputs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		product, err := i.creator.CreateProduct(ctx, input)
		if err != nil {
			result.Failed++
			i.logger.Warn().
				Err(err).
				Int("entry", idx+1).
				Str("name", input.Name).
				Msg("failed to import catalogue entry")
			continue
		}

		result.Created++
		i.logger.Debug().Str("product_id", product.ID).Msg("catalogue entry imported")
	}

	i.logger.Info().
		Str("path", path).
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("catalogue import finished")

	return result, nil
}

// SeedIfEmpty imports the catalogue at path only when the inventory holds
// no products, so restarting with the same seed file does not duplicate it.
func (i *Importer) SeedIfEmpty(ctx context.Context, path string) (ImportResult, error) {
	existing, err := i.creator.ListProducts(ctx, 1, 0)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to check existing products: %w", err)
	}
	if len(existing) > 0 {
		i.logger.Info().
			Str("path", path).
			Msg("inventory already has products, skipping catalogue import")
		return ImportResult{Skipped: true}, nil
	}

	return i.Import(ctx, path)
}
