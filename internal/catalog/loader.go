package catalog

import (
	"context"
	"fmt"
	"os"

	"inventory-api/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped catalogue files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped JSON-lines catalogue from filePath.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.ProductInput, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalogue file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", filePath, err)
	}
	defer file.Close()

	inputs, err := decode(ctx, file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read catalogue file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("entries_loaded", len(inputs)).
		Msg("catalogue file loaded successfully")

	return inputs, nil
}
