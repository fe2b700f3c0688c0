package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"inventory-api/internal/model"
)

// Loader defines the interface for loading catalogue seed files.
type Loader interface {
	// Load reads a gzipped JSON-lines catalogue and returns its entries in
	// file order.
	Load(ctx context.Context, path string) ([]model.ProductInput, error)
}

// cancelCheckInterval is how many lines are scanned between context checks.
const cancelCheckInterval = 1_000

// decode reads gzip-compressed JSON lines from r. Blank lines are skipped;
// a malformed line fails the whole load.
func decode(ctx context.Context, r io.Reader, source string) ([]model.ProductInput, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var inputs []model.ProductInput
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var input model.ProductInput
		if err := json.Unmarshal([]byte(line), &input); err != nil {
			return nil, fmt.Errorf("invalid catalogue entry at %s:%d: %w", source, lineNo, err)
		}
		inputs = append(inputs, input)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue %s: %w", source, err)
	}

	return inputs, nil
}
