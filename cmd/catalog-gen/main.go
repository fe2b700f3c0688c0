package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"inventory-api/internal/model"
)

// sampleCatalog seeds a mix of healthy, low and empty stock levels.
var sampleCatalog = []model.ProductInput{
	{Name: "Steel Bolt M8", Description: "Zinc plated, 40mm", StockQuantity: 1200, LowStockThreshold: 200},
	{Name: "Hex Nut M8", Description: "Zinc plated", StockQuantity: 150, LowStockThreshold: 200},
	{Name: "Washer 8mm", StockQuantity: 900, LowStockThreshold: 100},
	{Name: "Cable Tie 200mm", Description: "Pack of 100", StockQuantity: 40, LowStockThreshold: 25},
	{Name: "Wood Screw 4x30", StockQuantity: 0, LowStockThreshold: 50},
	{Name: "Wall Plug 6mm", StockQuantity: 300},
	{Name: "Drill Bit 6mm", Description: "HSS", StockQuantity: 12, LowStockThreshold: 15},
	{Name: "Masking Tape", Description: "24mm x 50m", StockQuantity: 75, LowStockThreshold: 10},
}

func main() {
	out := flag.String("out", "data/catalog/seed.gz", "path of the gzipped catalogue to write")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := writeCatalog(*out, sampleCatalog); err != nil {
		log.Fatalf("Failed to write catalogue: %v", err)
	}

	fmt.Printf("Created %s with %d products\n", *out, len(sampleCatalog))
	fmt.Printf("Seed with: STORE_DRIVER=memory CATALOG_SEED_FILE=%s go run ./cmd/api\n", *out)
}

func writeCatalog(path string, products []model.ProductInput) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	gzipWriter := gzip.NewWriter(file)
	encoder := json.NewEncoder(gzipWriter)

	for _, p := range products {
		if err := encoder.Encode(p); err != nil {
			file.Close()
			return fmt.Errorf("failed to encode %q: %w", p.Name, err)
		}
	}

	if err := gzipWriter.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}
