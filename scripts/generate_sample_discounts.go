package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleDiscounts creates sample discount code files for testing.
// Columns: code, type, value, min purchase, max uses, valid from, valid until, description.
// launch.csv.gz and seasonal.csv.gz both define WELCOME10; the import keeps
// the definition from the first file.
func main() {
	dataDir := "data/discounts"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	files := map[string][][]string{
		"launch.csv.gz": {
			{"WELCOME10", "percentage", "10", "", "", "", "", "10% off a first order"},
			{"FLAT500", "fixed_amount", "500", "2000", "", "", "", "$5 off orders over $20"},
			{"FIRST100", "percentage", "25", "", "100", "", "", "25% off for the first 100 buyers"},
		},
		"seasonal.csv.gz": {
			{"WELCOME10", "percentage", "15", "", "", "", "", "duplicate, ignored on import"},
			{"SUMMER2026", "percentage", "20", "", "", "2026-06-01T00:00:00Z", "2026-08-31T23:59:59Z", "Summer sale"},
			{"WINTER2026", "fixed_amount", "1000", "5000", "", "2026-12-01T00:00:00Z", "2027-02-28T23:59:59Z", "Winter sale"},
		},
	}

	for filename, records := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createDiscountFile(filePath, records); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(records))
	}

	fmt.Println("\nSample discount files created successfully!")
	fmt.Println("\nImport them with:")
	fmt.Println("  discountctl import data/discounts/launch.csv.gz data/discounts/seasonal.csv.gz")
}

func createDiscountFile(filePath string, records [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	if _, err := fmt.Fprintln(gzipWriter, "# code,type,value,min_purchase,max_uses,valid_from,valid_until,description"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write discount codes: %w", err)
	}

	return nil
}
