package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"shopfront/pkg/models"
)

// Converts a products CSV into the catalog JSON document served by
// catalog-server. Rows missing an id or a name are skipped; images are
// pipe-separated in one column.
func main() {
	var (
		in  = flag.String("in", "data/products.csv", "input CSV path")
		out = flag.String("out", "data/catalog.json", "output catalog JSON path")
	)
	flag.Parse()

	products, err := readProducts(*in)
	if err != nil {
		log.Fatalf("read products failed: %v", err)
	}

	if err := writeCatalog(*out, products); err != nil {
		log.Fatalf("write catalog failed: %v", err)
	}

	log.Printf("wrote %d products from %s to %s", len(products), *in, *out)
}

func readProducts(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		idRaw := valueAt(header, row, "id")
		name := valueAt(header, row, "name")
		if idRaw == "" || name == "" {
			log.Printf("skipping line %d: id and name are required", line)
			continue
		}

		var id int
		if _, err := fmt.Sscanf(idRaw, "%d", &id); err != nil || id <= 0 {
			log.Printf("skipping line %d: bad id %q", line, idRaw)
			continue
		}

		images := []string{}
		for _, img := range strings.Split(valueAt(header, row, "images"), "|") {
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		}

		products = append(products, models.Product{
			ID:           id,
			Name:         name,
			Brand:        valueAt(header, row, "brand"),
			Category:     valueAt(header, row, "category"),
			Summary:      valueAt(header, row, "summary"),
			Details:      valueAt(header, row, "details"),
			Price:        models.ParsePrice(valueAt(header, row, "price")),
			DisplayPrice: valueAt(header, row, "display_price"),
			Images:       images,
		})
	}

	return products, nil
}

func writeCatalog(path string, products []models.Product) error {
	b, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
