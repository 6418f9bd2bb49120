package catalog

import (
	"context"
	"log"
	"strings"
	"sync"

	"shopfront/pkg/models"
)

// AllCategories is the sentinel category that selects the full catalog.
const AllCategories = "All"

// RelatedLimit is the default number of related products shown on a
// product detail view.
const RelatedLimit = 4

// Store holds the session's catalog snapshot. The snapshot is replaced
// wholesale by Load and never mutated in place; all queries are pure
// projections over it.
type Store struct {
	source Source

	mu       sync.RWMutex
	products []models.Product
	loaded   bool
}

func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Load fetches the catalog from the source and swaps in the new snapshot.
// Calling it again acts as a manual retry / refresh.
func (s *Store) Load(ctx context.Context) error {
	products, err := s.source.FetchAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.products = products
	s.loaded = true
	s.mu.Unlock()

	log.Printf("[catalog] loaded %d products from %s source", len(products), s.source.Name())
	return nil
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// GetByID resolves a product detail lookup. Non-positive ids and unknown
// ids both present as not found.
func (s *Store) GetByID(id int) (*models.Product, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	for _, p := range s.Products() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// FilterByCategory keeps products whose category matches exactly
// (case-sensitive). The "All" sentinel returns the input unchanged.
// Input order is preserved.
func FilterByCategory(products []models.Product, category string) []models.Product {
	if category == AllCategories {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search keeps products whose name, brand, category or summary contains
// the query, case-insensitively. A blank query returns the input
// unchanged. Input order is preserved.
func Search(products []models.Product, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matchesQuery(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(p models.Product, q string) bool {
	for _, field := range []string{p.Name, p.Brand, p.Category, p.Summary} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// RelatedTo returns up to limit same-category products, excluding the
// product being viewed. Input order is preserved.
func RelatedTo(products []models.Product, category string, excludeID, limit int) []models.Product {
	if limit <= 0 {
		limit = RelatedLimit
	}
	out := make([]models.Product, 0, limit)
	for _, p := range products {
		if p.Category != category || p.ID == excludeID {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order, with the
// "All" sentinel first.
func Categories(products []models.Product) []string {
	out := []string{AllCategories}
	seen := make(map[string]struct{})
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
