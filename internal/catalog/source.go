package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"shopfront/pkg/models"
)

// Source is implemented by each catalog feed (HTTP resource or local file).
// A source fetches the raw document and returns the validated product set.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.Product, error)
}

// HTTPSource fetches the catalog JSON document from a fixed URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 12 * time.Second},
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) FetchAll(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	return decodeCatalog(body)
}

// FileSource reads the catalog document from a local path. Used by tools
// that work against a checked-out data file instead of a running server.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) FetchAll(ctx context.Context) ([]models.Product, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return decodeCatalog(b)
}

// decodeCatalog parses the raw document and validates every entry.
// Malformed entries are rejected with the failing field named, not
// silently defaulted.
func decodeCatalog(body []byte) ([]models.Product, error) {
	var raw []models.Product
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	out := make([]models.Product, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for i, p := range raw {
		if err := validateProduct(p); err != nil {
			log.Printf("[catalog] dropping entry %d: %v", i, err)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			log.Printf("[catalog] dropping entry %d: %v: duplicate id %d", i, ErrInvalidProduct, p.ID)
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func validateProduct(p models.Product) error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("%w: id must be > 0", ErrInvalidProduct)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name required", ErrInvalidProduct)
	case len(p.Images) == 0:
		return fmt.Errorf("%w: at least one image required", ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidProduct)
	}
	return nil
}
