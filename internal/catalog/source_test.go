package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/pkg/models"
)

// stubSource feeds a fixed snapshot into a Store in tests.
type stubSource struct {
	products []models.Product
	err      error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchAll(ctx context.Context) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

const catalogBody = `[
	{"id": 1, "name": "Lumix S5 II", "brand": "Panasonic", "category": "Cameras", "price": 1999.99, "images": ["a.jpg"]},
	{"id": 2, "name": "EOS R8", "brand": "Canon", "category": "Cameras", "price": "$1499.00", "images": ["b.jpg"]},
	{"id": 0, "name": "bad id", "category": "Cameras", "price": 1, "images": ["c.jpg"]},
	{"id": 3, "name": "", "category": "Cameras", "price": 1, "images": ["d.jpg"]},
	{"id": 4, "name": "no images", "category": "Cameras", "price": 1, "images": []},
	{"id": 1, "name": "duplicate id", "category": "Cameras", "price": 1, "images": ["e.jpg"]}
]`

func TestHTTPSourceFetchAndValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL)
	products, err := src.FetchAll(context.Background())
	require.NoError(t, err)

	// only the two valid entries survive the boundary
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, 2, products[1].ID)
	// string price was coerced
	assert.True(t, products[1].Price.Equal(models.PriceFromInt(1499).Decimal))
}

func TestHTTPSourceNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the dial fails

	_, err := NewHTTPSource(srv.URL).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPSourceBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrParse)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogBody), 0o644))

	products, err := NewFileSource(path).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestFileSourceMissing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStoreLoadPropagatesSourceError(t *testing.T) {
	srcErr := errors.New("feed down")
	store := NewStore(&stubSource{err: srcErr})

	err := store.Load(context.Background())
	assert.ErrorIs(t, err, srcErr)
	assert.False(t, store.Loaded())
}
