package fragments

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// Fragment names map to the files served by the static asset server.
var known = map[string]string{
	"navbar": "navbar.html",
	"footer": "footer.html",
}

// Fetcher retrieves the shared page fragments (navigation bar, footer)
// injected into every storefront page. Fetch failures degrade to an empty
// fragment: the surrounding page renders without the container's content.
type Fetcher struct {
	BaseURL string
	Client  *http.Client

	mu    sync.RWMutex
	cache map[string]string
}

func NewFetcher(baseURL string) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 8 * time.Second},
		cache:   make(map[string]string),
	}
}

// Known reports whether name is one of the shared fragments.
func Known(name string) bool {
	_, ok := known[name]
	return ok
}

// Fragment returns the fragment HTML, fetching and caching it on first
// use. On any failure it logs and returns the empty string.
func (f *Fetcher) Fragment(ctx context.Context, name string) string {
	file, ok := known[name]
	if !ok {
		return ""
	}

	f.mu.RLock()
	cached, hit := f.cache[name]
	f.mu.RUnlock()
	if hit {
		return cached
	}

	body, err := f.fetch(ctx, file)
	if err != nil {
		log.Printf("[fragments] %s: %v", name, err)
		return ""
	}

	f.mu.Lock()
	f.cache[name] = body
	f.mu.Unlock()
	return body
}

func (f *Fetcher) fetch(ctx context.Context, file string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/"+file, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}
