// Package assets resolves game asset names (meshes, sounds) against a
// directory or an http(s) base URL and caches the bytes.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/rockblast/internal/logger"
)

// ErrNotFound is returned when an asset does not exist at the root.
var ErrNotFound = errors.New("asset not found")

// DefaultTimeout bounds a single HTTP fetch.
const DefaultTimeout = 15 * time.Second

// Source fetches raw asset bytes by name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Manager handles asset loading from a Source.
type Manager struct {
	source Source
	cache  *Cache
}

// NewManager creates a manager for root, which is either a directory or an
// http(s) base URL.
func NewManager(root string) (*Manager, error) {
	src, err := NewSource(root)
	if err != nil {
		return nil, err
	}
	return NewManagerWithSource(src), nil
}

// NewManagerWithSource creates a manager around an existing source.
func NewManagerWithSource(src Source) *Manager {
	return &Manager{
		source: src,
		cache:  NewCache(),
	}
}

// NewSource picks a Source implementation for root.
func NewSource(root string) (Source, error) {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		base, err := url.Parse(root)
		if err != nil {
			return nil, fmt.Errorf("parsing asset URL %s: %w", root, err)
		}
		return &HTTPSource{Base: base, Client: &http.Client{Timeout: DefaultTimeout}}, nil
	}
	return DirSource(root), nil
}

// Load returns the bytes for name, fetching on the first request.
func (m *Manager) Load(ctx context.Context, name string) ([]byte, error) {
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	data, err := m.source.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	m.cache.Set(name, data)
	logger.Debug("asset loaded", zap.String("name", name), zap.Int("bytes", len(data)))
	return data, nil
}

// Fetch implements Source so a Manager can be handed to shape loading.
func (m *Manager) Fetch(ctx context.Context, name string) ([]byte, error) {
	return m.Load(ctx, name)
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops all cached assets.
func (m *Manager) Close() {
	m.cache.Clear()
}

// DirSource reads assets from a local directory.
type DirSource string

// Fetch reads name relative to the directory. Names may not escape it.
func (d DirSource) Fetch(_ context.Context, name string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("%w: %s escapes asset root", ErrNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(string(d), clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

// HTTPSource fetches assets relative to a base URL.
type HTTPSource struct {
	Base   *url.URL
	Client *http.Client
}

// Fetch issues a GET for name under the base URL. Any non-2xx status is an
// error; 404 maps to ErrNotFound.
func (h *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := *h.Base
	u.Path = path.Join(u.Path, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u.String())
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetching %s: status %d", u.String(), resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	// Write lock: the hit/miss counters are updated here too.
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
