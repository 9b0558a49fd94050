package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/zarabot/crates/pkg/item"
)

const (
	catalogCacheKey = "catalog:manifest"
	catalogCacheTTL = 24 * time.Hour
)

// CatalogService loads the item manifest from its remote URL once at
// startup and exposes the parsed catalog. The raw manifest is kept in
// the cache so a manifest outage does not keep the bot from starting.
type CatalogService struct {
	manifestURL string
	cache       Cache
	httpClient  *http.Client
	logger      *slog.Logger

	mu      sync.RWMutex
	catalog *item.Catalog
}

// NewCatalogService creates a new catalog service
func NewCatalogService(manifestURL string, cache Cache, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		manifestURL: manifestURL,
		cache:       cache,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Load fetches and parses the manifest. On fetch failure it falls
// back to the cached copy from a previous run.
func (s *CatalogService) Load(ctx context.Context) error {
	data, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("Manifest fetch failed, trying cached copy", "error", err)
		cached, cacheErr := s.cache.Get(ctx, catalogCacheKey)
		if cacheErr != nil || cached == "" {
			return fmt.Errorf("failed to load item manifest: %w", err)
		}
		data = []byte(cached)
	} else {
		if err := s.cache.Set(ctx, catalogCacheKey, string(data), catalogCacheTTL); err != nil {
			s.logger.Warn("Failed to cache item manifest", "error", err)
		}
	}

	items, err := item.ParseManifest(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = item.NewCatalog(items)
	s.mu.Unlock()

	s.logger.Info("Loaded item manifest", "items", len(items))
	return nil
}

// Catalog returns the loaded catalog, or nil before Load succeeds.
func (s *CatalogService) Catalog() *item.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

func (s *CatalogService) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest request failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest body: %w", err)
	}
	return data, nil
}
