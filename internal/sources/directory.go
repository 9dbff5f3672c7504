package sources

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DirectoryConfig configures the government directory-page source.
type DirectoryConfig struct {
	// LookupURL is the page URL prefix; the normalized postal code is
	// appended.
	LookupURL string
	// Timeout bounds the fetch; the page is slow and best-effort.
	Timeout time.Duration
	// CacheSize bounds the per-postal-code result cache.
	CacheSize int
}

// DefaultDirectoryConfig returns the production directory endpoint.
func DefaultDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		LookupURL: "https://ziplook.house.gov/htbin/findrep_house?ZIP=",
		Timeout:   5 * time.Second,
		CacheSize: 512,
	}
}

// DirectorySource scrapes the government postal-code lookup page. It is
// the freshest source for who currently holds a seat, but carries no
// contact details. Failures are reported, never raised as terminal: the
// pipeline treats this source as best-effort.
type DirectorySource struct {
	cfg       DirectoryConfig
	client    *FetchClient
	extractor *PageExtractor
	cache     *lru.Cache[string, []Candidate]
	logger    *zap.Logger
}

// NewDirectorySource creates the source with its own result cache. The
// cache lives as long as the source instance; only non-empty results
// are stored, so a transient outage never pins an empty answer.
func NewDirectorySource(cfg DirectoryConfig, client *FetchClient, logger *zap.Logger) (*DirectorySource, error) {
	defaults := DefaultDirectoryConfig()
	if cfg.LookupURL == "" {
		cfg.LookupURL = defaults.LookupURL
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaults.CacheSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	extractor, err := NewPageExtractor()
	if err != nil {
		return nil, fmt.Errorf("failed to load state table: %w", err)
	}
	cache, err := lru.New[string, []Candidate](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory cache: %w", err)
	}

	return &DirectorySource{
		cfg:       cfg,
		client:    client,
		extractor: extractor,
		cache:     cache,
		logger:    logger,
	}, nil
}

// Lookup fetches and extracts candidates for a normalized postal code.
// The returned error is diagnostic only; a failed or empty scrape
// yields a nil slice.
func (ds *DirectorySource) Lookup(ctx context.Context, postalCode string) ([]Candidate, error) {
	if cached, ok := ds.cache.Get(postalCode); ok {
		ds.logger.Debug("Directory cache hit", zap.String("postal_code", postalCode))
		return cached, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, ds.cfg.Timeout)
	defer cancel()

	body, err := ds.client.GetThroughRelay(fetchCtx, ds.cfg.LookupURL+postalCode)
	if err != nil {
		ds.logger.Warn("Directory page fetch failed",
			zap.String("postal_code", postalCode), zap.Error(err))
		return nil, fmt.Errorf("directory source: %w", err)
	}

	candidates := ds.extractor.Extract(string(body))
	ds.logger.Debug("Directory page extracted",
		zap.String("postal_code", postalCode),
		zap.Int("candidates", len(candidates)))

	if len(candidates) > 0 {
		ds.cache.Add(postalCode, candidates)
	}
	return candidates, nil
}
