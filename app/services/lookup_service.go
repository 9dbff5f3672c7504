package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
	"github.com/rep-lookup/internal/reconcile"
	"github.com/rep-lookup/internal/reference"
	"github.com/rep-lookup/internal/sources"
)

// pipeline is one per-jurisdiction resolver.
type pipeline interface {
	Lookup(ctx context.Context, rawPostalCode string) (*models.LookupResult, error)
}

// LookupService is the library entry point: it routes a (jurisdiction,
// postal code) pair to the matching pipeline.
type LookupService struct {
	registry  *jurisdictionRegistry
	pipelines map[string]pipeline
	logger    *zap.Logger
}

// Config carries the per-source endpoint overrides. The zero value
// selects every production endpoint; tests point the URLs at local
// servers.
type Config struct {
	Fetch      sources.FetchConfig
	Directory  sources.DirectoryConfig
	Structured sources.StructuredConfig
	Fallback   sources.FallbackConfig
	Canada     sources.CanadaConfig
}

// NewLookupService wires the full lookup stack: shared fetch client,
// the three US sources, the reconciliation engine over the bundled
// snapshot, and the Canadian riding pipeline.
func NewLookupService(cfg Config, logger *zap.Logger) (*LookupService, error) {
	registry, err := loadJurisdictions()
	if err != nil {
		return nil, err
	}

	client := sources.NewFetchClient(cfg.Fetch, logger)

	directory, err := sources.NewDirectorySource(cfg.Directory, client, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory source: %w", err)
	}
	structured := sources.NewStructuredSource(cfg.Structured, client, logger)
	fallback := sources.NewFallbackSource(cfg.Fallback, client, logger)
	engine := reconcile.NewEngine(reference.NewIndex(logger), logger)

	return &LookupService{
		registry: registry,
		pipelines: map[string]pipeline{
			"US": NewUSLookupService(directory, structured, fallback, engine, logger),
			"CA": NewCanadaLookupService(sources.NewCanadaSource(cfg.Canada, client, logger), logger),
		},
		logger: logger,
	}, nil
}

// Resolve looks up the representatives for a postal code in a
// jurisdiction. The jurisdiction accepts the canonical code or any
// registered alias, case-insensitively.
func (ls *LookupService) Resolve(ctx context.Context, jurisdiction, postalCode string) (*models.LookupResult, error) {
	code, err := ls.registry.resolve(jurisdiction)
	if err != nil {
		return nil, err
	}

	pipe, ok := ls.pipelines[code]
	if !ok {
		return nil, &models.UnsupportedJurisdictionError{Code: jurisdiction}
	}

	ls.logger.Debug("Resolving lookup",
		zap.String("jurisdiction", code),
		zap.String("postal_code", postalCode))
	return pipe.Lookup(ctx, postalCode)
}

// SupportedJurisdictions returns the jurisdictions this library can
// resolve, for building selector UIs.
func (ls *LookupService) SupportedJurisdictions() []models.JurisdictionInfo {
	return ls.registry.list()
}
