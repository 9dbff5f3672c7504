package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
	"github.com/rep-lookup/internal/normalizer"
	"github.com/rep-lookup/internal/reconcile"
	"github.com/rep-lookup/internal/sources"
)

// Narrow views of the concrete sources, so tests can stub each leg of
// the pipeline independently.
type directoryLookup interface {
	Lookup(ctx context.Context, postalCode string) ([]sources.Candidate, error)
}

type memberLookup interface {
	Lookup(ctx context.Context, zip string) ([]sources.APIMember, error)
}

type reconciler interface {
	Reconcile(postalCode string, in reconcile.Inputs) ([]models.ContactRecord, error)
}

// USLookupService resolves a ZIP code to its House members. Three
// sources feed the reconciler: the directory page scrape, the
// structured API and, only when the structured API fails with a
// network-class error, the fallback API.
type USLookupService struct {
	directory  directoryLookup
	structured memberLookup
	fallback   memberLookup
	engine     reconciler
	logger     *zap.Logger
}

// NewUSLookupService wires the US pipeline.
func NewUSLookupService(
	directory directoryLookup,
	structured memberLookup,
	fallback memberLookup,
	engine reconciler,
	logger *zap.Logger,
) *USLookupService {
	return &USLookupService{
		directory:  directory,
		structured: structured,
		fallback:   fallback,
		engine:     engine,
		logger:     logger,
	}
}

// Lookup validates the ZIP, queries the sources and reconciles. Source
// failures degrade rather than abort: a failed source contributes a
// diagnostic string and an empty result, and only a fully empty
// reconciliation becomes an error.
func (us *USLookupService) Lookup(ctx context.Context, rawPostalCode string) (*models.LookupResult, error) {
	zip, err := normalizer.NormalizeUSZip(rawPostalCode)
	if err != nil {
		return nil, err
	}

	in := reconcile.Inputs{}

	candidates, err := us.directory.Lookup(ctx, zip)
	if err != nil {
		in.SourceErrors = append(in.SourceErrors, err.Error())
	}
	in.DirectoryCandidates = candidates

	members, err := us.structured.Lookup(ctx, zip)
	if err != nil {
		in.SourceErrors = append(in.SourceErrors, err.Error())
		// An answered-but-empty response means the API genuinely knows
		// nothing here; only a transport-class failure warrants the
		// fallback hop.
		if !errors.Is(err, sources.ErrNoData) {
			us.logger.Info("Structured API failed, trying fallback",
				zap.String("zip", zip), zap.Error(err))
			members, err = us.fallback.Lookup(ctx, zip)
			if err != nil {
				in.SourceErrors = append(in.SourceErrors, err.Error())
				members = nil
			}
		}
	}
	in.APIMembers = members

	records, err := us.engine.Reconcile(zip, in)
	if err != nil {
		return nil, err
	}

	return &models.LookupResult{
		Jurisdiction:    "US",
		PostalCode:      zip,
		Representatives: records,
	}, nil
}
