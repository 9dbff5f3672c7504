package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
	"github.com/rep-lookup/internal/normalizer"
)

type mpLookup interface {
	Lookup(ctx context.Context, postalCode string) ([]models.ContactRecord, error)
}

// CanadaLookupService resolves a Canadian postal code to its federal MP
// through the riding API.
type CanadaLookupService struct {
	source mpLookup
	logger *zap.Logger
}

// NewCanadaLookupService wires the Canadian pipeline.
func NewCanadaLookupService(source mpLookup, logger *zap.Logger) *CanadaLookupService {
	return &CanadaLookupService{source: source, logger: logger}
}

// Lookup validates the postal code and queries the riding API. Both an
// unknown postal code and a transport failure end as a
// NoRepresentativeFoundError; the distinction survives in the attached
// source diagnostics.
func (ca *CanadaLookupService) Lookup(ctx context.Context, rawPostalCode string) (*models.LookupResult, error) {
	compact, err := normalizer.NormalizeCanadianPostal(rawPostalCode)
	if err != nil {
		return nil, err
	}
	display := normalizer.FormatCanadianPostal(compact)

	records, err := ca.source.Lookup(ctx, compact)
	if err != nil {
		ca.logger.Info("Canadian lookup failed",
			zap.String("postal_code", display), zap.Error(err))
		return nil, &models.NoRepresentativeFoundError{
			PostalCode:   display,
			SourceErrors: []string{err.Error()},
		}
	}

	return &models.LookupResult{
		Jurisdiction:    "CA",
		PostalCode:      display,
		Representatives: records,
	}, nil
}
