package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
	"github.com/rep-lookup/internal/sources"
)

type stubMPs struct {
	records []models.ContactRecord
	err     error
	got     string
}

func (s *stubMPs) Lookup(_ context.Context, postalCode string) ([]models.ContactRecord, error) {
	s.got = postalCode
	return s.records, s.err
}

func TestCanadaServiceLookup(t *testing.T) {
	source := &stubMPs{records: []models.ContactRecord{
		{Name: "Yasir Naqvi", Role: models.RoleCanadianMP},
	}}
	service := NewCanadaLookupService(source, zap.NewNop())

	result, err := service.Lookup(context.Background(), "k1a 0a6")
	require.NoError(t, err)

	assert.Equal(t, "K1A0A6", source.got, "the source receives the compact form")
	assert.Equal(t, "CA", result.Jurisdiction)
	assert.Equal(t, "K1A 0A6", result.PostalCode, "the result carries the display form")
	require.Len(t, result.Representatives, 1)
	assert.Equal(t, "Yasir Naqvi", result.Representatives[0].Name)
}

func TestCanadaServiceInvalidPostalCode(t *testing.T) {
	service := NewCanadaLookupService(&stubMPs{}, zap.NewNop())

	tests := []string{"12345", "K1A", "D1A 0A6", "K1D 0A6", "K1A 0D6", "K1A0A67"}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := service.Lookup(context.Background(), raw)

			var invalid *models.InvalidFormatError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, raw, invalid.Raw)
		})
	}
}

func TestCanadaServiceUnknownPostalCode(t *testing.T) {
	source := &stubMPs{err: fmt.Errorf("riding api: %w", sources.ErrNoData)}
	service := NewCanadaLookupService(source, zap.NewNop())

	_, err := service.Lookup(context.Background(), "K9Z 9Z9")

	var notFound *models.NoRepresentativeFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "K9Z 9Z9", notFound.PostalCode)
	require.Len(t, notFound.SourceErrors, 1)
	assert.Contains(t, notFound.SourceErrors[0], "riding api")
}

func TestCanadaServiceTransportFailure(t *testing.T) {
	source := &stubMPs{err: errors.New("riding api: request failed")}
	service := NewCanadaLookupService(source, zap.NewNop())

	_, err := service.Lookup(context.Background(), "V6B 1A1")

	var notFound *models.NoRepresentativeFoundError
	require.ErrorAs(t, err, &notFound)
}
