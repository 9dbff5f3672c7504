package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
)

// CanadaConfig configures the Canadian riding lookup.
type CanadaConfig struct {
	// RepresentBaseURL is the postal-code-to-riding API root.
	RepresentBaseURL string
	// EnrichmentBaseURL is the members API used to backfill contact
	// details for a riding. Enrichment is best-effort.
	EnrichmentBaseURL string
	// EnrichmentTimeout bounds each enrichment call.
	EnrichmentTimeout time.Duration
}

// DefaultCanadaConfig returns the production endpoints.
func DefaultCanadaConfig() CanadaConfig {
	return CanadaConfig{
		RepresentBaseURL:  "https://represent.opennorth.ca",
		EnrichmentBaseURL: "https://api.openparliament.ca/members/",
		EnrichmentTimeout: 5 * time.Second,
	}
}

type representResponse struct {
	RepresentativesCentroid    []representRep      `json:"representatives_centroid"`
	RepresentativesConcordance []representRep      `json:"representatives_concordance"`
	BoundariesCentroid         []representBoundary `json:"boundaries_centroid"`
}

type representRep struct {
	Name          string `json:"name"`
	ElectedOffice string `json:"elected_office"`
	Level         string `json:"level"`
	DistrictName  string `json:"district_name"`
	PartyName     string `json:"party_name"`
	Email         string `json:"email"`
	URL           string `json:"url"`
	Tel           string `json:"tel"`
	Office        string `json:"office"`
	Postal        string `json:"postal"`
}

type representBoundary struct {
	BoundarySetName string `json:"boundary_set_name"`
}

type enrichmentResponse struct {
	Objects []enrichmentMember `json:"objects"`
}

type enrichmentMember struct {
	Name    string `json:"name"`
	Riding  string `json:"riding"`
	Party   string `json:"party"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

// CanadaSource resolves a Canadian postal code to its federal Member of
// Parliament. The riding API is authoritative for who holds the seat;
// the members API fills contact gaps when reachable.
type CanadaSource struct {
	cfg    CanadaConfig
	client *FetchClient
	logger *zap.Logger
}

// NewCanadaSource creates the source.
func NewCanadaSource(cfg CanadaConfig, client *FetchClient, logger *zap.Logger) *CanadaSource {
	defaults := DefaultCanadaConfig()
	if cfg.RepresentBaseURL == "" {
		cfg.RepresentBaseURL = defaults.RepresentBaseURL
	}
	if cfg.EnrichmentBaseURL == "" {
		cfg.EnrichmentBaseURL = defaults.EnrichmentBaseURL
	}
	if cfg.EnrichmentTimeout <= 0 {
		cfg.EnrichmentTimeout = defaults.EnrichmentTimeout
	}
	return &CanadaSource{cfg: cfg, client: client, logger: logger}
}

// Lookup returns the MPs for a normalized (unspaced, uppercase) postal
// code. An unknown postal code returns ErrNoData.
func (cs *CanadaSource) Lookup(ctx context.Context, postalCode string) ([]models.ContactRecord, error) {
	target := fmt.Sprintf("%s/postcodes/%s/", cs.cfg.RepresentBaseURL, url.PathEscape(postalCode))

	body, err := cs.client.Get(ctx, target)
	if err != nil {
		// The riding API answers 404 for syntactically valid postal
		// codes it has no riding for.
		if IsNotFound(err) {
			return nil, fmt.Errorf("riding api: %w", ErrNoData)
		}
		return nil, fmt.Errorf("riding api: %w", err)
	}

	var payload representResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("riding api: invalid JSON response: %w", err)
	}

	reps := append(payload.RepresentativesCentroid, payload.RepresentativesConcordance...)
	records := cs.buildRecords(ctx, reps, true)

	// Some postal codes carry only a boundary reference; resolve it and
	// take the representatives listed on the boundary itself.
	if len(records) == 0 && len(payload.BoundariesCentroid) > 0 {
		records = cs.lookupByBoundary(ctx, payload.BoundariesCentroid[0].BoundarySetName)
	}

	cs.logger.Debug("Riding lookup",
		zap.String("postal_code", postalCode),
		zap.Int("representatives", len(reps)),
		zap.Int("mps", len(records)))

	if len(records) == 0 {
		return nil, fmt.Errorf("riding api: %w", ErrNoData)
	}
	return records, nil
}

func (cs *CanadaSource) lookupByBoundary(ctx context.Context, boundarySet string) []models.ContactRecord {
	if boundarySet == "" {
		return nil
	}
	target := fmt.Sprintf("%s/boundaries/%s/", cs.cfg.RepresentBaseURL, url.PathEscape(boundarySet))
	body, err := cs.client.Get(ctx, target)
	if err != nil {
		cs.logger.Debug("Boundary lookup failed",
			zap.String("boundary_set", boundarySet), zap.Error(err))
		return nil
	}

	var payload representResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	return cs.buildRecords(ctx, payload.RepresentativesCentroid, false)
}

// buildRecords keeps the federal MPs from a representative list and
// turns them into contact records, enriching from the members API when
// asked.
func (cs *CanadaSource) buildRecords(ctx context.Context, reps []representRep, enrich bool) []models.ContactRecord {
	var records []models.ContactRecord
	for _, rep := range reps {
		if !isFederalMP(rep) {
			continue
		}

		var extra *enrichmentMember
		if enrich && rep.DistrictName != "" {
			extra = cs.enrichByRiding(ctx, rep.DistrictName)
		}

		name := rep.Name
		riding := rep.DistrictName
		party := rep.PartyName
		email := rep.Email
		website := rep.URL
		phone := rep.Tel
		address := rep.Office
		if address == "" {
			address = rep.Postal
		}
		if extra != nil {
			if name == "" {
				name = extra.Name
			}
			if riding == "" {
				riding = extra.Riding
			}
			if party == "" {
				party = extra.Party
			}
			if email == "" {
				email = extra.Email
			}
			if website == "" {
				website = extra.Website
			}
			if phone == "" {
				phone = extra.Phone
			}
		}
		if name == "" {
			continue
		}

		records = append(records, models.ContactRecord{
			Name:              name,
			Role:              models.RoleCanadianMP,
			Party:             models.OptString(party),
			JurisdictionLabel: models.OptString(riding),
			Email:             models.OptString(email),
			Phone:             models.OptString(phone),
			Website:           models.OptString(website),
			Address:           models.OptString(address),
		})
	}
	return records
}

// enrichByRiding asks the members API for the MP of a riding. Failures
// are swallowed; enrichment never blocks an answer.
func (cs *CanadaSource) enrichByRiding(ctx context.Context, riding string) *enrichmentMember {
	enrichCtx, cancel := context.WithTimeout(ctx, cs.cfg.EnrichmentTimeout)
	defer cancel()

	target := fmt.Sprintf("%s?riding=%s&limit=1", cs.cfg.EnrichmentBaseURL, url.QueryEscape(riding))
	body, err := cs.client.Get(enrichCtx, target)
	if err != nil {
		cs.logger.Debug("Riding enrichment failed",
			zap.String("riding", riding), zap.Error(err))
		return nil
	}

	var payload enrichmentResponse
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Objects) == 0 {
		return nil
	}
	return &payload.Objects[0]
}

func isFederalMP(rep representRep) bool {
	// "MPP" and "MNA" are provincial offices; a bare substring test on
	// "mp" would let them through.
	office := strings.ToLower(strings.TrimSpace(rep.ElectedOffice))
	if strings.Contains(office, "member of parliament") || office == "mp" {
		return true
	}
	return strings.EqualFold(rep.Level, "federal")
}
