package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
)

// FallbackConfig configures the secondary civic API, used only when the
// structured API fails with a network-class error.
type FallbackConfig struct {
	BaseURL string
}

// DefaultFallbackConfig returns the production endpoint.
func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{BaseURL: "https://api.5calls.org/v1/reps"}
}

// fallbackResponse is the documented shape; unlike the structured API
// this one has a stable schema.
type fallbackResponse struct {
	Reps []fallbackRep `json:"reps"`
}

type fallbackRep struct {
	Name        string `json:"name"`
	Party       string `json:"party"`
	Phone       string `json:"phone"`
	URL         string `json:"url"`
	ContactForm string `json:"contact_form"`
	District    string `json:"district"`
	State       string `json:"state"`
	Chamber     string `json:"chamber"`
}

// FallbackSource queries the secondary civic API by location string.
type FallbackSource struct {
	cfg    FallbackConfig
	client *FetchClient
	logger *zap.Logger
}

// NewFallbackSource creates the source.
func NewFallbackSource(cfg FallbackConfig, client *FetchClient, logger *zap.Logger) *FallbackSource {
	if cfg.BaseURL == "" {
		cfg = DefaultFallbackConfig()
	}
	return &FallbackSource{cfg: cfg, client: client, logger: logger}
}

// Lookup returns the House members the API lists for a normalized ZIP.
// An answer with no House entries returns ErrNoData.
func (fs *FallbackSource) Lookup(ctx context.Context, zip string) ([]APIMember, error) {
	target := fmt.Sprintf("%s?zip=%s", fs.cfg.BaseURL, url.QueryEscape(zip))

	body, err := fs.client.GetWithRelayRetry(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("fallback api: %w", err)
	}

	var payload fallbackResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("fallback api: invalid JSON response: %w", err)
	}

	var members []APIMember
	for _, rep := range payload.Reps {
		if !strings.EqualFold(rep.Chamber, "house") || rep.Name == "" {
			continue
		}
		website := rep.ContactForm
		if website == "" {
			website = rep.URL
		}
		member := APIMember{
			Name:    rep.Name,
			Party:   rep.Party,
			Phone:   rep.Phone,
			Website: website,
		}
		if rep.State != "" {
			member.Subdivision = models.NewSubdivision(rep.State, rep.District)
			member.HasSubdivision = true
		}
		members = append(members, member)
	}

	fs.logger.Debug("Fallback API lookup",
		zap.String("zip", zip),
		zap.Int("reps", len(payload.Reps)),
		zap.Int("house_members", len(members)))

	if len(members) == 0 {
		return nil, fmt.Errorf("fallback api: %w", ErrNoData)
	}
	return members, nil
}
