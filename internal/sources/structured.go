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

// APIMember is one entry from a structured or fallback API response,
// reduced to the fields the reconciler consumes. Subdivision is the
// load-bearing part: API names lag legislative turnover, so names here
// are only trusted when nothing better exists.
type APIMember struct {
	Name           string
	Party          string
	Phone          string
	Address        string
	Website        string
	Email          string
	Subdivision    models.Subdivision
	HasSubdivision bool
}

// StructuredConfig configures the structured representative API.
type StructuredConfig struct {
	BaseURL string
}

// DefaultStructuredConfig returns the production API endpoint.
func DefaultStructuredConfig() StructuredConfig {
	return StructuredConfig{BaseURL: "https://whoismyrepresentative.com/getall_mems.php"}
}

// StructuredSource queries the structured postal-code API. Its schema is
// loosely documented: the payload may be a bare array or an object
// keyed by one of several container names, and field keys appear in
// both lower and capitalized variants.
type StructuredSource struct {
	cfg    StructuredConfig
	client *FetchClient
	logger *zap.Logger
}

// NewStructuredSource creates the source.
func NewStructuredSource(cfg StructuredConfig, client *FetchClient, logger *zap.Logger) *StructuredSource {
	if cfg.BaseURL == "" {
		cfg = DefaultStructuredConfig()
	}
	return &StructuredSource{cfg: cfg, client: client, logger: logger}
}

// Lookup returns the lower-chamber members the API lists for a
// normalized ZIP. A response with no usable entries returns ErrNoData;
// any other failure is network-class and makes the pipeline try the
// fallback API.
func (ss *StructuredSource) Lookup(ctx context.Context, zip string) ([]APIMember, error) {
	target := fmt.Sprintf("%s?zip=%s&output=json", ss.cfg.BaseURL, url.QueryEscape(zip))

	body, err := ss.client.GetWithRelayRetry(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("structured api: %w", err)
	}

	entries, err := decodeStructuredPayload(body)
	if err != nil {
		return nil, fmt.Errorf("structured api: %w", err)
	}

	members := classifyStructuredEntries(entries)
	ss.logger.Debug("Structured API lookup",
		zap.String("zip", zip),
		zap.Int("entries", len(entries)),
		zap.Int("house_members", len(members)))

	if len(members) == 0 {
		return nil, fmt.Errorf("structured api: %w", ErrNoData)
	}
	return members, nil
}

// decodeStructuredPayload accepts a top-level array or an object with
// one of the known container keys.
func decodeStructuredPayload(body []byte) ([]map[string]any, error) {
	var root any
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}

	var raw []any
	switch v := root.(type) {
	case []any:
		raw = v
	case map[string]any:
		for _, key := range []string{"results", "representatives", "data"} {
			if list, ok := v[key].([]any); ok && len(list) > 0 {
				raw = list
				break
			}
		}
	}

	entries := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if entry, ok := item.(map[string]any); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// classifyStructuredEntries drops senators and keeps everything that
// looks like a sitting House member.
func classifyStructuredEntries(entries []map[string]any) []APIMember {
	var members []APIMember
	for _, entry := range entries {
		name := stringField(entry, "name", "Name")
		if name == "" {
			continue
		}

		office := strings.ToLower(stringField(entry, "office", "Office"))
		title := strings.ToLower(stringField(entry, "title", "Title"))
		district := stringField(entry, "district", "District")
		state := stringField(entry, "state", "State")

		// Senators represent whole states, never districts.
		isSenator := strings.Contains(office, "senator") ||
			strings.Contains(office, "senate") ||
			title == "senator"
		if isSenator {
			continue
		}

		hasDistrict := district != "" && !isNullishDistrict(district)
		isRepByTitle := strings.Contains(office, "representative") ||
			strings.Contains(office, "house") ||
			title == "representative"

		// A district number is the strongest signal; an explicit title
		// next; otherwise a state with no senator indicator is assumed
		// to be a House entry with missing district info.
		if !hasDistrict && !isRepByTitle && state == "" {
			continue
		}

		member := APIMember{
			Name:  name,
			Party: stringField(entry, "party", "Party"),
			Phone: stringField(entry, "phone", "Phone"),
			Email: stringField(entry, "email", "Email", "email_address", "EmailAddress"),
		}

		// The office field doubles as either an address or a title.
		address := stringField(entry, "office", "Office")
		switch strings.ToLower(address) {
		case "representative", "senator", "house", "senate":
			address = stringField(entry, "address", "Address")
		}
		member.Address = address
		member.Website = stringField(entry, "link", "Link", "website", "Website")

		if state != "" {
			member.Subdivision = models.NewSubdivision(state, district)
			member.HasSubdivision = true
		}
		members = append(members, member)
	}
	return members
}

func isNullishDistrict(district string) bool {
	switch strings.ToLower(strings.TrimSpace(district)) {
	case "", "none", "n/a":
		return true
	}
	return false
}

// stringField returns the first non-empty string under any of the given
// keys. The API is inconsistent about key casing.
func stringField(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := entry[key].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}
