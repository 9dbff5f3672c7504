package services

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rep-lookup/app/models"
)

//go:embed data/jurisdictions.yaml
var jurisdictionsYAML []byte

type jurisdictionEntry struct {
	Code            string   `yaml:"code"`
	Name            string   `yaml:"name"`
	InputFormatHint string   `yaml:"input_format_hint"`
	Aliases         []string `yaml:"aliases"`
}

type jurisdictionTable struct {
	Jurisdictions []jurisdictionEntry `yaml:"jurisdictions"`
}

// jurisdictionRegistry resolves user-supplied jurisdiction strings to
// canonical codes.
type jurisdictionRegistry struct {
	entries []jurisdictionEntry
	byAlias map[string]string
}

// loadJurisdictions parses the embedded jurisdiction table into a
// registry.
func loadJurisdictions() (*jurisdictionRegistry, error) {
	table := &jurisdictionTable{}
	if err := yaml.Unmarshal(jurisdictionsYAML, table); err != nil {
		return nil, fmt.Errorf("failed to parse jurisdiction table: %w", err)
	}

	reg := &jurisdictionRegistry{
		entries: table.Jurisdictions,
		byAlias: make(map[string]string),
	}
	for _, entry := range table.Jurisdictions {
		reg.byAlias[strings.ToUpper(entry.Code)] = entry.Code
		for _, alias := range entry.Aliases {
			reg.byAlias[strings.ToUpper(strings.TrimSpace(alias))] = entry.Code
		}
	}
	return reg, nil
}

// resolve maps a raw jurisdiction string to its canonical code.
func (r *jurisdictionRegistry) resolve(raw string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if code, ok := r.byAlias[key]; ok {
		return code, nil
	}
	return "", &models.UnsupportedJurisdictionError{Code: raw}
}

// list returns the supported jurisdictions in table order.
func (r *jurisdictionRegistry) list() []models.JurisdictionInfo {
	out := make([]models.JurisdictionInfo, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, models.JurisdictionInfo{
			Code:            entry.Code,
			Name:            entry.Name,
			InputFormatHint: entry.InputFormatHint,
		})
	}
	return out
}
