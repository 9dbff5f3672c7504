package sources

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed data/states.yaml
var statesYAML []byte

// stateTable maps state names as the directory page prints them to
// their USPS two-letter codes.
type stateTable struct {
	States map[string]string `yaml:"states"`
}

// loadStateTable parses the embedded state abbreviation table.
func loadStateTable() (map[string]string, error) {
	table := &stateTable{}
	if err := yaml.Unmarshal(statesYAML, table); err != nil {
		return nil, err
	}
	return table.States, nil
}
