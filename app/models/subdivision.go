package models

import (
	"strconv"
	"strings"
)

// AtLargeDistrict is the district value used for states with a single
// state-wide seat.
const AtLargeDistrict = "0"

// Subdivision identifies one electoral district: a state plus a district
// number, with district "0" denoting an at-large seat. It is the join key
// between postal-code resolution (which yields subdivisions) and the
// people-per-subdivision sources.
type Subdivision struct {
	State    string `json:"state"`
	District string `json:"district"`
}

// NewSubdivision builds a Subdivision from loosely formatted source
// fields. District spellings like "At-Large", "at large", "none", "n/a"
// or an empty string all collapse to the at-large value; numeric
// districts lose leading zeros so "08" and "8" produce the same key.
func NewSubdivision(state, district string) Subdivision {
	state = strings.ToUpper(strings.TrimSpace(state))

	d := strings.ToLower(strings.TrimSpace(district))
	switch d {
	case "", "0", "none", "n/a", "at-large", "at large", "atlarge":
		d = AtLargeDistrict
	default:
		if n, err := strconv.Atoi(d); err == nil {
			d = strconv.Itoa(n)
		}
	}

	return Subdivision{State: state, District: d}
}

// Key returns the canonical "{STATE}-{DISTRICT}" join key.
func (s Subdivision) Key() string {
	return s.State + "-" + s.District
}

// Label returns the display form, e.g. "CA-12" or "VT-At-Large".
func (s Subdivision) Label() string {
	if s.District == AtLargeDistrict {
		return s.State + "-At-Large"
	}
	return s.State + "-" + s.District
}

// IsZero reports whether the subdivision carries no state at all.
func (s Subdivision) IsZero() bool {
	return s.State == ""
}
