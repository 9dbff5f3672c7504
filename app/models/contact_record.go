package models

// Role strings are fixed per jurisdiction and chamber.
const (
	RoleUSRepresentative = "Member of the House of Representatives"
	RoleCanadianMP       = "Member of Parliament"
)

// ContactRecord is the canonical output unit of a lookup. Name and Role
// are always set on an emitted record; every other field is nil when the
// value is unknown, never an empty string.
type ContactRecord struct {
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	Party             *string `json:"party"`
	JurisdictionLabel *string `json:"jurisdiction_label"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Website           *string `json:"website"`
	Address           *string `json:"address"`
}

// LookupResult is the normalized response shape for all jurisdictions.
type LookupResult struct {
	Jurisdiction    string          `json:"jurisdiction"`
	PostalCode      string          `json:"postal_code"`
	Representatives []ContactRecord `json:"representatives"`
}

// JurisdictionInfo describes one supported jurisdiction for selector UIs.
type JurisdictionInfo struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	InputFormatHint string `json:"input_format_hint"`
}

// OptString returns a pointer to s, or nil when s is empty. Used to keep
// the nil-not-empty invariant on optional ContactRecord fields.
func OptString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
