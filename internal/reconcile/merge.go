package reconcile

import (
	"github.com/rep-lookup/app/models"
	"github.com/rep-lookup/internal/reference"
	"github.com/rep-lookup/internal/sources"
)

// MergeInputs collects what each source contributed for one seat. Any
// pointer may be nil; at least one must be set for a record to exist.
type MergeInputs struct {
	Directory *sources.Candidate
	Reference *reference.Legislator
	API       *sources.APIMember
}

// firstNonEmpty returns the first non-empty value, spelling the
// precedence chain out at the call site.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mergeRecord builds one contact record from the per-seat inputs with a
// fixed per-field precedence. Identity fields (name, party) trust the
// live directory page first because the snapshot and the APIs lag
// turnover; contact fields trust the curated snapshot first because the
// APIs mix offices and formats.
func mergeRecord(sub models.Subdivision, in MergeInputs) models.ContactRecord {
	var dirName, dirParty string
	if in.Directory != nil {
		dirName, dirParty = in.Directory.Name, in.Directory.Party
	}

	var refName, refParty, refPhone, refAddress, refWebsite string
	if in.Reference != nil {
		refName = in.Reference.DisplayName()
		refParty = in.Reference.Party
		refPhone = in.Reference.Phone
		refAddress = in.Reference.Address
		refWebsite = in.Reference.URL
	}

	var apiName, apiParty, apiEmail, apiPhone, apiAddress, apiWebsite string
	if in.API != nil {
		apiName = in.API.Name
		apiParty = in.API.Party
		apiEmail = in.API.Email
		apiPhone = in.API.Phone
		apiAddress = in.API.Address
		apiWebsite = in.API.Website
	}

	var label string
	if !sub.IsZero() {
		label = sub.Label()
	}

	return models.ContactRecord{
		Name:              firstNonEmpty(dirName, refName, apiName),
		Role:              models.RoleUSRepresentative,
		Party:             models.OptString(firstNonEmpty(dirParty, refParty, apiParty)),
		JurisdictionLabel: models.OptString(label),
		Email:             models.OptString(apiEmail),
		Phone:             models.OptString(firstNonEmpty(refPhone, apiPhone)),
		Website:           models.OptString(firstNonEmpty(refWebsite, apiWebsite)),
		Address:           models.OptString(firstNonEmpty(refAddress, apiAddress)),
	}
}
