package models

import (
	"fmt"
	"strings"
)

// The lookup error taxonomy. Everything a caller can observe is one of
// these three; per-source transport and parse failures are swallowed
// internally and only resurface as the diagnostic strings attached to
// NoRepresentativeFoundError.

// InvalidFormatError means the postal code failed structural validation
// before any network call was attempted.
type InvalidFormatError struct {
	Raw      string
	Expected string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid postal code format: '%s'. Expected format: %s", e.Raw, e.Expected)
}

// UnsupportedJurisdictionError means the jurisdiction code did not map to
// any known pipeline.
type UnsupportedJurisdictionError struct {
	Code string
}

func (e *UnsupportedJurisdictionError) Error() string {
	return fmt.Sprintf("jurisdiction '%s' is not supported", e.Code)
}

// NoRepresentativeFoundError means every source was attempted and none
// yielded a usable record. SourceErrors carries the accumulated
// non-fatal per-source failures for diagnosis.
type NoRepresentativeFoundError struct {
	PostalCode   string
	SourceErrors []string
}

func (e *NoRepresentativeFoundError) Error() string {
	msg := fmt.Sprintf("no representative found for postal code '%s'. Please verify the postal code is correct and try again.", e.PostalCode)
	if len(e.SourceErrors) > 0 {
		msg += " (sources: " + strings.Join(e.SourceErrors, "; ") + ")"
	}
	return msg
}
