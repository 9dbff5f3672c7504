package reconcile

import (
	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
	"github.com/rep-lookup/internal/normalizer"
	"github.com/rep-lookup/internal/reference"
	"github.com/rep-lookup/internal/sources"
)

// Engine merges per-source results for one postal code into the final
// record list. The directory page leads when it produced candidates;
// API members fill the seats the page missed; the bundled snapshot
// enriches both.
type Engine struct {
	index  *reference.Index
	logger *zap.Logger
}

// NewEngine creates a reconciliation engine over the reference index.
func NewEngine(index *reference.Index, logger *zap.Logger) *Engine {
	return &Engine{index: index, logger: logger}
}

// Inputs is everything the sources produced for one postal code.
// SourceErrors carries the diagnostic failures of sources that did not
// answer; they surface only when nothing at all was found.
type Inputs struct {
	DirectoryCandidates []sources.Candidate
	APIMembers          []sources.APIMember
	SourceErrors        []string
}

// emitted tracks what Reconcile has already produced, for dedup across
// sources that render the same person differently. Two records are the
// same person only when their names loosely match AND they sit in the
// same subdivision; an entry that carried no subdivision at all is
// compared against every emitted name, since its seat is unknowable.
type emitted struct {
	seats     map[string]bool
	seatNames map[string][]string
	names     []string
}

func newEmitted() *emitted {
	return &emitted{
		seats:     make(map[string]bool),
		seatNames: make(map[string][]string),
	}
}

func (e *emitted) add(key, name string) {
	if key != "" {
		e.seats[key] = true
		e.seatNames[key] = append(e.seatNames[key], name)
	}
	e.names = append(e.names, name)
}

func (e *emitted) hasSeat(key string) bool {
	return key != "" && e.seats[key]
}

// hasSeatName reports whether the same person was already emitted for
// this seat. Similar names in different seats are different people.
func (e *emitted) hasSeatName(key, name string) bool {
	for _, seen := range e.seatNames[key] {
		if normalizer.LooseContains(seen, name) {
			return true
		}
	}
	return false
}

// hasName compares against every emitted name, for entries whose seat
// is unknown.
func (e *emitted) hasName(name string) bool {
	for _, seen := range e.names {
		if normalizer.LooseContains(seen, name) {
			return true
		}
	}
	return false
}

// Reconcile produces the final records for a postal code. It returns a
// NoRepresentativeFoundError when every source came up empty.
func (e *Engine) Reconcile(postalCode string, in Inputs) ([]models.ContactRecord, error) {
	out := make([]models.ContactRecord, 0, len(in.DirectoryCandidates)+len(in.APIMembers))
	seen := newEmitted()

	// Directory candidates lead: they are the freshest statement of who
	// holds each seat. Each is enriched from the snapshot row for its
	// seat and from any API member covering the same seat.
	for i := range in.DirectoryCandidates {
		cand := &in.DirectoryCandidates[i]
		key := cand.Subdivision.Key()
		if seen.hasSeatName(key, cand.Name) {
			continue
		}

		ref := matchReference(cand.Name, e.index.Lookup(cand.Subdivision))
		api := matchAPIMember(cand.Name, cand.Subdivision, in.APIMembers)

		out = append(out, mergeRecord(cand.Subdivision, MergeInputs{
			Directory: cand,
			Reference: ref,
			API:       api,
		}))
		seen.add(key, cand.Name)
	}

	// API members cover the seats the page missed. When the snapshot
	// knows the seat, its rows supply identity and contact details and
	// the member contributes at most an email; API names lag turnover
	// and are never trusted for display when a snapshot row exists.
	for i := range in.APIMembers {
		member := &in.APIMembers[i]

		if member.HasSubdivision {
			key := member.Subdivision.Key()
			if seen.hasSeat(key) || seen.hasSeatName(key, member.Name) {
				continue
			}
			if refs := e.index.Lookup(member.Subdivision); len(refs) > 0 {
				for j := range refs {
					out = append(out, mergeRecord(member.Subdivision, MergeInputs{
						Reference: &refs[j],
						API:       member,
					}))
					seen.add(key, refs[j].DisplayName())
				}
				continue
			}
			out = append(out, mergeRecord(member.Subdivision, MergeInputs{API: member}))
			seen.add(key, member.Name)
			continue
		}

		// No subdivision on the entry: the only usable identity is the
		// name, so compare it against everything already emitted.
		if seen.hasName(member.Name) {
			continue
		}
		out = append(out, mergeRecord(member.Subdivision, MergeInputs{API: member}))
		seen.add("", member.Name)
	}

	e.logger.Debug("Reconciled lookup",
		zap.String("postal_code", postalCode),
		zap.Int("directory_candidates", len(in.DirectoryCandidates)),
		zap.Int("api_members", len(in.APIMembers)),
		zap.Int("records", len(out)))

	if len(out) == 0 {
		return nil, &models.NoRepresentativeFoundError{
			PostalCode:   postalCode,
			SourceErrors: in.SourceErrors,
		}
	}
	return out, nil
}

// matchAPIMember pairs a directory candidate with the API member for
// the same seat, falling back to a loose name match for members whose
// entry carried no state.
func matchAPIMember(name string, sub models.Subdivision, members []sources.APIMember) *sources.APIMember {
	for i := range members {
		if members[i].HasSubdivision && members[i].Subdivision.Key() == sub.Key() {
			return &members[i]
		}
	}
	for i := range members {
		if !members[i].HasSubdivision && normalizer.LooseContains(members[i].Name, name) {
			return &members[i]
		}
	}
	return nil
}
