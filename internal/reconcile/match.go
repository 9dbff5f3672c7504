package reconcile

import (
	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"github.com/rep-lookup/internal/normalizer"
	"github.com/rep-lookup/internal/reference"
)

// Fuzzy score parameters. Jaro-Winkler favors shared prefixes, the
// Levenshtein ratio favors overall shape; taking the max keeps either
// signal from vetoing a good match.
const (
	jaroWinklerBoost     = 0.7
	jaroWinklerPrefixLen = 4
)

// nameScore returns a similarity in [0, 1] over folded names.
func nameScore(a, b string) float64 {
	fa, fb := normalizer.FoldName(a), normalizer.FoldName(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 1
	}

	jw := smetrics.JaroWinkler(fa, fb, jaroWinklerBoost, jaroWinklerPrefixLen)

	maxLen := len(fa)
	if len(fb) > maxLen {
		maxLen = len(fb)
	}
	lev := 1 - float64(levenshtein.ComputeDistance(fa, fb))/float64(maxLen)

	if jw > lev {
		return jw
	}
	return lev
}

// namesAgree gates a scrape-to-snapshot pairing. The surname must
// loosely contain one another (tolerating suffixes and initials) and
// the first names must not outright conflict.
func namesAgree(candidate, snapshot string) bool {
	candLast, snapLast := normalizer.LastToken(candidate), normalizer.LastToken(snapshot)
	if candLast == "" || snapLast == "" {
		return false
	}
	if !normalizer.LooseContains(candLast, snapLast) {
		return false
	}

	candFirst, snapFirst := normalizer.FirstToken(candidate), normalizer.FirstToken(snapshot)
	if candFirst == "" || snapFirst == "" {
		return true
	}
	return normalizer.LooseContains(candFirst, snapFirst)
}

// matchReference finds the snapshot row for a scraped name among the
// legislators of one seat. Ties on the gate are broken by fuzzy score.
func matchReference(name string, legislators []reference.Legislator) *reference.Legislator {
	var best *reference.Legislator
	bestScore := -1.0
	for i := range legislators {
		leg := &legislators[i]
		if !namesAgree(name, leg.DisplayName()) {
			continue
		}
		if score := nameScore(name, leg.DisplayName()); score > bestScore {
			best = leg
			bestScore = score
		}
	}
	return best
}
