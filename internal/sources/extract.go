package sources

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rep-lookup/app/models"
	"github.com/rep-lookup/internal/normalizer"
)

// Candidate is one representative extracted from the directory page:
// a display name, a party literal and the seat it was printed next to.
type Candidate struct {
	Name        string
	Party       string
	Subdivision models.Subdivision
}

const (
	// A pass must produce at least this many candidates before the
	// orchestrator stops falling through to the next, lower-confidence
	// pass.
	minPassResults = 1

	// Blocks longer than this are page-level containers, not per-member
	// entries.
	blockTextLimit = 500

	// Anchors into this domain are member links.
	directoryDomain = "house.gov"
)

var (
	namePattern     = `[A-Z][a-zA-Z'’.-]*(?:\s[A-Z][a-zA-Z'’.-]*){1,3}`
	partyPattern    = `(?:Republican|Democratic|Democrat|Independent|Libertarian)`
	districtPattern = `([A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+){0,3})\sDistrict\s(\d{1,2}|At[-\s]?Large)`

	nameRe     = regexp.MustCompile(namePattern)
	partyRe    = regexp.MustCompile(partyPattern)
	districtRe = regexp.MustCompile(districtPattern)

	// Pass 1: (name, party, "<State> District <n>") triplets in reading
	// order, applied to whitespace-collapsed text. The gaps admit no
	// capital letters, so a greedy name match cannot swallow the party
	// token of one member and pair with the district of the next.
	tripletRe = regexp.MustCompile(
		`(` + namePattern + `)[^A-Z]{0,40}?(` + partyPattern + `)[^A-Z]{0,40}?` + districtPattern)

	// Anchor text accepted by pass 3: exactly two capitalized tokens.
	strictNameRe = regexp.MustCompile(`^[A-Z][a-zA-Z'’.-]+\s[A-Z][a-zA-Z'’.-]+$`)

	// The page text section that narrows pass 1 when present.
	sectionMarker = "possible representatives"
)

// Names matching navigation or footer chrome are never candidates.
var nameDenylist = []string{
	"possible representatives",
	"find your", "contact", "privacy", "site map", "sitemap", "search",
	"skip to", "accessibility", "zip code", "house of representatives",
	"office of", "frequently asked", "terms of", "press gallery",
}

// PageExtractor turns directory-page HTML into candidates through three
// descending-confidence passes. Each pass is a pure function of the
// HTML; the orchestration applies the fall-through threshold.
type PageExtractor struct {
	states map[string]string
}

// NewPageExtractor loads the embedded state table and compiles nothing
// further; the regexes are package-level.
func NewPageExtractor() (*PageExtractor, error) {
	states, err := loadStateTable()
	if err != nil {
		return nil, err
	}
	return &PageExtractor{states: states}, nil
}

// Extract runs the passes in confidence order, falling through while
// fewer than minPassResults candidates have been found, and
// deduplicates by normalized (name, subdivision).
func (pe *PageExtractor) Extract(html string) []Candidate {
	candidates := pe.ExtractFromText(html)
	if len(candidates) < minPassResults {
		candidates = append(candidates, pe.ExtractFromBlocks(html)...)
	}
	if len(candidates) < minPassResults {
		candidates = append(candidates, pe.ExtractFromLinks(html)...)
	}
	return dedupCandidates(candidates)
}

// ExtractFromText is pass 1: regex triplets over the whole visible text,
// narrowed to the "possible representatives" section when that heading
// exists. Text is whitespace-collapsed first so source line wrapping
// cannot split a triplet.
func (pe *PageExtractor) ExtractFromText(html string) []Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	// Skip past the marker itself so the heading cannot be mistaken for
	// the first candidate name.
	text := collapseWhitespace(doc.Text())
	if idx := strings.Index(strings.ToLower(text), sectionMarker); idx >= 0 {
		text = text[idx+len(sectionMarker):]
	}

	var out []Candidate
	for _, m := range tripletRe.FindAllStringSubmatch(text, -1) {
		name := cleanCandidateName(m[1])
		if name == "" || isDeniedName(name) {
			continue
		}
		out = append(out, pe.newCandidate(name, m[2], m[3], m[4]))
	}
	return out
}

// ExtractFromBlocks is pass 2: per-container matching. A block counts
// only when a name, a party keyword and a district phrase all appear
// inside it independently.
func (pe *PageExtractor) ExtractFromBlocks(html string) []Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var out []Candidate
	doc.Find("div, li, td, section, article, p").Each(func(_ int, sel *goquery.Selection) {
		text := collapseWhitespace(sel.Text())
		if text == "" || len(text) > blockTextLimit {
			return
		}
		dm := districtRe.FindStringSubmatch(text)
		if dm == nil {
			return
		}
		party := partyRe.FindString(text)
		if party == "" {
			return
		}
		name := pe.blockName(text)
		if name == "" {
			return
		}
		out = append(out, pe.newCandidate(name, party, dm[1], dm[2]))
	})
	return out
}

// ExtractFromLinks is pass 3: anchors into the directory domain whose
// text is a strict two-token name, accepted only when the enclosing
// container also carries a party and a state-plus-district phrase.
func (pe *PageExtractor) ExtractFromLinks(html string) []Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var out []Candidate
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, directoryDomain) {
			return
		}
		name := collapseWhitespace(sel.Text())
		if !strictNameRe.MatchString(name) || isDeniedName(name) {
			return
		}

		container := sel.Closest("div, li, td, tr, section")
		if container.Length() == 0 {
			return
		}
		text := collapseWhitespace(container.Text())
		party := partyRe.FindString(text)
		dm := districtRe.FindStringSubmatch(text)
		if party == "" || dm == nil {
			return
		}
		out = append(out, pe.newCandidate(name, party, dm[1], dm[2]))
	})
	return out
}

func (pe *PageExtractor) newCandidate(name, party, stateName, district string) Candidate {
	state := stateName
	if abbr, ok := pe.states[stateName]; ok {
		state = abbr
	}
	return Candidate{
		Name:        name,
		Party:       party,
		Subdivision: models.NewSubdivision(state, district),
	}
}

// blockName picks the first name-shaped match in a block that is not a
// party literal, a state name or part of the district phrase.
func (pe *PageExtractor) blockName(text string) string {
	for _, m := range nameRe.FindAllString(text, -1) {
		name := cleanCandidateName(m)
		if name == "" || isDeniedName(name) {
			continue
		}
		if strings.Contains(name, "District") {
			continue
		}
		if _, isState := pe.states[name]; isState {
			continue
		}
		return name
	}
	return ""
}

// cleanCandidateName trims party literals and single-letter leftovers
// the name pattern may have absorbed from its tail.
func cleanCandidateName(name string) string {
	tokens := strings.Fields(name)
	for len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if partyRe.MatchString(last) && partyRe.FindString(last) == last {
			tokens = tokens[:len(tokens)-1]
			continue
		}
		break
	}
	if len(tokens) < 2 {
		return ""
	}
	return strings.Join(tokens, " ")
}

func isDeniedName(name string) bool {
	folded := normalizer.FoldName(name)
	for _, deny := range nameDenylist {
		if strings.Contains(folded, deny) {
			return true
		}
	}
	return false
}

func dedupCandidates(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := normalizer.FoldName(c.Name) + "|" + c.Subdivision.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
