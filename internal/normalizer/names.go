package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Person-name normalization used for every cross-source comparison.
// Sources disagree on accents ("Nydia Velázquez" vs "Nydia Velazquez"),
// casing and honorifics, so comparisons always run on the folded form.

// StripDiacritics removes combining marks while leaving base letters
// intact.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

// FoldName lowercases a name, folds it to ASCII and collapses whitespace
// runs to single spaces. Periods and commas are dropped so "Rep. Smith,
// Jr." and "rep smith jr" fold identically. Decomposition strips the
// combining marks; transliteration then covers letters decomposition
// leaves alone, like "Ø" and "Đ".
func FoldName(s string) string {
	s = StripDiacritics(s)
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

var honorifics = map[string]bool{
	"rep":            true,
	"representative": true,
	"congressman":    true,
	"congresswoman":  true,
	"hon":            true,
	"dr":             true,
	"mr":             true,
	"mrs":            true,
	"ms":             true,
}

// NameTokens folds a name and splits it into tokens with leading
// honorifics removed.
func NameTokens(s string) []string {
	tokens := strings.Fields(FoldName(s))
	for len(tokens) > 0 && honorifics[tokens[0]] {
		tokens = tokens[1:]
	}
	return tokens
}

// FirstToken returns the folded first name token, or "" for an empty
// name.
func FirstToken(s string) string {
	tokens := NameTokens(s)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// LastToken returns the folded last name token, skipping generational
// suffixes, or "" for an empty name.
func LastToken(s string) string {
	tokens := NameTokens(s)
	for i := len(tokens) - 1; i >= 0; i-- {
		switch tokens[i] {
		case "jr", "sr", "ii", "iii", "iv":
			continue
		}
		return tokens[i]
	}
	return ""
}

// LooseContains reports whether either folded name contains the other.
// This substring tolerance is deliberate: sources render the same person
// as "Smith" / "Smith Jr." / "A. Smith" and an exact comparison would
// split them into separate records.
func LooseContains(a, b string) bool {
	fa, fb := FoldName(a), FoldName(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}
