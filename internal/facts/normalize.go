package facts

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'", "\u00a0", " ", "\u202f", " ", "\u2009", " ")

// normalize lower-cases text, folds accents and unifies apostrophes so the
// vocabularies can be written in plain ASCII.
func normalize(text string) string {
	// transform.Chain is stateful, build one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, apostrophes.Replace(text))
	if err != nil {
		folded = apostrophes.Replace(text)
	}
	return strings.ToLower(folded)
}

// sentences splits raw text on sentence punctuation and line breaks.
func sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
