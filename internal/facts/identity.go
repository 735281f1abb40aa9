package facts

import (
	"regexp"
	"strconv"
	"strings"
)

const nameToken = `[\p{L}][\p{L}'’-]*`

var (
	// Introductions that accept any casing.
	introPattern = regexp.MustCompile(
		`(?i:je m'appelle|je m’appelle|mon nom est|moi c'est|moi c’est|mon prénom est)\s+(` +
			nameToken + `(?:\s+` + nameToken + `){0,3})`)
	// "je suis" is too common to trust unless the name is capitalized.
	iAmPattern = regexp.MustCompile(
		`(?:^|[\s,.;!])(?i:je suis)\s+(\p{Lu}[\p{L}'’-]*(?:\s+\p{Lu}[\p{L}'’-]*){0,2})`)

	agePattern = regexp.MustCompile(`\b(\d{2})\s*ans\b`)
	// Numbers after these words are durations, not ages.
	durationLead = regexp.MustCompile(`(?:dans|d'ici|depuis|il y a|sous|pendant)\s*$`)
)

// Tokens that end a name run, compared lower-cased.
var nameStopwords = map[string]bool{
	"et": true, "je": true, "j'ai": true, "j’ai": true, "mais": true, "donc": true,
	"alors": true, "voudrais": true, "veux": true, "suis": true, "ai": true,
	"souhaite": true, "aimerais": true, "pour": true, "car": true, "qui": true,
}

// parseName extracts a full name from a self-introduction. The last token is
// the family name; a single token is a given name only.
func parseName(raw string) (Name, bool) {
	var run string
	if m := introPattern.FindStringSubmatch(raw); m != nil {
		run = m[1]
	} else if m := iAmPattern.FindStringSubmatch(raw); m != nil {
		run = m[1]
	} else {
		return Name{}, false
	}

	var tokens []string
	for _, tok := range strings.Fields(run) {
		if nameStopwords[strings.ToLower(tok)] {
			break
		}
		tokens = append(tokens, tok)
	}
	switch len(tokens) {
	case 0:
		return Name{}, false
	case 1:
		return Name{Given: tokens[0]}, true
	default:
		return Name{
			Given:  strings.Join(tokens[:len(tokens)-1], " "),
			Family: tokens[len(tokens)-1],
		}, true
	}
}

// parseAge reads a plausible "NN ans" from normalized text.
func parseAge(text string) (int, bool) {
	for _, loc := range agePattern.FindAllStringSubmatchIndex(text, -1) {
		if durationLead.MatchString(text[:loc[0]]) {
			continue
		}
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil || n < 16 || n > 99 {
			continue
		}
		return n, true
	}
	return 0, false
}
