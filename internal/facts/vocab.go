package facts

import "regexp"

// term maps a normalized pattern to the canonical value stored in a slot.
type term struct {
	pattern *regexp.Regexp
	value   string
}

func terms(pairs ...string) []term {
	out := make([]term, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, term{
			pattern: regexp.MustCompile(`\b` + pairs[i]),
			value:   pairs[i+1],
		})
	}
	return out
}

// firstTerm returns the value of the first vocabulary entry found in text.
// List order decides ties, not position in the text.
func firstTerm(vocab []term, text string) (string, bool) {
	for _, t := range vocab {
		if t.pattern.MatchString(text) {
			return t.value, true
		}
	}
	return "", false
}

// More specific phrasings come before the generic ones they contain.
var interventionVocab = terms(
	`rhinoplastie`, "rhinoplastie",
	`rhino\b`, "rhinoplastie",
	`blepharoplastie`, "blépharoplastie",
	`paupieres`, "blépharoplastie",
	`otoplastie`, "otoplastie",
	`oreilles decollees`, "otoplastie",
	`lifting des seins`, "mastopexie",
	`mastopexie`, "mastopexie",
	`augmentation mammaire`, "augmentation mammaire",
	`protheses? mammaires?`, "augmentation mammaire",
	`reduction mammaire`, "réduction mammaire",
	`abdominoplastie`, "abdominoplastie",
	`liposuccion`, "liposuccion",
	`lipoaspiration`, "liposuccion",
	`lipofilling`, "lipofilling",
	`bbl\b`, "lipofilling fessier",
	`lifting`, "lifting",
	`greffe de cheveux`, "greffe de cheveux",
	`greffe capillaire`, "greffe de cheveux",
	`botox`, "botox",
	`toxine botulique`, "botox",
	`acide hyaluronique`, "acide hyaluronique",
	`injections?`, "injections",
	`peeling`, "peeling",
	`laser`, "laser",
)

var objectiveVocab = terms(
	`respir`, "fonctionnel",
	`fonctionnel`, "fonctionnel",
	`gene\b`, "fonctionnel",
	`corrig`, "correctif",
	`correct`, "correctif",
	`reparat`, "correctif",
	`asymetri`, "correctif",
	`cicatrice`, "correctif",
	`esthetique`, "esthétique",
	`rajeun`, "esthétique",
	`embell`, "esthétique",
	`harmonis`, "esthétique",
)

var medicalVocab = terms(
	`enceinte`, "",
	`grossesse`, "",
	`allait(?:e|es|ement|ante)\b`, "",
	`allergi`, "",
	`diabet`, "",
	`hypertension`, "",
	`asthme`, "",
	`maladie chronique`, "",
	`chronique`, "",
	`operee?s? recemment`, "",
	`chirurgie recente`, "",
	`recemment opere`, "",
	`fume`, "",
	`fumeu`, "",
	`tabac`, "",
	`cigarette`, "",
	`traitement hormonal`, "",
	`hormon`, "",
	`anticoagulant`, "",
)

var greetingPattern = regexp.MustCompile(`^\W*(bonjour|bonsoir|salut|coucou|hello|hey|bjr)\b`)

// IsGreeting reports whether a message opens with a greeting.
func IsGreeting(text string) bool {
	return greetingPattern.MatchString(normalize(text))
}
