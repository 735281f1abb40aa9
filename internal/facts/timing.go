package facts

import (
	"regexp"
	"strconv"
)

var wordNumbers = map[string]int{
	"un": 1, "une": 1, "deux": 2, "trois": 3, "quatre": 4, "cinq": 5, "six": 6,
	"sept": 7, "huit": 8, "neuf": 9, "dix": 10, "onze": 11, "douze": 12,
}

type timingPhrase struct {
	pattern *regexp.Regexp
	timing  Timing
}

func phrases(timing Timing, patterns ...string) []timingPhrase {
	out := make([]timingPhrase, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, timingPhrase{pattern: regexp.MustCompile(p), timing: timing})
	}
	return out
}

// Negations are listed first so "pas pour tout de suite" never reads as urgent.
var timingPhrases = concat(
	phrases(TimingLongTerm,
		`\bpas pour tout de suite\b`, `\bpas (?:tres |trop )?presse`, `\brien d'urgent\b`,
		`\bpas urgent`, `\bnon urgent`, `\bpas d'urgence\b`, `\bpas avant l'annee prochaine\b`),
	phrases(TimingUrgent,
		`\burgen`, `\bau plus vite\b`, `\bdes que possible\b`, `\basap\b`,
		`\ble plus (?:tot|vite) possible\b`, `\btout de suite\b`, `\brapidement\b`,
		`\bcette semaine\b`, `\bla semaine prochaine\b`, `\bdans les (?:prochains )?jours\b`),
	phrases(TimingNearTerm,
		`\ble mois prochain\b`, `\bce mois(?:-ci)?\b`, `\bprochaines semaines\b`, `\bd'ici (?:peu|quelques semaines)\b`),
	phrases(TimingMidTerm,
		`\bcette annee\b`, `\bd'ici la fin de l'annee\b`, `\bdans l'annee\b`, `\bd'ici l'ete\b`, `\bprochains mois\b`),
	phrases(TimingLongTerm,
		`\bl'annee prochaine\b`, `\bplus tard\b`, `\bun jour\b`, `\bdans quelques annees\b`),
)

var (
	monthRangePattern = regexp.MustCompile(`\b(\d{1,2})\s*(?:a|-)\s*(\d{1,2})\s*mois\b`)
	monthsPattern     = regexp.MustCompile(`\b(\d{1,2}|une?|deux|trois|quatre|cinq|six|sept|huit|neuf|dix|onze|douze)\s+mois\b`)
	yearsPattern      = regexp.MustCompile(`\b(?:dans|d'ici|sous)\s+(\d{1,2}|une?|deux|trois)\s+ans?\b`)
)

func concat(groups ...[]timingPhrase) []timingPhrase {
	var out []timingPhrase
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// classifyTiming maps text to a timing bucket. Fixed phrases win over
// explicit month counts; the first match in list order is kept.
func classifyTiming(text string) (Timing, bool) {
	for _, p := range timingPhrases {
		if p.pattern.MatchString(text) {
			return p.timing, true
		}
	}
	if m := monthRangePattern.FindStringSubmatch(text); m != nil {
		if n, ok := countOf(m[2]); ok {
			return timingForMonths(n), true
		}
	}
	if m := monthsPattern.FindStringSubmatch(text); m != nil {
		if n, ok := countOf(m[1]); ok {
			return timingForMonths(n), true
		}
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		if _, ok := countOf(m[1]); ok {
			return TimingLongTerm, true
		}
	}
	return "", false
}

func timingForMonths(n int) Timing {
	switch {
	case n <= 0:
		return TimingUrgent
	case n <= 3:
		return TimingNearTerm
	case n <= 12:
		return TimingMidTerm
	default:
		return TimingLongTerm
	}
}

func countOf(s string) (int, bool) {
	if n, ok := wordNumbers[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
