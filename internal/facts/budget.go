package facts

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// maxAmount bounds a believable budget; larger figures are discarded.
const maxAmount = 10_000_000

const numberPattern = `(\d{1,3}(?:[ .]\d{3})+(?:,\d+)?|\d+(?:[.,]\d+)?)`

var (
	budgetRangePattern = regexp.MustCompile(
		`\bentre\s+` + numberPattern + `\s*(k\b)?\s*(?:€|euros?\b|eur\b)?\s+et\s+` + numberPattern + `\s*(k\b)?`)
	budgetMaxPattern = regexp.MustCompile(
		`(?:\bmax(?:imum)?\b|\bplafond|\bbudget|\bjusqu'a|\bpas plus de)\D{0,20}?` + numberPattern + `\s*(k\b)?`)
	budgetAroundPattern = regexp.MustCompile(
		`(?:\benviron|\bautour de|~)\s*` + numberPattern + `\s*(k\b)?`)
	budgetCurrencyPattern = regexp.MustCompile(
		numberPattern + `\s*(k\b)?\s*(?:€|euros?\b|eur\b)`)

	thousandsPattern = regexp.MustCompile(`^\d{1,3}(?:[ .]\d{3})+(?:,\d+)?$`)
	durationSuffix   = regexp.MustCompile(`^\s*(?:mois|ans?\b|semaines?|jours?)`)
)

// parseBudget tries the budget shapes in priority order: explicit range,
// ceiling, then a bare amount. Fragments that do not parse to a positive
// amount are skipped.
func parseBudget(text string) (Budget, bool) {
	if m := budgetRangePattern.FindStringSubmatch(text); m != nil {
		if b, ok := rangeBudget(m[1], m[2], m[3], m[4]); ok {
			return b, true
		}
	}
	if v, ok := firstAmount(budgetMaxPattern, text); ok {
		return Budget{Kind: BudgetMax, Amount: v}, true
	}
	for _, p := range []*regexp.Regexp{budgetAroundPattern, budgetCurrencyPattern} {
		if v, ok := firstAmount(p, text); ok {
			return Budget{Kind: BudgetApprox, Amount: v}, true
		}
	}
	return Budget{}, false
}

// firstAmount returns the first match of p whose number parses and is not a
// duration ("dans 2 mois").
func firstAmount(p *regexp.Regexp, text string) (int, bool) {
	for _, loc := range p.FindAllStringSubmatchIndex(text, -1) {
		if durationSuffix.MatchString(text[loc[1]:]) {
			continue
		}
		num := text[loc[2]:loc[3]]
		thousands := loc[4] >= 0
		if v, ok := parseAmount(num, thousands); ok {
			return v, true
		}
	}
	return 0, false
}

func rangeBudget(lowRaw, lowK, highRaw, highK string) (Budget, bool) {
	low, ok := parseAmount(lowRaw, lowK != "")
	if !ok {
		return Budget{}, false
	}
	high, ok := parseAmount(highRaw, highK != "")
	if !ok {
		return Budget{}, false
	}
	// "entre 2 et 3k": the suffix applies to both bounds.
	if lowK == "" && highK != "" && low < 1000 && low*1000 <= high {
		low *= 1000
	}
	if low > high {
		low, high = high, low
	}
	return Budget{Kind: BudgetRange, Min: low, Max: high}, true
}

// parseAmount accepts "3000", "3 000", "3.000", "1.5" and "1,5"; thousands
// multiplies by 1000. Amounts above maxAmount do not parse.
func parseAmount(raw string, thousands bool) (int, bool) {
	s := strings.TrimSpace(raw)
	if thousandsPattern.MatchString(s) {
		s = strings.NewReplacer(" ", "", ".", "").Replace(s)
	}
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	if thousands {
		v *= 1000
	}
	if v > maxAmount {
		return 0, false
	}
	return int(math.Round(v)), true
}
