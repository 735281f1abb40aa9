package conversation

import (
	"strings"
	"unicode/utf8"
)

const (
	summaryMaxRunes  = 480
	summaryUserTurns = 3
	pointMaxRunes    = 120
)

// Summarize rebuilds the rolling digest from the known facts and the last
// few user messages. It is deterministic and stays internal.
func Summarize(rec *Record) string {
	var parts []string
	if pairs := rec.Facts.Pairs(); len(pairs) > 0 {
		rendered := make([]string, len(pairs))
		for i, p := range pairs {
			rendered[i] = p.String()
		}
		parts = append(parts, "faits: "+strings.Join(rendered, ", "))
	}

	var points []string
	for i := len(rec.History) - 1; i >= 0 && len(points) < summaryUserTurns; i-- {
		if rec.History[i].Role != RoleUser {
			continue
		}
		if p := clip(strings.Join(strings.Fields(rec.History[i].Text), " "), pointMaxRunes); p != "" {
			points = append(points, p)
		}
	}
	if len(points) > 0 {
		// Oldest first.
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
		parts = append(parts, "derniers messages: "+strings.Join(points, " / "))
	}
	return clip(strings.Join(parts, ". "), summaryMaxRunes)
}

func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
