package prompt

import (
	"regexp"
	"strings"

	"github.com/aiox-platform/intake/internal/facts"
)

var factLinePattern = buildFactLinePattern()

func buildFactLinePattern() *regexp.Regexp {
	keys := make([]string, len(facts.AllSlots))
	for i, s := range facts.AllSlots {
		keys[i] = regexp.QuoteMeta(string(s))
	}
	return regexp.MustCompile(`(?i)^\W*(?:` + strings.Join(keys, "|") + `)\s*=`)
}

// Sanitize drops reply lines that echo internal context: the labelled
// sections of the instruction text or raw Key=Value fact lines. It reports
// false when nothing deliverable remains.
func Sanitize(reply string) (string, bool) {
	var kept []string
	for _, line := range strings.Split(reply, "\n") {
		if leaksContext(line) {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	out := strings.TrimSpace(strings.Join(kept, "\n"))
	return out, out != ""
}

func leaksContext(line string) bool {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(strings.TrimLeft(trimmed, "-*• "))
	for _, label := range []string{factsLabel, summaryLabel, reminderLabel} {
		if strings.HasPrefix(lower, strings.ToLower(strings.TrimSpace(label))) {
			return true
		}
	}
	return factLinePattern.MatchString(trimmed)
}
