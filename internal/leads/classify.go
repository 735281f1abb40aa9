package leads

import "github.com/aiox-platform/intake/internal/facts"

// Category is the commercial priority derived from known facts. It is never
// stored; callers recompute it whenever they need it.
type Category string

const (
	Hot  Category = "HOT"
	Warm Category = "WARM"
	Cold Category = "COLD"
)

var Categories = []Category{Hot, Warm, Cold}

// Classify evaluates the rules in order and returns the first match.
//
//	HOT:  a budget is known and the timing is urgent or near-term.
//	WARM: a budget is known, or the timing is at most mid-term.
//	COLD: everything else.
func Classify(f facts.Facts) Category {
	hasBudget := f.Budget.IsSet()
	timing, hasTiming := f.Timing.Get()

	switch {
	case hasBudget && hasTiming && (timing == facts.TimingUrgent || timing == facts.TimingNearTerm):
		return Hot
	case hasBudget:
		return Warm
	case hasTiming && timing != facts.TimingLongTerm:
		return Warm
	default:
		return Cold
	}
}
