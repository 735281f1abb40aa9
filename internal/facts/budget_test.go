package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Budget
		ok   bool
	}{
		{"k shorthand with currency", "mon budget est de 3k€", Budget{Kind: BudgetMax, Amount: 3000}, true},
		{"explicit range", "entre 2000 et 3000", Budget{Kind: BudgetRange, Min: 2000, Max: 3000}, true},
		{"decimal k ceiling", "max 1.5k", Budget{Kind: BudgetMax, Amount: 1500}, true},
		{"comma decimal k", "1,5k€ a peu pres", Budget{Kind: BudgetApprox, Amount: 1500}, true},
		{"suffix spreads to low bound", "entre 2 et 3k", Budget{Kind: BudgetRange, Min: 2000, Max: 3000}, true},
		{"inverted range", "entre 5000 et 3000 euros", Budget{Kind: BudgetRange, Min: 3000, Max: 5000}, true},
		{"spaced thousands", "environ 2 500 euros", Budget{Kind: BudgetApprox, Amount: 2500}, true},
		{"bare currency", "j'ai 4000 € de cote", Budget{Kind: BudgetApprox, Amount: 4000}, true},
		{"narrow no-break space thousands", "mon budget est de 3\u202f000 €", Budget{Kind: BudgetMax, Amount: 3000}, true},
		{"thin space thousands", "environ 2\u2009500 euros", Budget{Kind: BudgetApprox, Amount: 2500}, true},
		{"implausible amount", "budget 99999999999999999999999€", Budget{}, false},
		{"no number", "pas cher", Budget{}, false},
		{"number without marker", "j'ai 2 enfants", Budget{}, false},
		{"zero is not a budget", "budget 0", Budget{}, false},
		{"duration is not a budget", "budget flexible, dans 3 mois", Budget{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseBudget(normalize(tt.in))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	v, ok := parseAmount("3.000", false)
	assert.True(t, ok)
	assert.Equal(t, 3000, v)

	v, ok = parseAmount("2,5", true)
	assert.True(t, ok)
	assert.Equal(t, 2500, v)

	_, ok = parseAmount("20000", true)
	assert.False(t, ok)

	_, ok = parseAmount("abc", false)
	assert.False(t, ok)
}

func TestBudgetString(t *testing.T) {
	assert.Equal(t, "2000-3000€", Budget{Kind: BudgetRange, Min: 2000, Max: 3000}.String())
	assert.Equal(t, "max 4000€", Budget{Kind: BudgetMax, Amount: 4000}.String())
	assert.Equal(t, "~4000€", Budget{Kind: BudgetApprox, Amount: 4000}.String())
}
