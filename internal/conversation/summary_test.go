package conversation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/aiox-platform/intake/internal/facts"
)

func TestSummarize(t *testing.T) {
	rec := &Record{
		Facts: facts.Facts{
			Intervention: facts.Some("rhinoplastie"),
			Timing:       facts.Some(facts.TimingUrgent),
		},
		History: []Turn{
			{Role: RoleUser, Text: "Bonjour"},
			{Role: RoleAssistant, Text: "Bonjour !"},
			{Role: RoleUser, Text: "Je voudrais  une\nrhinoplastie"},
		},
	}

	assert.Equal(t,
		"faits: intervention=rhinoplastie, timing=urgent. derniers messages: Bonjour / Je voudrais une rhinoplastie",
		Summarize(rec))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(&Record{}))
}

func TestSummarize_Bounded(t *testing.T) {
	long := strings.Repeat("très long message ", 50)
	rec := &Record{History: []Turn{
		{Role: RoleUser, Text: long},
		{Role: RoleUser, Text: long},
		{Role: RoleUser, Text: long},
		{Role: RoleUser, Text: long},
	}}

	got := Summarize(rec)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), summaryMaxRunes)
	assert.Equal(t, 3, strings.Count(got, "…"))
}

func TestRecord_Recent(t *testing.T) {
	rec := &Record{History: []Turn{
		{Role: RoleUser, Text: "a"},
		{Role: RoleUser, Text: "b"},
		{Role: RoleAssistant, Text: "c"},
	}}
	assert.Len(t, rec.Recent(2), 2)
	assert.Equal(t, "b", rec.Recent(2)[0].Text)
	assert.Len(t, rec.Recent(10), 3)
	assert.Equal(t, "b", rec.LastUserText())
}
