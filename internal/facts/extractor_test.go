package facts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_FirstMessage(t *testing.T) {
	var f Facts
	filled := Extract("Bonjour, je m'appelle Marie Dupont, je veux une rhinoplastie, budget 4000€, urgent", &f)

	assert.ElementsMatch(t, []Slot{SlotIntervention, SlotBudget, SlotTiming, SlotGivenName}, filled)

	intervention, ok := f.Intervention.Get()
	require.True(t, ok)
	assert.Equal(t, "rhinoplastie", intervention)

	name, ok := f.Name.Get()
	require.True(t, ok)
	assert.Equal(t, "Marie", name.Given)
	assert.Equal(t, "Dupont", name.Family)

	budget, ok := f.Budget.Get()
	require.True(t, ok)
	assert.Equal(t, 4000, budget.Amount)

	timing, ok := f.Timing.Get()
	require.True(t, ok)
	assert.Equal(t, TimingUrgent, timing)

	assert.False(t, f.Age.IsSet())
	assert.False(t, f.Contact.IsSet())
	assert.False(t, f.MedicalNotes.IsSet())
}

func TestExtract_FirstWriteWins(t *testing.T) {
	var f Facts
	Extract("je pense a une rhinoplastie, budget 3000€", &f)
	filled := Extract("finalement plutot une liposuccion avec un budget de 5000€", &f)

	assert.Empty(t, filled)
	intervention, _ := f.Intervention.Get()
	assert.Equal(t, "rhinoplastie", intervention)
	budget, _ := f.Budget.Get()
	assert.Equal(t, 3000, budget.Amount)
}

func TestExtract_AgeFilledLater(t *testing.T) {
	var f Facts
	Extract("Je m'appelle Julie Martin", &f)
	require.True(t, f.Name.IsSet())
	require.False(t, f.Age.IsSet())

	filled := Extract("j'ai 34 ans", &f)
	assert.Equal(t, []Slot{SlotAge}, filled)
	age, _ := f.Age.Get()
	assert.Equal(t, 34, age)

	Extract("ma soeur a 29 ans", &f)
	age, _ = f.Age.Get()
	assert.Equal(t, 34, age)

	name, _ := f.Name.Get()
	assert.Equal(t, Name{Given: "Julie", Family: "Martin"}, name)
}

func TestExtract_NoFacts(t *testing.T) {
	var f Facts
	assert.Empty(t, Extract("merci beaucoup !", &f))
	assert.Empty(t, Extract("", &f))
	assert.Nil(t, Extract("budget 3000€", nil))
	assert.True(t, f.Empty())
}

func TestTiming(t *testing.T) {
	tests := []struct {
		in   string
		want Timing
		ok   bool
	}{
		{"c'est urgent", TimingUrgent, true},
		{"le plus tôt possible", TimingUrgent, true},
		{"pas pour tout de suite", TimingLongTerm, true},
		{"je ne suis pas pressée", TimingLongTerm, true},
		{"c'est non urgent", TimingLongTerm, true},
		{"pas d'urgence", TimingLongTerm, true},
		{"dans les prochains jours", TimingUrgent, true},
		{"je voudrais le faire dans les prochains mois", TimingMidTerm, true},
		{"dans 2 mois", TimingNearTerm, true},
		{"d'ici six mois", TimingMidTerm, true},
		{"entre 3 à 6 mois", TimingMidTerm, true},
		{"dans 18 mois", TimingLongTerm, true},
		{"l'année prochaine", TimingLongTerm, true},
		{"dans deux ans", TimingLongTerm, true},
		{"bonjour", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := classifyTiming(normalize(tt.in))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
		ok   bool
	}{
		{"je m'appelle Marie Dupont, je veux", Name{Given: "Marie", Family: "Dupont"}, true},
		{"Je m’appelle Anne Sophie Leroy", Name{Given: "Anne Sophie", Family: "Leroy"}, true},
		{"moi c'est julie", Name{Given: "julie"}, true},
		{"je m'appelle Marie et j'ai 34 ans", Name{Given: "Marie"}, true},
		{"Je suis Jean Martin", Name{Given: "Jean", Family: "Martin"}, true},
		{"je suis intéressée par une rhinoplastie", Name{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseName(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAge(t *testing.T) {
	age, ok := parseAge(normalize("J'ai 42 ans"))
	assert.True(t, ok)
	assert.Equal(t, 42, age)

	_, ok = parseAge(normalize("je veux le faire dans 10 ans"))
	assert.False(t, ok)

	_, ok = parseAge(normalize("j'y pense depuis 20 ans"))
	assert.False(t, ok)
}

func TestParseContact(t *testing.T) {
	tests := []struct {
		in   string
		want Contact
		ok   bool
	}{
		{"mon mail: Marie.Dupont@Example.com", Contact{Channel: ChannelEmail, Value: "marie.dupont@example.com"}, true},
		{"appelez-moi au 06 12 34 56 78", Contact{Channel: ChannelPhone, Value: "0612345678"}, true},
		{"mon numéro +33 6 12 34 56 78", Contact{Channel: ChannelPhone, Value: "+33612345678"}, true},
		{"plutôt par WhatsApp", Contact{Channel: ChannelWhatsApp}, true},
		{"je m'appelle Marie", Contact{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseContact(tt.in, normalize(tt.in))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMedical(t *testing.T) {
	notes, ok := parseMedical("Bonjour. Je suis enceinte de 3 mois. Est-ce possible ?")
	assert.True(t, ok)
	assert.Equal(t, "Je suis enceinte de 3 mois", notes)

	_, ok = parseMedical("Aucun souci de santé")
	assert.False(t, ok)

	notes, ok = parseMedical("J'allaite encore mon bébé")
	assert.True(t, ok)
	assert.Equal(t, "J'allaite encore mon bébé", notes)

	_, ok = parseMedical("Ça allait bien la dernière fois")
	assert.False(t, ok)
}

func TestIsGreeting(t *testing.T) {
	assert.True(t, IsGreeting("Bonjour !"))
	assert.True(t, IsGreeting("  salut, ça va ?"))
	assert.False(t, IsGreeting("Je voudrais un devis"))
}

func TestFacts_Pairs(t *testing.T) {
	f := Facts{
		Intervention: Some("rhinoplastie"),
		Budget:       Some(Budget{Kind: BudgetMax, Amount: 4000}),
		Timing:       Some(TimingUrgent),
		Name:         Some(Name{Given: "Marie", Family: "Dupont"}),
	}
	var rendered []string
	for _, p := range f.Pairs() {
		rendered = append(rendered, p.String())
	}
	assert.Equal(t, []string{
		"intervention=rhinoplastie",
		"budget=max 4000€",
		"timing=urgent",
		"prenom=Marie",
		"nom=Dupont",
	}, rendered)
	assert.True(t, Facts{}.Empty())
}

func TestFacts_JSONKeepsUnsetSlots(t *testing.T) {
	f := Facts{Age: Some(30)}
	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"intervention":null`)
	assert.Contains(t, string(data), `"age":30`)

	var back Facts
	require.NoError(t, json.Unmarshal(data, &back))
	assert.False(t, back.Intervention.IsSet())
	age, ok := back.Age.Get()
	assert.True(t, ok)
	assert.Equal(t, 30, age)
}
