package facts

import (
	"fmt"
	"strconv"
)

// Slot names a single extracted fact. The order of AllSlots is the order in
// which facts are rendered.
type Slot string

const (
	SlotIntervention Slot = "intervention"
	SlotObjective    Slot = "objectif"
	SlotBudget       Slot = "budget"
	SlotTiming       Slot = "timing"
	SlotGivenName    Slot = "prenom"
	SlotFamilyName   Slot = "nom"
	SlotAge          Slot = "age"
	SlotContact      Slot = "contact"
	SlotMedical      Slot = "medical"
)

var AllSlots = []Slot{
	SlotIntervention,
	SlotObjective,
	SlotBudget,
	SlotTiming,
	SlotGivenName,
	SlotFamilyName,
	SlotAge,
	SlotContact,
	SlotMedical,
}

type BudgetKind string

const (
	BudgetRange  BudgetKind = "range"
	BudgetMax    BudgetKind = "max"
	BudgetApprox BudgetKind = "approx"
)

// Budget amounts are whole euros. Range budgets use Min/Max, the other kinds Amount.
type Budget struct {
	Kind   BudgetKind `json:"kind"`
	Min    int        `json:"min,omitempty"`
	Max    int        `json:"max,omitempty"`
	Amount int        `json:"amount,omitempty"`
}

func (b Budget) String() string {
	switch b.Kind {
	case BudgetRange:
		return fmt.Sprintf("%d-%d€", b.Min, b.Max)
	case BudgetMax:
		return fmt.Sprintf("max %d€", b.Amount)
	default:
		return fmt.Sprintf("~%d€", b.Amount)
	}
}

type Timing string

const (
	TimingUrgent   Timing = "urgent"
	TimingNearTerm Timing = "1-3 mois"
	TimingMidTerm  Timing = "3-12 mois"
	TimingLongTerm Timing = "long terme"
)

type Name struct {
	Given  string `json:"prenom,omitempty"`
	Family string `json:"nom,omitempty"`
}

type ContactChannel string

const (
	ChannelEmail    ContactChannel = "email"
	ChannelPhone    ContactChannel = "telephone"
	ChannelWhatsApp ContactChannel = "whatsapp"
	ChannelSMS      ContactChannel = "sms"
)

type Contact struct {
	Channel ContactChannel `json:"channel"`
	Value   string         `json:"value,omitempty"`
}

func (c Contact) String() string {
	if c.Value == "" {
		return string(c.Channel)
	}
	return string(c.Channel) + ":" + c.Value
}

// Facts is the structured state extracted from a conversation. Every slot is
// first-write-wins; Age is tracked apart from Name so it can be filled later.
type Facts struct {
	Intervention Option[string]  `json:"intervention"`
	Objective    Option[string]  `json:"objectif"`
	Budget       Option[Budget]  `json:"budget"`
	Timing       Option[Timing]  `json:"timing"`
	Name         Option[Name]    `json:"identite"`
	Age          Option[int]     `json:"age"`
	Contact      Option[Contact] `json:"contact"`
	MedicalNotes Option[string]  `json:"medical"`
}

// Pair is a rendered Key=Value fact.
type Pair struct {
	Key   Slot
	Value string
}

func (p Pair) String() string {
	return string(p.Key) + "=" + p.Value
}

// Pairs returns every known fact in AllSlots order.
func (f Facts) Pairs() []Pair {
	var pairs []Pair
	add := func(slot Slot, v string) {
		if v != "" {
			pairs = append(pairs, Pair{Key: slot, Value: v})
		}
	}
	for _, slot := range AllSlots {
		switch slot {
		case SlotIntervention:
			if v, ok := f.Intervention.Get(); ok {
				add(slot, v)
			}
		case SlotObjective:
			if v, ok := f.Objective.Get(); ok {
				add(slot, v)
			}
		case SlotBudget:
			if v, ok := f.Budget.Get(); ok {
				add(slot, v.String())
			}
		case SlotTiming:
			if v, ok := f.Timing.Get(); ok {
				add(slot, string(v))
			}
		case SlotGivenName:
			if v, ok := f.Name.Get(); ok {
				add(slot, v.Given)
			}
		case SlotFamilyName:
			if v, ok := f.Name.Get(); ok {
				add(slot, v.Family)
			}
		case SlotAge:
			if v, ok := f.Age.Get(); ok {
				add(slot, strconv.Itoa(v))
			}
		case SlotContact:
			if v, ok := f.Contact.Get(); ok {
				add(slot, v.String())
			}
		case SlotMedical:
			if v, ok := f.MedicalNotes.Get(); ok {
				add(slot, v)
			}
		}
	}
	return pairs
}

// Empty reports whether no slot is set.
func (f Facts) Empty() bool {
	return len(f.Pairs()) == 0
}
