package facts

// input carries the raw message and its normalized form to every rule.
type input struct {
	raw  string
	text string
}

// rule fills one slot. It must only write through Option.SetIfAbsent.
type rule struct {
	slot  Slot
	apply func(in input, f *Facts) bool
}

// rules run in this order on every message. The order is also the tie-break
// when a message carries several candidates for different slots.
var rules = []rule{
	{SlotIntervention, func(in input, f *Facts) bool {
		v, ok := firstTerm(interventionVocab, in.text)
		return ok && f.Intervention.SetIfAbsent(v)
	}},
	{SlotObjective, func(in input, f *Facts) bool {
		v, ok := firstTerm(objectiveVocab, in.text)
		return ok && f.Objective.SetIfAbsent(v)
	}},
	{SlotBudget, func(in input, f *Facts) bool {
		b, ok := parseBudget(in.text)
		return ok && f.Budget.SetIfAbsent(b)
	}},
	{SlotTiming, func(in input, f *Facts) bool {
		t, ok := classifyTiming(in.text)
		return ok && f.Timing.SetIfAbsent(t)
	}},
	{SlotGivenName, func(in input, f *Facts) bool {
		n, ok := parseName(in.raw)
		return ok && f.Name.SetIfAbsent(n)
	}},
	{SlotAge, func(in input, f *Facts) bool {
		a, ok := parseAge(in.text)
		return ok && f.Age.SetIfAbsent(a)
	}},
	{SlotContact, func(in input, f *Facts) bool {
		c, ok := parseContact(in.raw, in.text)
		return ok && f.Contact.SetIfAbsent(c)
	}},
	{SlotMedical, func(in input, f *Facts) bool {
		s, ok := parseMedical(in.raw)
		return ok && f.MedicalNotes.SetIfAbsent(s)
	}},
}

// Extract updates f in place from one inbound message and returns the slots
// that were newly filled. Slots already set are never changed, so Extract is
// safe on partially populated facts and never fails.
func Extract(text string, f *Facts) []Slot {
	if f == nil || text == "" {
		return nil
	}
	in := input{raw: text, text: normalize(text)}

	var filled []Slot
	for _, r := range rules {
		// Skip the regex work once a slot is known.
		if slotSet(f, r.slot) {
			continue
		}
		if r.apply(in, f) {
			filled = append(filled, r.slot)
		}
	}
	return filled
}

func slotSet(f *Facts, slot Slot) bool {
	switch slot {
	case SlotIntervention:
		return f.Intervention.IsSet()
	case SlotObjective:
		return f.Objective.IsSet()
	case SlotBudget:
		return f.Budget.IsSet()
	case SlotTiming:
		return f.Timing.IsSet()
	case SlotGivenName, SlotFamilyName:
		return f.Name.IsSet()
	case SlotAge:
		return f.Age.IsSet()
	case SlotContact:
		return f.Contact.IsSet()
	case SlotMedical:
		return f.MedicalNotes.IsSet()
	}
	return false
}
