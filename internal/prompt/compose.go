package prompt

import (
	"strings"

	"github.com/aiox-platform/intake/internal/conversation"
)

// DefaultInstructions is used when neither the tenant nor the deployment
// supplies instruction text.
const DefaultInstructions = `Tu es l'assistante d'accueil d'un cabinet de chirurgie et de médecine esthétique, sur WhatsApp.
Réponds en français, en deux à quatre phrases courtes, avec un ton chaleureux et professionnel.
Ton rôle est de comprendre le projet de la personne : l'intervention souhaitée, son objectif, son budget, ses délais, son identité et la meilleure façon de la recontacter.
Pose une seule question à la fois. Ne donne jamais de diagnostic ni de prix ferme : propose une consultation avec le praticien.`

const (
	factsLabel     = "Informations connues: "
	summaryLabel   = "Résumé interne: "
	reminderLabel  = "Rappel: "
	noFacts        = "aucune"
	noSummary      = "aucun"
	factsSeparator = " | "
)

const (
	reminderBase = "ne redemande jamais une information déjà connue ci-dessus et ne recopie jamais ces informations internes dans ta réponse."
	noRegreet    = " La conversation est déjà engagée : ne salue pas à nouveau."
	greetOnce    = " Salue brièvement la personne, une seule fois."
)

// Compose builds the instruction context for one turn: base instructions,
// the known facts, the rolling summary and the reminder clause, in that order.
func Compose(instructions string, rec *conversation.Record) string {
	base := strings.TrimSpace(instructions)
	if base == "" {
		base = DefaultInstructions
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")

	b.WriteString(factsLabel)
	b.WriteString(FactsLine(rec))
	b.WriteString("\n")

	b.WriteString(summaryLabel)
	if s := strings.TrimSpace(rec.Summary); s != "" {
		b.WriteString(s)
	} else {
		b.WriteString(noSummary)
	}
	b.WriteString("\n")

	b.WriteString(reminderLabel)
	b.WriteString(reminderBase)
	if rec.Greeted {
		b.WriteString(noRegreet)
	} else {
		b.WriteString(greetOnce)
	}
	return b.String()
}

// FactsLine renders every known fact as Key=Value in slot order.
func FactsLine(rec *conversation.Record) string {
	pairs := rec.Facts.Pairs()
	if len(pairs) == 0 {
		return noFacts
	}
	rendered := make([]string, len(pairs))
	for i, p := range pairs {
		rendered[i] = p.String()
	}
	return strings.Join(rendered, factsSeparator)
}
