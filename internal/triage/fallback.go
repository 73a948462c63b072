package triage

import (
	"strings"

	"github.com/careqhq/careq/internal/domain/diagnosis"
)

// Keyword tiers for the deterministic fallback, most severe first. A
// symptom string matching multiple tiers resolves to the highest.
var (
	criticalKeywords = []string{
		"chest pain", "heart attack", "stroke", "bleeding",
		"unconscious", "seizure", "severe trauma",
	}
	highKeywords = []string{
		"severe pain", "high fever", "difficulty breathing",
		"vomiting blood", "cannot walk",
	}
	moderateKeywords = []string{
		"fever", "pain", "cough", "headache", "diarrhea",
	}
)

const fallbackNote = " (AI analysis unavailable - manual review required)"

// Fallback produces a keyword-based triage result when the AI
// classifier is unavailable or returns unusable output. Deterministic
// and side-effect-free; probability is fixed at 50.
func Fallback(symptomText string) *diagnosis.Diagnosis {
	lower := strings.ToLower(symptomText)

	var (
		urgency int
		disease string
		reason  string
	)

	switch {
	case matchesAny(lower, criticalKeywords):
		urgency = 9
		disease = "Emergency Medical Condition"
		reason = "Critical symptoms detected - immediate medical attention required"
	case matchesAny(lower, highKeywords):
		urgency = 7
		disease = "Acute Medical Condition"
		reason = "Severe symptoms - same-day medical consultation recommended"
	case matchesAny(lower, moderateKeywords):
		urgency = 5
		disease = "Medical Condition Requiring Evaluation"
		reason = "Moderate symptoms - consultation within 24-48 hours recommended"
	default:
		urgency = 3
		disease = "General Medical Consultation"
		reason = "Symptoms require professional evaluation"
	}

	return &diagnosis.Diagnosis{
		PredictedDisease:    disease,
		Probability:         50,
		UrgencyLevel:        urgency,
		UrgencyReason:       reason + fallbackNote,
		SecondaryConditions: []diagnosis.SecondaryCondition{},
		Fallback:            true,
	}
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
