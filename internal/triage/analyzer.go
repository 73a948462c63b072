package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careqhq/careq/internal/domain/diagnosis"
	"go.uber.org/zap"
)

// Classifier is the external AI provider. Implementations return the
// raw model response text for a prompt.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

const promptTemplate = `You are a medical AI assistant analyzing patient symptoms for triage purposes.

PATIENT SYMPTOMS:
%s

Analyze these symptoms and provide a structured medical assessment.

RESPOND ONLY IN VALID JSON FORMAT (no markdown, no code blocks):
{
  "predicted_disease": "most likely medical condition",
  "probability": 75,
  "urgency_level": 7,
  "urgency_reason": "brief medical explanation for this urgency score",
  "secondary_conditions": [
    {"disease": "alternative diagnosis 1", "probability": 15},
    {"disease": "alternative diagnosis 2", "probability": 10}
  ]
}

URGENCY SCALE GUIDELINES:
1-2: Minor issues (common cold, mild allergies, routine check-up needed)
3-4: Non-urgent but requires attention (chronic pain, skin rash, minor infections)
5-6: Moderate priority (persistent fever, severe headache, respiratory infection)
7-8: High priority - needs same-day attention (chest discomfort, severe pain, difficulty breathing)
9-10: CRITICAL EMERGENCY (heart attack symptoms, stroke signs, severe trauma, uncontrolled bleeding)

Consider severity, duration, and potential complications when assigning urgency.`

// result mirrors the JSON shape the classifier is instructed to return.
type result struct {
	PredictedDisease    *string                        `json:"predicted_disease"`
	Probability         *float64                       `json:"probability"`
	UrgencyLevel        *int                           `json:"urgency_level"`
	UrgencyReason       string                         `json:"urgency_reason"`
	SecondaryConditions []diagnosis.SecondaryCondition `json:"secondary_conditions"`
}

// Analyzer wraps the AI classifier with strict response parsing, range
// clamping and the keyword fallback. Analyze always returns a usable
// diagnosis; classifier failures never propagate to the caller.
type Analyzer struct {
	classifier Classifier
	log        *zap.Logger
}

func NewAnalyzer(classifier Classifier, log *zap.Logger) *Analyzer {
	return &Analyzer{classifier: classifier, log: log}
}

func (a *Analyzer) Analyze(ctx context.Context, symptomText string) *diagnosis.Diagnosis {
	if a.classifier == nil {
		return Fallback(symptomText)
	}

	raw, err := a.classifier.Classify(ctx, fmt.Sprintf(promptTemplate, symptomText))
	if err != nil {
		a.log.Warn("symptom classifier unreachable, using keyword fallback", zap.Error(err))
		return Fallback(symptomText)
	}

	d, err := parseResponse(raw)
	if err != nil {
		a.log.Warn("unusable classifier response, using keyword fallback",
			zap.Error(err),
			zap.String("response_prefix", prefix(raw, 200)),
		)
		return Fallback(symptomText)
	}

	return d
}

// parseResponse decodes the classifier output into a clamped diagnosis.
// The response may be wrapped in fenced code-block markup.
func parseResponse(raw string) (*diagnosis.Diagnosis, error) {
	cleaned := stripCodeFences(raw)

	var r result
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, fmt.Errorf("decoding classifier response: %w", err)
	}

	if r.PredictedDisease == nil || *r.PredictedDisease == "" {
		return nil, fmt.Errorf("missing required field: predicted_disease")
	}
	if r.Probability == nil {
		return nil, fmt.Errorf("missing required field: probability")
	}
	if r.UrgencyLevel == nil {
		return nil, fmt.Errorf("missing required field: urgency_level")
	}

	d := &diagnosis.Diagnosis{
		PredictedDisease:    *r.PredictedDisease,
		Probability:         *r.Probability,
		UrgencyLevel:        *r.UrgencyLevel,
		UrgencyReason:       strings.TrimSpace(r.UrgencyReason),
		SecondaryConditions: r.SecondaryConditions,
	}
	d.Clamp()

	if d.UrgencyReason == "" {
		d.UrgencyReason = fmt.Sprintf("Urgency level %d based on symptom analysis", d.UrgencyLevel)
	}
	if d.SecondaryConditions == nil {
		d.SecondaryConditions = []diagnosis.SecondaryCondition{}
	}
	if len(d.SecondaryConditions) > 2 {
		d.SecondaryConditions = d.SecondaryConditions[:2]
	}

	return d, nil
}

// stripCodeFences removes enclosing ```json ... ``` or ``` ... ```
// markup some models emit despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
