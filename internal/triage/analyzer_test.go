package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockClassifier implements Classifier for testing.
type mockClassifier struct {
	response string
	err      error
}

func (m *mockClassifier) Classify(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestAnalyze_ValidResponse(t *testing.T) {
	mock := &mockClassifier{
		response: `{"predicted_disease":"Migraine","probability":80,"urgency_level":4,"urgency_reason":"Recurring headache pattern","secondary_conditions":[{"disease":"Tension headache","probability":15}]}`,
	}
	a := NewAnalyzer(mock, zap.NewNop())

	d := a.Analyze(context.Background(), "throbbing headache on one side for two days")

	require.NotNil(t, d)
	assert.Equal(t, "Migraine", d.PredictedDisease)
	assert.Equal(t, 80.0, d.Probability)
	assert.Equal(t, 4, d.UrgencyLevel)
	assert.Equal(t, "Recurring headache pattern", d.UrgencyReason)
	assert.Len(t, d.SecondaryConditions, 1)
	assert.False(t, d.Fallback)
}

func TestAnalyze_CodeFencedResponse(t *testing.T) {
	mock := &mockClassifier{
		response: "```json\n{\"predicted_disease\":\"Influenza\",\"probability\":70,\"urgency_level\":5,\"urgency_reason\":\"Fever with body aches\"}\n```",
	}
	a := NewAnalyzer(mock, zap.NewNop())

	d := a.Analyze(context.Background(), "fever and body aches since yesterday")

	assert.Equal(t, "Influenza", d.PredictedDisease)
	assert.Equal(t, 5, d.UrgencyLevel)
	assert.False(t, d.Fallback)
}

func TestAnalyze_ClampsOutOfRangeValues(t *testing.T) {
	mock := &mockClassifier{
		response: `{"predicted_disease":"Hypertension","probability":150,"urgency_level":-3,"urgency_reason":"x"}`,
	}
	a := NewAnalyzer(mock, zap.NewNop())

	d := a.Analyze(context.Background(), "feeling dizzy")

	assert.Equal(t, 100.0, d.Probability)
	assert.Equal(t, 1, d.UrgencyLevel)
}

func TestAnalyze_SynthesizesMissingReason(t *testing.T) {
	mock := &mockClassifier{
		response: `{"predicted_disease":"Gastritis","probability":60,"urgency_level":4}`,
	}
	a := NewAnalyzer(mock, zap.NewNop())

	d := a.Analyze(context.Background(), "stomach discomfort after meals")

	assert.Equal(t, "Urgency level 4 based on symptom analysis", d.UrgencyReason)
	assert.NotNil(t, d.SecondaryConditions)
}

func TestAnalyze_CapsSecondaryConditions(t *testing.T) {
	mock := &mockClassifier{
		response: `{"predicted_disease":"Bronchitis","probability":55,"urgency_level":5,"urgency_reason":"x","secondary_conditions":[{"disease":"a","probability":20},{"disease":"b","probability":15},{"disease":"c","probability":10}]}`,
	}
	a := NewAnalyzer(mock, zap.NewNop())

	d := a.Analyze(context.Background(), "persistent cough")

	assert.Len(t, d.SecondaryConditions, 2)
}

func TestAnalyze_FallbackPaths(t *testing.T) {
	tests := []struct {
		name       string
		classifier Classifier
	}{
		{name: "classifier error", classifier: &mockClassifier{err: errors.New("deadline exceeded")}},
		{name: "invalid json", classifier: &mockClassifier{response: "I am sorry, I cannot help with that."}},
		{name: "missing urgency_level", classifier: &mockClassifier{response: `{"predicted_disease":"Flu","probability":60}`}},
		{name: "missing predicted_disease", classifier: &mockClassifier{response: `{"probability":60,"urgency_level":5}`}},
		{name: "no classifier configured", classifier: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(tt.classifier, zap.NewNop())

			d := a.Analyze(context.Background(), "mild cough for a week")

			require.NotNil(t, d)
			assert.True(t, d.Fallback)
			assert.Equal(t, 50.0, d.Probability)
			assert.Equal(t, 5, d.UrgencyLevel) // "cough" is a moderate keyword
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fences", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "leading whitespace", in: "  \n```json\n{\"a\":1}\n```  ", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}
