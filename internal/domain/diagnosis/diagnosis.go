package diagnosis

import (
	"time"

	"github.com/google/uuid"
)

type SecondaryCondition struct {
	Disease     string  `json:"disease"`
	Probability float64 `json:"probability"`
}

// Diagnosis is the structured triage result for a symptom, one-to-one.
// Probability and urgency are clamped into range before persistence.
type Diagnosis struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	SymptomID uuid.UUID `gorm:"column:symptom_id;type:uuid;not null;uniqueIndex"`

	PredictedDisease string  `gorm:"column:predicted_disease;type:varchar(255);not null;index"`
	Probability      float64 `gorm:"column:probability;not null"`
	UrgencyLevel     int     `gorm:"column:urgency_level;not null;index"`
	UrgencyReason    string  `gorm:"column:urgency_reason;type:text"`

	SecondaryConditions []SecondaryCondition `gorm:"column:secondary_conditions;serializer:json"`

	// Fallback marks results produced by the keyword heuristic rather
	// than the AI classifier.
	Fallback bool `gorm:"column:fallback;default:false"`
}

func (Diagnosis) TableName() string {
	return "diagnoses"
}

// Clamp forces probability into [0,100] and urgency into [1,10].
func (d *Diagnosis) Clamp() {
	if d.Probability < 0 {
		d.Probability = 0
	}
	if d.Probability > 100 {
		d.Probability = 100
	}
	if d.UrgencyLevel < 1 {
		d.UrgencyLevel = 1
	}
	if d.UrgencyLevel > 10 {
		d.UrgencyLevel = 10
	}
}

// DiseaseFrequency aggregates diagnoses per predicted disease for the
// analytics dashboard.
type DiseaseFrequency struct {
	PredictedDisease string
	Occurrences      int64
	AvgUrgency       float64
	AvgConfidence    float64
}
