package symptom

import (
	"time"

	"github.com/google/uuid"
)

// MinLength is the floor enforced at the service layer. The
// intake boundary applies a stricter configurable minimum.
const MinLength = 10

// Symptom is immutable once created.
type Symptom struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientID   uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	Text        string    `gorm:"column:symptom_text;type:text;not null"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime;index"`
}

func (Symptom) TableName() string {
	return "symptoms"
}

// HistoryEntry is a symptom joined with its diagnosis, if one exists,
// for the patient portal history view.
type HistoryEntry struct {
	SymptomID        uuid.UUID
	Text             string
	SubmittedAt      time.Time
	PredictedDisease string
	UrgencyLevel     int
}
