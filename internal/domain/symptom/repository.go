package symptom

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Symptom) error
	GetByID(ctx context.Context, id uuid.UUID) (*Symptom, error)

	// HistoryByPatient returns the patient's symptoms newest first,
	// each joined with its diagnosis when one exists.
	HistoryByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]HistoryEntry, error)
}
