package diagnosis

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Diagnosis) error
	GetBySymptomID(ctx context.Context, symptomID uuid.UUID) (*Diagnosis, error)

	// DiseaseDistribution returns the most frequent predicted diseases,
	// most common first.
	DiseaseDistribution(ctx context.Context, limit int) ([]DiseaseFrequency, error)
}
