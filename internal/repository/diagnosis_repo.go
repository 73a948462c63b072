package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careqhq/careq/internal/domain/diagnosis"
)

type diagnosisRepo struct {
	db *gorm.DB
}

func NewDiagnosisRepository(db *gorm.DB) diagnosis.Repository {
	return &diagnosisRepo{db: db}
}

func (r *diagnosisRepo) Create(ctx context.Context, d *diagnosis.Diagnosis) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("inserting diagnosis: %w", err)
	}
	return nil
}

func (r *diagnosisRepo) GetBySymptomID(ctx context.Context, symptomID uuid.UUID) (*diagnosis.Diagnosis, error) {
	var d diagnosis.Diagnosis
	err := r.db.WithContext(ctx).First(&d, "symptom_id = ?", symptomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, diagnosis.ErrDiagnosisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying diagnosis: %w", err)
	}
	return &d, nil
}

func (r *diagnosisRepo) DiseaseDistribution(ctx context.Context, limit int) ([]diagnosis.DiseaseFrequency, error) {
	var rows []diagnosis.DiseaseFrequency
	err := r.db.WithContext(ctx).
		Model(&diagnosis.Diagnosis{}).
		Select(`predicted_disease,
			COUNT(*) AS occurrences,
			AVG(urgency_level) AS avg_urgency,
			AVG(probability) AS avg_confidence`).
		Group("predicted_disease").
		Order("occurrences DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating disease distribution: %w", err)
	}
	return rows, nil
}
