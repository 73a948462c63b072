package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careqhq/careq/internal/domain/symptom"
)

type symptomRepo struct {
	db *gorm.DB
}

func NewSymptomRepository(db *gorm.DB) symptom.Repository {
	return &symptomRepo{db: db}
}

func (r *symptomRepo) Create(ctx context.Context, s *symptom.Symptom) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("inserting symptom: %w", err)
	}
	return nil
}

func (r *symptomRepo) GetByID(ctx context.Context, id uuid.UUID) (*symptom.Symptom, error) {
	var s symptom.Symptom
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, symptom.ErrSymptomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying symptom: %w", err)
	}
	return &s, nil
}

func (r *symptomRepo) HistoryByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]symptom.HistoryEntry, error) {
	var entries []symptom.HistoryEntry
	err := r.db.WithContext(ctx).
		Table("symptoms").
		Select(`symptoms.id AS symptom_id,
			symptoms.symptom_text AS text,
			symptoms.submitted_at,
			COALESCE(diagnoses.predicted_disease, '') AS predicted_disease,
			COALESCE(diagnoses.urgency_level, 0) AS urgency_level`).
		Joins("LEFT JOIN diagnoses ON diagnoses.symptom_id = symptoms.id").
		Where("symptoms.patient_id = ?", patientID).
		Order("symptoms.submitted_at DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("querying symptom history: %w", err)
	}
	return entries, nil
}
