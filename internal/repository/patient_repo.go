package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careqhq/careq/internal/domain/patient"
)

type patientRepo struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) patient.Repository {
	return &patientRepo{db: db}
}

func (r *patientRepo) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return patient.ErrPhoneAlreadyExists
		}
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

func (r *patientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying patient: %w", err)
	}
	return &p, nil
}

func (r *patientRepo) GetByPhone(ctx context.Context, phone string) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying patient by phone: %w", err)
	}
	return &p, nil
}

func (r *patientRepo) UpdateAllergies(ctx context.Context, id uuid.UUID, allergies string) error {
	res := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Where("id = ?", id).
		Update("allergies", allergies)
	if res.Error != nil {
		return fmt.Errorf("updating allergies: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (r *patientRepo) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("setting password hash: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (r *patientRepo) List(ctx context.Context, limit int) ([]*patient.Patient, error) {
	var patients []*patient.Patient
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepo) Statistics(ctx context.Context) (*patient.Statistics, error) {
	stats := &patient.Statistics{GenderDistribution: make(map[patient.Gender]int64)}

	if err := r.db.WithContext(ctx).Model(&patient.Patient{}).Count(&stats.TotalPatients).Error; err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}

	if stats.TotalPatients > 0 {
		if err := r.db.WithContext(ctx).
			Model(&patient.Patient{}).
			Select("COALESCE(AVG(age), 0)").
			Scan(&stats.AverageAge).Error; err != nil {
			return nil, fmt.Errorf("averaging patient age: %w", err)
		}
	}

	var rows []struct {
		Gender patient.Gender
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Select("gender, COUNT(*) AS count").
		Group("gender").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("grouping patients by gender: %w", err)
	}
	for _, row := range rows {
		stats.GenderDistribution[row.Gender] = row.Count
	}

	return stats, nil
}
