package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/internal/domain/patient"
	"github.com/careqhq/careq/internal/domain/symptom"
)

type PatientService struct {
	repo     patient.Repository
	symptoms symptom.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, symptoms symptom.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		symptoms: symptoms,
		auditSvc: auditSvc,
		log:      log,
	}
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) GetByPhone(ctx context.Context, phone string) (*patient.Patient, error) {
	return s.repo.GetByPhone(ctx, strings.TrimSpace(phone))
}

func (s *PatientService) ListPatients(ctx context.Context, limit int) ([]*patient.Patient, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit)
}

// UpdateAllergies replaces the patient's allergy text. Callers must be
// the patient themselves; the handler enforces that via claims.
func (s *PatientService) UpdateAllergies(ctx context.Context, id uuid.UUID, allergies string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	old := p.Allergies
	if err := s.repo.UpdateAllergies(ctx, id, strings.TrimSpace(allergies)); err != nil {
		s.log.Error("failed to update allergies", zap.Error(err))
		return fmt.Errorf("updating allergies: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Action:    string(domain.ActionUpdate),
		Table:     patient.Patient{}.TableName(),
		RecordID:  id.String(),
		OldValues: old,
		NewValues: allergies,
	})

	return nil
}

// SetPassword sets up portal access for a returning patient. It is a
// one-time operation; once a hash exists the patient must log in.
func (s *PatientService) SetPassword(ctx context.Context, phone, password string) error {
	if len(password) < 8 {
		return &ValidationError{Fields: []string{"password must be at least 8 characters"}}
	}

	p, err := s.repo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return err
	}
	if p.HasPassword() {
		return patient.ErrPasswordAlreadySet
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.repo.SetPasswordHash(ctx, p.ID, string(hash)); err != nil {
		return fmt.Errorf("storing password hash: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Action:      string(domain.ActionUpdate),
		Table:       patient.Patient{}.TableName(),
		RecordID:    p.ID.String(),
		Description: "portal password set",
	})

	return nil
}

// SymptomHistory returns the patient's past symptom submissions joined
// with their diagnoses, newest first.
func (s *PatientService) SymptomHistory(ctx context.Context, patientID uuid.UUID, limit int) ([]symptom.HistoryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	return s.symptoms.HistoryByPatient(ctx, patientID, limit)
}

func (s *PatientService) Statistics(ctx context.Context) (*patient.Statistics, error) {
	return s.repo.Statistics(ctx)
}
