package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/internal/domain/doctor"
	"github.com/careqhq/careq/internal/domain/patient"
)

// TokenIssuer mints portal token pairs. Satisfied by auth.JWTManager.
type TokenIssuer interface {
	GenerateTokenPair(claims *domain.Claims) (*domain.TokenPair, error)
}

type AuthService struct {
	patients patient.Repository
	doctors  doctor.Repository
	tokens   TokenIssuer
	auditSvc *AuditService
	log      *zap.Logger
}

func NewAuthService(patients patient.Repository, doctors doctor.Repository, tokens TokenIssuer, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{
		patients: patients,
		doctors:  doctors,
		tokens:   tokens,
		auditSvc: auditSvc,
		log:      log,
	}
}

// LoginPatient authenticates a returning patient by phone and
// password. Lookup failures and bad passwords both map to
// ErrInvalidCredentials so the response does not leak which phone
// numbers are registered.
func (s *AuthService) LoginPatient(ctx context.Context, phone, password string) (*domain.TokenPair, error) {
	p, err := s.patients.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil, patient.ErrInvalidCredentials
		}
		return nil, err
	}
	if !p.HasPassword() {
		return nil, patient.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("patient login failed", zap.String("patient_id", p.ID.String()))
		return nil, patient.ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(&domain.Claims{
		SubjectID: p.ID,
		Name:      p.FullName,
		Role:      domain.RolePatient,
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(AuditEntry{
		Action:      string(domain.ActionLogin),
		Table:       patient.Patient{}.TableName(),
		RecordID:    p.ID.String(),
		PerformedBy: p.ID.String(),
	})

	return pair, nil
}

// LoginDoctor authenticates a doctor by name and password.
func (s *AuthService) LoginDoctor(ctx context.Context, name, password string) (*domain.TokenPair, error) {
	d, err := s.doctors.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, patient.ErrInvalidCredentials
		}
		return nil, err
	}
	if d.PasswordHash == "" {
		return nil, patient.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("doctor login failed", zap.String("doctor_id", d.ID.String()))
		return nil, patient.ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(&domain.Claims{
		SubjectID: d.ID,
		Name:      d.Name,
		Role:      domain.RoleDoctor,
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(AuditEntry{
		Action:      string(domain.ActionLogin),
		Table:       doctor.Doctor{}.TableName(),
		RecordID:    d.ID.String(),
		PerformedBy: d.ID.String(),
	})

	return pair, nil
}
