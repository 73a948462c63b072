package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPhoneAlreadyExists on duplicate phone.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByPhone looks up a returning patient by their phone number.
	GetByPhone(ctx context.Context, phone string) (*Patient, error)

	// UpdateAllergies replaces the patient's allergy text.
	UpdateAllergies(ctx context.Context, id uuid.UUID, allergies string) error

	// SetPasswordHash stores the portal credential hash.
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	// List returns the most recently registered patients, newest first.
	List(ctx context.Context, limit int) ([]*Patient, error)

	// Statistics aggregates demographics for the analytics dashboard.
	Statistics(ctx context.Context) (*Statistics, error)
}
