package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByID retrieves a doctor with their specialization preloaded.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// GetByName looks up a doctor for portal login.
	GetByName(ctx context.Context, name string) (*Doctor, error)

	// LoadsBySpecialization returns every available doctor in the named
	// specialization together with their Confirmed/Pending appointment
	// count on date, ordered by doctor ID for stable tie-breaking.
	LoadsBySpecialization(ctx context.Context, specialization string, date time.Time) ([]Load, error)

	// CountAppointmentsOnDate counts all appointments a doctor holds on
	// date regardless of status; used for slot cycling.
	CountAppointmentsOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (int, error)

	// ListSpecializations returns all specialization names sorted
	// alphabetically.
	ListSpecializations(ctx context.Context) ([]string, error)

	// Workloads aggregates per-doctor appointment counts for analytics.
	Workloads(ctx context.Context) ([]Workload, error)
}
