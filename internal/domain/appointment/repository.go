package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// UpdateStatus persists a status flip performed on the entity.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// UpdateSchedule persists a reschedule (date and time only).
	UpdateSchedule(ctx context.Context, a *Appointment) error

	// Queue returns Confirmed/Pending appointments joined with patient,
	// symptom, diagnosis, doctor and specialization, ordered by urgency
	// descending, then date and time ascending.
	Queue(ctx context.Context, q *QueueQuery) ([]QueueEntry, error)

	// GetEntry returns the joined view for a single appointment.
	GetEntry(ctx context.Context, id uuid.UUID) (*QueueEntry, error)

	// List returns appointments matching the filter, most recent date
	// first.
	List(ctx context.Context, q *ListQuery) ([]QueueEntry, error)

	// DailyTrends returns per-day totals with urgency band breakdown
	// for the last N days.
	DailyTrends(ctx context.Context, days int) ([]TrendPoint, error)

	// UrgencyDistribution counts appointments per urgency level.
	UrgencyDistribution(ctx context.Context) ([]UrgencyCount, error)
}
