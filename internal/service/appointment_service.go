package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/doctor"
	"github.com/careqhq/careq/internal/scheduling"
	"github.com/careqhq/careq/pkg/metrics"
)

type AppointmentService struct {
	repo     appointment.Repository
	doctors  doctor.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewAppointmentService(repo appointment.Repository, doctors doctor.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		doctors:  doctors,
		auditSvc: auditSvc,
		metrics:  collector,
		log:      log,
	}
}

// Queue returns the urgency-ordered triage queue. Filters combine with
// AND; reading the queue never mutates ordering, so repeated calls over
// unchanged data return identical sequences.
func (s *AppointmentService) Queue(ctx context.Context, q *appointment.QueueQuery) ([]appointment.QueueEntry, error) {
	if q == nil {
		q = &appointment.QueueQuery{}
	}
	if q.Band != nil && !q.Band.IsValid() {
		return nil, &ValidationError{Fields: []string{"urgency band must be High, Medium or Low"}}
	}
	return s.repo.Queue(ctx, q)
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// GetEntry returns the fully joined view of a single appointment.
func (s *AppointmentService) GetEntry(ctx context.Context, id uuid.UUID) (*appointment.QueueEntry, error) {
	return s.repo.GetEntry(ctx, id)
}

// ListByPatient returns a patient's appointments, most recent first.
func (s *AppointmentService) ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]appointment.QueueEntry, error) {
	return s.repo.List(ctx, &appointment.ListQuery{PatientID: &patientID, Limit: normalizeLimit(limit)})
}

// ListByDoctor returns a doctor's appointments, optionally narrowed to
// one date, most urgent first within the date.
func (s *AppointmentService) ListByDoctor(ctx context.Context, doctorID uuid.UUID, date *time.Time, limit int) ([]appointment.QueueEntry, error) {
	return s.repo.List(ctx, &appointment.ListQuery{DoctorID: &doctorID, Date: date, Limit: normalizeLimit(limit)})
}

// Cancel releases the slot. Cancelled appointments stop counting toward
// the doctor's daily capacity immediately.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, performedBy string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	old := a.Status
	if err := a.Cancel(); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		s.log.Error("failed to cancel appointment", zap.Error(err))
		return fmt.Errorf("cancelling appointment: %w", err)
	}

	s.metrics.AppointmentsTotal.WithLabelValues(string(appointment.StatusCancelled)).Inc()
	s.auditSvc.LogAsync(AuditEntry{
		Action:      string(domain.ActionUpdate),
		Table:       appointment.Appointment{}.TableName(),
		RecordID:    id.String(),
		PerformedBy: performedBy,
		OldValues:   string(old),
		NewValues:   string(appointment.StatusCancelled),
	})

	s.log.Info("appointment cancelled",
		zap.String("appointment_id", id.String()),
		zap.String("previous_status", string(old)),
	)

	return nil
}

// Reschedule moves an active appointment to a new slot on the target
// date, keeping the doctor. The slot is regenerated from the doctor's
// load on that date so the appointment lands in its urgency band.
func (s *AppointmentService) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, performedBy string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.doctors.CountAppointmentsOnDate(ctx, a.DoctorID, date)
	if err != nil {
		return nil, fmt.Errorf("counting doctor appointments: %w", err)
	}

	slot := scheduling.GenerateSlot(a.UrgencyLevel, count)
	oldDate, oldTime := a.Date, a.Time

	if err := a.Reschedule(date, slot.String()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSchedule(ctx, a); err != nil {
		s.log.Error("failed to reschedule appointment", zap.Error(err))
		return nil, fmt.Errorf("rescheduling appointment: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Action:      string(domain.ActionUpdate),
		Table:       appointment.Appointment{}.TableName(),
		RecordID:    id.String(),
		PerformedBy: performedBy,
		OldValues:   fmt.Sprintf("%s %s", oldDate.Format("2006-01-02"), oldTime),
		NewValues:   fmt.Sprintf("%s %s", a.Date.Format("2006-01-02"), a.Time),
		Description: "appointment rescheduled",
	})

	return a, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
