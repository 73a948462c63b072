package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/record"
	"github.com/careqhq/careq/pkg/metrics"
)

type RecordService struct {
	repo         record.Repository
	appointments appointment.Repository
	auditSvc     *AuditService
	metrics      *metrics.Collector
	log          *zap.Logger
}

func NewRecordService(repo record.Repository, appointments appointment.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *RecordService {
	return &RecordService{
		repo:         repo,
		appointments: appointments,
		auditSvc:     auditSvc,
		metrics:      collector,
		log:          log,
	}
}

// CreateRecord files a medical record for an appointment and completes
// it. The record insert, prescription inserts and the status flip
// happen in one transaction; a Completed or Cancelled appointment
// cannot receive a record.
func (s *RecordService) CreateRecord(ctx context.Context, cmd *record.CreateRecordCommand, performedBy string) (*record.MedicalRecord, error) {
	if strings.TrimSpace(cmd.Diagnosis) == "" {
		return nil, record.ErrDiagnosisRequired
	}

	a, err := s.appointments.GetByID(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !a.CanTransitionTo(appointment.StatusCompleted) {
		return nil, appointment.ErrInvalidStatusTransition
	}

	r := &record.MedicalRecord{
		AppointmentID: cmd.AppointmentID,
		Diagnosis:     strings.TrimSpace(cmd.Diagnosis),
		Notes:         strings.TrimSpace(cmd.Notes),
	}
	for _, line := range cmd.Prescriptions {
		if strings.TrimSpace(line.MedicineName) == "" {
			return nil, &ValidationError{Fields: []string{"prescription medicine_name is required"}}
		}
		r.Prescriptions = append(r.Prescriptions, record.Prescription{
			MedicineName: strings.TrimSpace(line.MedicineName),
			Dosage:       strings.TrimSpace(line.Dosage),
			Duration:     strings.TrimSpace(line.Duration),
		})
	}

	if err := s.repo.CreateWithCompletion(ctx, r); err != nil {
		s.log.Error("failed to create medical record", zap.Error(err))
		return nil, err
	}

	s.metrics.RecordsFiledTotal.Inc()
	s.metrics.AppointmentsTotal.WithLabelValues(string(appointment.StatusCompleted)).Inc()

	s.auditSvc.LogAsync(AuditEntry{
		Action:      string(domain.ActionCreate),
		Table:       record.MedicalRecord{}.TableName(),
		RecordID:    r.ID.String(),
		PerformedBy: performedBy,
		Description: fmt.Sprintf("record filed for appointment %s, %d prescriptions", cmd.AppointmentID, len(r.Prescriptions)),
	})

	s.log.Info("medical record filed",
		zap.String("record_id", r.ID.String()),
		zap.String("appointment_id", cmd.AppointmentID.String()),
		zap.Int("prescriptions", len(r.Prescriptions)),
	)

	return r, nil
}

func (s *RecordService) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*record.MedicalRecord, error) {
	return s.repo.GetByAppointmentID(ctx, appointmentID)
}

// AddPrescriptions appends lines to an already-filed record.
func (s *RecordService) AddPrescriptions(ctx context.Context, recordID uuid.UUID, lines []record.PrescriptionLine, performedBy string) error {
	if len(lines) == 0 {
		return &ValidationError{Fields: []string{"at least one prescription line is required"}}
	}
	for _, line := range lines {
		if strings.TrimSpace(line.MedicineName) == "" {
			return &ValidationError{Fields: []string{"prescription medicine_name is required"}}
		}
	}

	if err := s.repo.AddPrescriptions(ctx, recordID, lines); err != nil {
		return err
	}

	s.auditSvc.LogAsync(AuditEntry{
		Action:      string(domain.ActionUpdate),
		Table:       record.MedicalRecord{}.TableName(),
		RecordID:    recordID.String(),
		PerformedBy: performedBy,
		Description: fmt.Sprintf("%d prescriptions added", len(lines)),
	})

	return nil
}

// SubmitFeedback records a patient's rating of a completed
// appointment. One rating per patient and appointment.
func (s *RecordService) SubmitFeedback(ctx context.Context, patientID, appointmentID uuid.UUID, rating int, comment string) (*record.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, record.ErrInvalidRating
	}

	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.PatientID != patientID {
		return nil, ErrForbidden
	}
	if a.Status != appointment.StatusCompleted {
		return nil, &ValidationError{Fields: []string{"feedback is only accepted for completed appointments"}}
	}

	exists, err := s.repo.FeedbackExists(ctx, patientID, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("checking existing feedback: %w", err)
	}
	if exists {
		return nil, record.ErrFeedbackAlreadyExists
	}

	f := &record.Feedback{
		PatientID:     patientID,
		AppointmentID: appointmentID,
		Rating:        rating,
		Comment:       strings.TrimSpace(comment),
	}
	if err := s.repo.CreateFeedback(ctx, f); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(AuditEntry{
		Action:      string(domain.ActionCreate),
		Table:       record.Feedback{}.TableName(),
		RecordID:    f.ID.String(),
		PerformedBy: patientID.String(),
	})

	return f, nil
}

func (s *RecordService) DoctorRating(ctx context.Context, doctorID uuid.UUID) (*record.DoctorRating, error) {
	return s.repo.DoctorRating(ctx, doctorID)
}
