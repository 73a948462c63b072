package record

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateWithCompletion inserts the record with its prescriptions
	// and flips the appointment to Completed, all in one transaction.
	CreateWithCompletion(ctx context.Context, r *MedicalRecord) error

	// GetByAppointmentID returns the record with prescriptions
	// preloaded.
	GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*MedicalRecord, error)

	// AddPrescriptions appends lines to an existing record in one
	// transaction.
	AddPrescriptions(ctx context.Context, recordID uuid.UUID, lines []PrescriptionLine) error

	CreateFeedback(ctx context.Context, f *Feedback) error
	FeedbackExists(ctx context.Context, patientID, appointmentID uuid.UUID) (bool, error)

	// DoctorRating averages feedback across a doctor's appointments.
	DoctorRating(ctx context.Context, doctorID uuid.UUID) (*DoctorRating, error)
}
