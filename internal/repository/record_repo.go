package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/record"
)

type recordRepo struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) record.Repository {
	return &recordRepo{db: db}
}

func (r *recordRepo) CreateWithCompletion(ctx context.Context, rec *record.MedicalRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rec.RecordDate.IsZero() {
			rec.RecordDate = time.Now()
		}

		// Prescriptions ride along via the association.
		if err := tx.Create(rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return record.ErrRecordAlreadyExists
			}
			return fmt.Errorf("inserting medical record: %w", err)
		}

		res := tx.Model(&appointment.Appointment{}).
			Where("id = ? AND status IN ?", rec.AppointmentID,
				[]appointment.Status{appointment.StatusPending, appointment.StatusConfirmed}).
			Update("status", appointment.StatusCompleted)
		if res.Error != nil {
			return fmt.Errorf("completing appointment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return appointment.ErrInvalidStatusTransition
		}

		return nil
	})
}

func (r *recordRepo) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*record.MedicalRecord, error) {
	var rec record.MedicalRecord
	err := r.db.WithContext(ctx).
		Preload("Prescriptions").
		First(&rec, "appointment_id = ?", appointmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, record.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying medical record: %w", err)
	}
	return &rec, nil
}

func (r *recordRepo) AddPrescriptions(ctx context.Context, recordID uuid.UUID, lines []record.PrescriptionLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&record.MedicalRecord{}).Where("id = ?", recordID).Count(&count).Error; err != nil {
			return fmt.Errorf("checking medical record: %w", err)
		}
		if count == 0 {
			return record.ErrRecordNotFound
		}

		prescriptions := make([]record.Prescription, 0, len(lines))
		for _, line := range lines {
			prescriptions = append(prescriptions, record.Prescription{
				RecordID:     recordID,
				MedicineName: line.MedicineName,
				Dosage:       line.Dosage,
				Duration:     line.Duration,
			})
		}

		if err := tx.Create(&prescriptions).Error; err != nil {
			return fmt.Errorf("inserting prescriptions: %w", err)
		}
		return nil
	})
}

func (r *recordRepo) CreateFeedback(ctx context.Context, f *record.Feedback) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return record.ErrFeedbackAlreadyExists
		}
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

func (r *recordRepo) FeedbackExists(ctx context.Context, patientID, appointmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&record.Feedback{}).
		Where("patient_id = ? AND appointment_id = ?", patientID, appointmentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking feedback: %w", err)
	}
	return count > 0, nil
}

func (r *recordRepo) DoctorRating(ctx context.Context, doctorID uuid.UUID) (*record.DoctorRating, error) {
	var rating record.DoctorRating
	err := r.db.WithContext(ctx).
		Table("feedback").
		Select("COALESCE(AVG(feedback.rating), 0) AS avg_rating, COUNT(feedback.id) AS total_reviews").
		Joins("JOIN appointments ON appointments.id = feedback.appointment_id").
		Where("appointments.doctor_id = ?", doctorID).
		Scan(&rating).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating doctor rating: %w", err)
	}
	return &rating, nil
}
