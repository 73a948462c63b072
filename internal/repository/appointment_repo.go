package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careqhq/careq/internal/domain/appointment"
)

type appointmentRepo struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) appointment.Repository {
	return &appointmentRepo{db: db}
}

// queueColumns is the joined projection shared by Queue, GetEntry and
// List. The appointment code is a stable human-readable handle derived
// from the appointment ID.
const queueColumns = `appointments.id AS appointment_id,
	'APT-' || UPPER(LEFT(appointments.id::text, 8)) AS appointment_code,
	appointments.appointment_date AS date,
	appointments.appointment_time AS time,
	appointments.status,
	appointments.mode,
	appointments.urgency_level,
	patients.id AS patient_id,
	patients.full_name AS patient_name,
	patients.age,
	patients.gender,
	patients.phone,
	symptoms.symptom_text AS symptom_text,
	COALESCE(diagnoses.predicted_disease, '') AS predicted_disease,
	COALESCE(diagnoses.probability, 0) AS probability,
	COALESCE(diagnoses.urgency_reason, '') AS urgency_reason,
	doctors.id AS doctor_id,
	doctors.name AS doctor_name,
	doctors.qualification,
	specializations.name AS specialization`

func (r *appointmentRepo) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("appointments").
		Select(queueColumns).
		Joins("JOIN patients ON patients.id = appointments.patient_id").
		Joins("JOIN symptoms ON symptoms.id = appointments.symptom_id").
		Joins("LEFT JOIN diagnoses ON diagnoses.symptom_id = appointments.symptom_id").
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Joins("JOIN specializations ON specializations.id = doctors.specialization_id")
}

func (r *appointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying appointment: %w", err)
	}
	return &a, nil
}

func (r *appointmentRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Update("status", a.Status)
	if res.Error != nil {
		return fmt.Errorf("updating appointment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepo) UpdateSchedule(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"appointment_date": a.Date.Format("2006-01-02"),
			"appointment_time": a.Time,
		})
	if res.Error != nil {
		return fmt.Errorf("updating appointment schedule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepo) Queue(ctx context.Context, q *appointment.QueueQuery) ([]appointment.QueueEntry, error) {
	tx := r.joined(ctx).
		Where("appointments.status IN ?", []appointment.Status{
			appointment.StatusConfirmed, appointment.StatusPending,
		})

	if q.Date != nil {
		tx = tx.Where("appointments.appointment_date = ?", q.Date.Format("2006-01-02"))
	}
	if q.Band != nil {
		min, max := q.Band.Range()
		tx = tx.Where("appointments.urgency_level BETWEEN ? AND ?", min, max)
	}
	if q.Specialization != nil {
		tx = tx.Where("specializations.name = ?", *q.Specialization)
	}

	var entries []appointment.QueueEntry
	err := tx.
		Order("appointments.urgency_level DESC, appointments.appointment_date ASC, appointments.appointment_time ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("querying appointment queue: %w", err)
	}
	return entries, nil
}

func (r *appointmentRepo) GetEntry(ctx context.Context, id uuid.UUID) (*appointment.QueueEntry, error) {
	var entry appointment.QueueEntry
	res := r.joined(ctx).
		Where("appointments.id = ?", id).
		Limit(1).
		Scan(&entry)
	if res.Error != nil {
		return nil, fmt.Errorf("querying appointment entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, appointment.ErrAppointmentNotFound
	}
	return &entry, nil
}

func (r *appointmentRepo) List(ctx context.Context, q *appointment.ListQuery) ([]appointment.QueueEntry, error) {
	tx := r.joined(ctx)

	if q.PatientID != nil {
		tx = tx.Where("appointments.patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("appointments.doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		tx = tx.Where("appointments.status = ?", *q.Status)
	}
	if q.Date != nil {
		tx = tx.Where("appointments.appointment_date = ?", q.Date.Format("2006-01-02"))
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var entries []appointment.QueueEntry
	err := tx.
		Order("appointments.appointment_date DESC, appointments.urgency_level DESC, appointments.appointment_time ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return entries, nil
}

func (r *appointmentRepo) DailyTrends(ctx context.Context, days int) ([]appointment.TrendPoint, error) {
	var points []appointment.TrendPoint
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Select(`appointment_date AS date,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE urgency_level >= 8) AS high,
			COUNT(*) FILTER (WHERE urgency_level BETWEEN 4 AND 7) AS medium,
			COUNT(*) FILTER (WHERE urgency_level <= 3) AS low`).
		Where("appointment_date >= CURRENT_DATE - ?::int", days).
		Group("appointment_date").
		Order("appointment_date ASC").
		Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating daily trends: %w", err)
	}
	return points, nil
}

func (r *appointmentRepo) UrgencyDistribution(ctx context.Context) ([]appointment.UrgencyCount, error) {
	var counts []appointment.UrgencyCount
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Select("urgency_level, COUNT(*) AS count").
		Group("urgency_level").
		Order("urgency_level DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating urgency distribution: %w", err)
	}
	return counts, nil
}
