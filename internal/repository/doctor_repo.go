package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/doctor"
)

type doctorRepo struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) doctor.Repository {
	return &doctorRepo{db: db}
}

func (r *doctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).
		Preload("Specialization").
		First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying doctor: %w", err)
	}
	return &d, nil
}

func (r *doctorRepo) GetByName(ctx context.Context, name string) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).
		Preload("Specialization").
		First(&d, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying doctor by name: %w", err)
	}
	return &d, nil
}

func (r *doctorRepo) LoadsBySpecialization(ctx context.Context, specialization string, date time.Time) ([]doctor.Load, error) {
	var doctors []doctor.Doctor
	err := r.db.WithContext(ctx).
		Joins("JOIN specializations ON specializations.id = doctors.specialization_id").
		Where("specializations.name = ? AND doctors.available = ?", specialization, true).
		Preload("Specialization").
		Order("doctors.id ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("querying doctors by specialization: %w", err)
	}

	loads := make([]doctor.Load, 0, len(doctors))
	for _, d := range doctors {
		var count int64
		err := r.db.WithContext(ctx).
			Model(&appointment.Appointment{}).
			Where("doctor_id = ? AND appointment_date = ? AND status IN ?",
				d.ID, date.Format("2006-01-02"),
				[]appointment.Status{appointment.StatusConfirmed, appointment.StatusPending}).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("counting appointments for doctor %s: %w", d.ID, err)
		}
		loads = append(loads, doctor.Load{Doctor: d, AppointmentCount: int(count)})
	}

	return loads, nil
}

func (r *doctorRepo) CountAppointmentsOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ?", doctorID, date.Format("2006-01-02")).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting doctor appointments: %w", err)
	}
	return int(count), nil
}

func (r *doctorRepo) ListSpecializations(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&doctor.Specialization{}).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("listing specializations: %w", err)
	}
	return names, nil
}

func (r *doctorRepo) Workloads(ctx context.Context) ([]doctor.Workload, error) {
	var workloads []doctor.Workload
	err := r.db.WithContext(ctx).
		Table("doctors").
		Select(`doctors.name AS doctor_name,
			specializations.name AS specialization,
			COUNT(appointments.id) AS total,
			COUNT(appointments.id) FILTER (WHERE appointments.status = 'Confirmed') AS confirmed,
			COUNT(appointments.id) FILTER (WHERE appointments.status = 'Completed') AS completed,
			COUNT(appointments.id) FILTER (WHERE appointments.status = 'Cancelled') AS cancelled,
			COALESCE(AVG(appointments.urgency_level), 0) AS avg_urgency`).
		Joins("JOIN specializations ON specializations.id = doctors.specialization_id").
		Joins("LEFT JOIN appointments ON appointments.doctor_id = doctors.id").
		Group("doctors.id, doctors.name, specializations.name").
		Order("total DESC").
		Scan(&workloads).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating doctor workloads: %w", err)
	}
	return workloads, nil
}
