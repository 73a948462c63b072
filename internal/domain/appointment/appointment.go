package appointment

import (
	"time"

	"github.com/google/uuid"
)

// State transitions:
//
//	Pending   → Confirmed | Completed | Cancelled
//	Confirmed → Completed | Cancelled
//	Completed, Cancelled → terminal
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether the appointment still occupies queue and
// capacity accounting.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Mode string

const (
	ModeOnline  Mode = "Online"
	ModeOffline Mode = "Offline"
)

func (m Mode) IsValid() bool {
	return m == ModeOnline || m == ModeOffline
}

// Appointment links a patient, doctor and symptom. UrgencyLevel is a
// denormalized copy of the diagnosis urgency taken at booking time so
// the queue can sort without joining on diagnoses.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`
	SymptomID uuid.UUID `gorm:"column:symptom_id;type:uuid;not null;index"`

	UrgencyLevel int       `gorm:"column:urgency_level;not null;index"`
	Date         time.Time `gorm:"column:appointment_date;type:date;not null;index"`
	Time         string    `gorm:"column:appointment_time;type:varchar(5);not null"`
	Mode         Mode      `gorm:"column:mode;type:varchar(10);not null;default:'Offline'"`
	Status       Status    `gorm:"column:status;type:varchar(20);not null;default:'Pending';index"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel() error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCancelled
	return nil
}

func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCompleted
	return nil
}

// Reschedule moves the appointment; only Pending and Confirmed
// appointments may move.
func (a *Appointment) Reschedule(date time.Time, timeOfDay string) error {
	if !a.Status.Active() {
		return ErrNotReschedulable
	}
	a.Date = date
	a.Time = timeOfDay
	return nil
}

// UrgencyBand partitions the 1-10 urgency scale for queue filtering.
type UrgencyBand string

const (
	BandHigh   UrgencyBand = "High"   // urgency >= 8
	BandMedium UrgencyBand = "Medium" // 4 <= urgency <= 7
	BandLow    UrgencyBand = "Low"    // urgency <= 3
)

func (b UrgencyBand) IsValid() bool {
	switch b {
	case BandHigh, BandMedium, BandLow:
		return true
	}
	return false
}

// Range returns the inclusive urgency bounds of the band.
func (b UrgencyBand) Range() (min, max int) {
	switch b {
	case BandHigh:
		return 8, 10
	case BandMedium:
		return 4, 7
	default:
		return 1, 3
	}
}

// BandOf maps an urgency level to its band.
func BandOf(urgency int) UrgencyBand {
	switch {
	case urgency >= 8:
		return BandHigh
	case urgency >= 4:
		return BandMedium
	default:
		return BandLow
	}
}

// QueueQuery is the set of optional typed predicates for the triage
// queue. Set fields combine with AND.
type QueueQuery struct {
	Date           *time.Time
	Band           *UrgencyBand
	Specialization *string
}

// QueueEntry is one row of the urgency-ordered queue: an appointment
// joined with its patient, symptom, diagnosis, doctor and
// specialization.
type QueueEntry struct {
	AppointmentID   uuid.UUID
	AppointmentCode string
	Date            time.Time
	Time            string
	Status          Status
	Mode            Mode
	UrgencyLevel    int

	PatientID   uuid.UUID
	PatientName string
	Age         int
	Gender      string
	Phone       string

	SymptomText      string
	PredictedDisease string
	Probability      float64
	UrgencyReason    string

	DoctorID       uuid.UUID
	DoctorName     string
	Qualification  string
	Specialization string
}

// ListQuery filters per-patient or per-doctor appointment listings.
type ListQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *Status
	Date      *time.Time
	Limit     int
}

type TrendPoint struct {
	Date   time.Time
	Total  int64
	High   int64
	Medium int64
	Low    int64
}

type UrgencyCount struct {
	UrgencyLevel int
	Count        int64
}
