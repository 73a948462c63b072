package record

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is filed by a doctor when an appointment completes.
// Creating one flips the appointment to Completed in the same
// transaction. Records are immutable once created.
type MedicalRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;uniqueIndex"`

	Diagnosis  string    `gorm:"column:diagnosis;type:text;not null"`
	Notes      string    `gorm:"column:notes;type:text"`
	RecordDate time.Time `gorm:"column:record_date;type:date;not null"`

	Prescriptions []Prescription `gorm:"foreignKey:RecordID"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

// Prescription is a single medicine line on a medical record.
type Prescription struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecordID uuid.UUID `gorm:"column:record_id;type:uuid;not null;index"`

	MedicineName string `gorm:"column:medicine_name;type:varchar(255);not null"`
	Dosage       string `gorm:"column:dosage;type:varchar(100);not null"`
	Duration     string `gorm:"column:duration;type:varchar(100)"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// Feedback is a patient's rating of a completed appointment. One entry
// per patient and appointment.
type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	PatientID     uuid.UUID `gorm:"column:patient_id;type:uuid;not null;uniqueIndex:idx_feedback_patient_appointment"`
	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;uniqueIndex:idx_feedback_patient_appointment"`

	Rating  int    `gorm:"column:rating;not null"`
	Comment string `gorm:"column:comment;type:text"`
}

func (Feedback) TableName() string {
	return "feedback"
}

type CreateRecordCommand struct {
	AppointmentID uuid.UUID
	Diagnosis     string
	Notes         string
	Prescriptions []PrescriptionLine
}

type PrescriptionLine struct {
	MedicineName string
	Dosage       string
	Duration     string
}

type DoctorRating struct {
	AvgRating    float64
	TotalReviews int64
}
