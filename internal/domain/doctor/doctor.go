package doctor

import (
	"time"

	"github.com/google/uuid"
)

// DailyCapacity is the maximum number of same-day Confirmed/Pending
// appointments a single doctor may hold.
const DailyCapacity = 16

// GeneralSpecialization is the fallback used when no doctor in the
// requested specialization has capacity.
const GeneralSpecialization = "General Medicine"

type Specialization struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"column:name;type:varchar(100);uniqueIndex;not null"`
}

func (Specialization) TableName() string {
	return "specializations"
}

// Doctor is read-only from the booking flow's perspective. Seeding and
// roster changes happen outside the API.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Name             string    `gorm:"column:name;type:varchar(200);not null"`
	Qualification    string    `gorm:"column:qualification;type:varchar(200)"`
	SpecializationID uuid.UUID `gorm:"column:specialization_id;type:uuid;not null;index"`
	Available        bool      `gorm:"column:available;default:true;index"`

	// Empty for doctors without portal access.
	PasswordHash string `gorm:"column:password_hash;type:varchar(255)"`

	Specialization *Specialization `gorm:"foreignKey:SpecializationID"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Load pairs a doctor with their Confirmed/Pending appointment count on
// a given date. The assignment logic operates on these rows.
type Load struct {
	Doctor           Doctor
	AppointmentCount int
}

type Workload struct {
	DoctorName     string
	Specialization string
	Total          int64
	Confirmed      int64
	Completed      int64
	Cancelled      int64
	AvgUrgency     float64
}
