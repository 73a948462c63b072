package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Patient is created on first booking and never deleted by the
// application. Allergies and the portal password are the only mutable
// fields.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	FirstName string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName  string `gorm:"column:last_name;type:varchar(100)"`
	FullName  string `gorm:"column:full_name;type:varchar(200);not null;index"`
	Age       int    `gorm:"column:age;not null"`
	Gender    Gender `gorm:"column:gender;type:varchar(10);not null"`
	Phone     string `gorm:"column:phone;type:varchar(20);uniqueIndex;not null"`
	Allergies string `gorm:"column:allergies;type:text"`

	// Empty until the patient sets up portal access.
	PasswordHash string `gorm:"column:password_hash;type:varchar(255)"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) HasPassword() bool {
	return p.PasswordHash != ""
}

// DisplayName derives the full name the same way intake does.
func DisplayName(firstName, lastName string) string {
	return strings.TrimSpace(firstName + " " + lastName)
}

type CreatePatientCommand struct {
	FirstName string
	LastName  string
	Age       int
	Gender    Gender
	Phone     string
	Allergies string
}

type Statistics struct {
	TotalPatients      int64
	AverageAge         float64
	GenderDistribution map[Gender]int64
}
