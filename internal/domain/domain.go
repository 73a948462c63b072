package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the kind of principal behind a portal session.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) IsValid() bool {
	return r == RoleDoctor || r == RolePatient
}

type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
	ActionLogin  AuditAction = "LOGIN"
)

type AuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PerformedAt time.Time `gorm:"autoCreateTime;index"`

	Action      AuditAction `gorm:"column:action_type;type:varchar(20);not null;index"`
	Table       string      `gorm:"column:table_name;type:varchar(50);not null;index"`
	RecordID    string      `gorm:"column:record_id;type:varchar(50)"`
	PerformedBy string      `gorm:"column:performed_by;type:varchar(100);not null;default:'system'"`
	OldValues   string      `gorm:"column:old_values;type:text"`
	NewValues   string      `gorm:"column:new_values;type:text"`
	Description string      `gorm:"column:description;type:text"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

// Claims is the authenticated principal carried by portal tokens.
type Claims struct {
	SubjectID uuid.UUID `json:"sub"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
}
