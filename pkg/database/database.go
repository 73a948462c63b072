package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/careqhq/careq/internal/config"
	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/diagnosis"
	"github.com/careqhq/careq/internal/domain/doctor"
	"github.com/careqhq/careq/internal/domain/patient"
	"github.com/careqhq/careq/internal/domain/record"
	"github.com/careqhq/careq/internal/domain/symptom"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&domain.AuditLog{},
		&doctor.Specialization{},
		&doctor.Doctor{},
		&patient.Patient{},
		&symptom.Symptom{},
		&diagnosis.Diagnosis{},
		&appointment.Appointment{},
		&record.MedicalRecord{},
		&record.Prescription{},
		&record.Feedback{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// rawIndexes is the DDL AutoMigrate cannot express (partial and
// mixed-order indexes). Column names must match the gorm column
// mappings on the models.
var rawIndexes = []struct {
	name  string
	query string
}{
	// Queue ordering: urgency first, then date and slot time
	{
		name:  "idx_appointments_queue_order",
		query: `CREATE INDEX IF NOT EXISTS idx_appointments_queue_order ON appointments (urgency_level DESC, appointment_date ASC, appointment_time ASC) WHERE status IN ('Confirmed', 'Pending')`,
	},
	// Doctor load lookup during assignment
	{
		name:  "idx_appointments_doctor_date",
		query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date ON appointments (doctor_id, appointment_date) WHERE status IN ('Confirmed', 'Pending')`,
	},
	{
		name:  "idx_appointments_patient",
		query: `CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments (patient_id, appointment_date DESC)`,
	},
	{
		name:  "idx_symptoms_patient_submitted",
		query: `CREATE INDEX IF NOT EXISTS idx_symptoms_patient_submitted ON symptoms (patient_id, submitted_at DESC)`,
	},
	{
		name:  "idx_audit_log_table_record",
		query: `CREATE INDEX IF NOT EXISTS idx_audit_log_table_record ON audit_log (table_name, record_id)`,
	},
}

func createIndexes(db *gorm.DB) error {
	for _, idx := range rawIndexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
