package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/carelink/carelink-api/internal/config"
	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/medication"
	"github.com/carelink/carelink-api/internal/domain/patient"
	"github.com/carelink/carelink-api/internal/domain/vitals"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:    true,
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

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

	schemas := []string{"clinical", "messaging"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&patient.Patient{},
		&medication.Medication{},
		&medication.Schedule{},
		&medication.Reminder{},
		&vitals.Vital{},
		&domain.Notification{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	if err := createSummaryView(db); err != nil {
		return fmt.Errorf("creating patient summary view: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		{
			name:  "idx_schedule_pending",
			query: `CREATE INDEX IF NOT EXISTS idx_schedule_pending ON clinical.medication_schedule (scheduled_date, scheduled_time) WHERE taken = false`,
		},
		{
			name:  "idx_reminders_pending",
			query: `CREATE INDEX IF NOT EXISTS idx_reminders_pending ON clinical.medication_reminders (scheduled_date, scheduled_time) WHERE taken = false`,
		},
		{
			name:  "idx_vitals_recent",
			query: `CREATE INDEX IF NOT EXISTS idx_vitals_recent ON clinical.vitals (recorded_at DESC, patient_id)`,
		},
		{
			name:  "idx_patients_active_created",
			query: `CREATE INDEX IF NOT EXISTS idx_patients_active_created ON clinical.patients (created_at DESC) WHERE is_active = true`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}

// createSummaryView builds the read-only aggregate the patient-summary
// endpoint serves.
func createSummaryView(db *gorm.DB) error {
	const view = `
CREATE OR REPLACE VIEW clinical.patient_summary AS
SELECT
	p.id,
	p.first_name,
	p.last_name,
	p.patient_id,
	COUNT(DISTINCT m.id) FILTER (WHERE m.is_active)            AS active_medications,
	COUNT(DISTINCT s.id) FILTER (WHERE NOT s.taken)            AS pending_reminders,
	MAX(v.recorded_at)                                         AS last_vital_at
FROM clinical.patients p
LEFT JOIN clinical.medications m          ON m.patient_id = p.id
LEFT JOIN clinical.medication_schedule s  ON s.medication_id = m.id
LEFT JOIN clinical.vitals v               ON v.patient_id = p.id
WHERE p.is_active
GROUP BY p.id, p.first_name, p.last_name, p.patient_id`

	return db.Exec(view).Error
}
