package vitals

import (
	"time"

	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain/patient"
)

// Vital is one timestamped set of physiological measurements for a patient.
// Rows are append-only; recordings are never mutated.
type Vital struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	PatientID uuid.UUID        `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	Patient   *patient.Patient `gorm:"foreignKey:PatientID" json:"patients,omitempty"`

	RecordedAt time.Time `gorm:"column:recorded_at;not null;index" json:"recorded_at"`

	BloodPressureSystolic  *float64 `gorm:"column:blood_pressure_systolic" json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *float64 `gorm:"column:blood_pressure_diastolic" json:"blood_pressure_diastolic,omitempty"`
	HeartRate              *float64 `gorm:"column:heart_rate" json:"heart_rate,omitempty"`
	Temperature            *float64 `gorm:"column:temperature" json:"temperature,omitempty"`
	RespiratoryRate        *float64 `gorm:"column:respiratory_rate" json:"respiratory_rate,omitempty"`
	OxygenSaturation       *float64 `gorm:"column:oxygen_saturation" json:"oxygen_saturation,omitempty"`
	GlucoseLevel           *float64 `gorm:"column:glucose_level" json:"glucose_level,omitempty"`
	BMI                    *float64 `gorm:"column:bmi" json:"bmi,omitempty"`
}

func (Vital) TableName() string {
	return "clinical.vitals"
}
