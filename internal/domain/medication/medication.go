package medication

import (
	"time"

	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain/patient"
)

type Medication struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	PatientID uuid.UUID        `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	Patient   *patient.Patient `gorm:"foreignKey:PatientID" json:"patients,omitempty"`

	Name         string `gorm:"column:medication_name;type:varchar(255);not null" json:"medication_name"`
	Dosage       string `gorm:"column:dosage;type:varchar(100)" json:"dosage"`             // e.g. "500mg"
	Frequency    string `gorm:"column:frequency;type:varchar(100)" json:"frequency"`       // e.g. "twice daily"
	Instructions string `gorm:"column:instructions;type:text" json:"instructions"`
	Prescriber   string `gorm:"column:prescriber;type:varchar(255)" json:"prescriber,omitempty"`

	StartDate string `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate   string `gorm:"column:end_date;type:date" json:"end_date,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true;index" json:"is_active"`
}

func (Medication) TableName() string {
	return "clinical.medications"
}

// Schedule is one planned dose occurrence: medication × calendar date × time of day.
// Once taken is set the row is history; only the false→true transition mutates it.
type Schedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	MedicationID uuid.UUID   `gorm:"column:medication_id;type:uuid;not null;index" json:"medication_id"`
	Medication   *Medication `gorm:"foreignKey:MedicationID" json:"medications,omitempty"`

	ScheduledDate string `gorm:"column:scheduled_date;type:date;not null;index" json:"scheduled_date"`
	ScheduledTime string `gorm:"column:scheduled_time;type:varchar(5);not null" json:"scheduled_time"` // "HH:MM"

	Taken   bool       `gorm:"column:taken;default:false;index" json:"taken"`
	TakenAt *time.Time `gorm:"column:taken_at" json:"taken_at,omitempty"`
	Notes   *string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (Schedule) TableName() string {
	return "clinical.medication_schedule"
}

// Reminder is a due-today row of the reminders table, read-only here.
type Reminder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	MedicationID uuid.UUID   `gorm:"column:medication_id;type:uuid;not null;index" json:"medication_id"`
	Medication   *Medication `gorm:"foreignKey:MedicationID" json:"medications,omitempty"`

	ScheduledDate string `gorm:"column:scheduled_date;type:date;not null;index" json:"scheduled_date"`
	ScheduledTime string `gorm:"column:scheduled_time;type:varchar(5);not null" json:"scheduled_time"`

	Taken bool `gorm:"column:taken;default:false" json:"taken"`
}

func (Reminder) TableName() string {
	return "clinical.medication_reminders"
}

type GenerateScheduleCommand struct {
	MedicationID uuid.UUID
	StartDate    string
	EndDate      string
	// Frequency is accepted on the wire but not used to validate or derive
	// ScheduledTimes; the dosing cadence is whatever the caller sends.
	Frequency      string
	ScheduledTimes []string
}

// UpdateScheduleCommand carries partial updates; nil fields are left untouched.
type UpdateScheduleCommand struct {
	ScheduledDate *string
	ScheduledTime *string
	Taken         *bool
	Notes         *string
}
