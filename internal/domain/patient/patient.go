package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

type ContactInfo struct {
	Phone   string `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Email   string `gorm:"column:email;type:varchar(255)" json:"email"`
	Address string `gorm:"column:address;type:text" json:"address"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	FirstName     string `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName      string `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	PatientNumber string `gorm:"column:patient_id;type:varchar(50);uniqueIndex;not null" json:"patient_id"`

	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender      Gender     `gorm:"column:gender;type:varchar(20);default:'unknown'" json:"gender"`

	ContactInfo

	EmergencyContact *EmergencyContact `gorm:"column:emergency_contact;serializer:json" json:"emergency_contact,omitempty"`

	MedicalNotes string `gorm:"column:medical_notes;type:text" json:"medical_notes,omitempty"` // PHI

	// Soft delete: deactivation flips this flag, the row is never removed.
	IsActive bool `gorm:"column:is_active;default:true;index" json:"is_active"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Summary is one row of the read-only patient_summary view.
type Summary struct {
	ID                uuid.UUID  `gorm:"column:id" json:"id"`
	FirstName         string     `gorm:"column:first_name" json:"first_name"`
	LastName          string     `gorm:"column:last_name" json:"last_name"`
	PatientNumber     string     `gorm:"column:patient_id" json:"patient_id"`
	ActiveMedications int64      `gorm:"column:active_medications" json:"active_medications"`
	PendingReminders  int64      `gorm:"column:pending_reminders" json:"pending_reminders"`
	LastVitalAt       *time.Time `gorm:"column:last_vital_at" json:"last_vital_at,omitempty"`
}

func (Summary) TableName() string {
	return "clinical.patient_summary"
}

type CreatePatientCommand struct {
	FirstName        string
	LastName         string
	PatientNumber    string
	DateOfBirth      *time.Time
	Gender           Gender
	Phone            string
	Email            string
	Address          string
	EmergencyContact *EmergencyContact
	MedicalNotes     string
}

// UpdatePatientCommand carries partial updates; nil fields are left untouched.
type UpdatePatientCommand struct {
	FirstName        *string
	LastName         *string
	DateOfBirth      *time.Time
	Gender           *Gender
	Phone            *string
	Email            *string
	Address          *string
	EmergencyContact *EmergencyContact
	MedicalNotes     *string
}
