package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type NotificationType string

const (
	TypeMedicationReminder NotificationType = "medication_reminder"
	TypeVitalAlert         NotificationType = "vital_alert"
)

// Notification is a message record addressed to a patient. This system only
// writes notification rows; delivery (SMS/email/push) is handled elsewhere.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`

	Title    string           `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message  string           `gorm:"column:message;type:text;not null" json:"message"`
	Type     NotificationType `gorm:"column:type;type:varchar(30);not null;index" json:"type"`
	Priority Priority         `gorm:"column:priority;type:varchar(10);not null;default:'Medium'" json:"priority"`

	// When the notification should be surfaced to the patient.
	// Kept as a local timestamp string (no zone) to match the mobile client.
	ScheduledAt string `gorm:"column:scheduled_at;type:varchar(25);not null" json:"scheduled_at"`

	Read bool `gorm:"column:read;default:false" json:"read"`
}

func (Notification) TableName() string {
	return "messaging.notifications"
}

type NotificationRepository interface {
	// Create persists a single notification.
	Create(ctx context.Context, n *Notification) error

	// CreateBatch persists all notifications in one transaction;
	// either every row is written or none are.
	CreateBatch(ctx context.Context, ns []*Notification) error
}
