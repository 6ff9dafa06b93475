package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carelink/carelink-api/internal/domain/medication"
)

type MedicationRepository struct {
	db *gorm.DB
}

func NewMedicationRepository(db *gorm.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

var _ medication.Repository = (*MedicationRepository)(nil)

func (r *MedicationRepository) GetMedication(ctx context.Context, id uuid.UUID) (*medication.Medication, error) {
	var m medication.Medication
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, medication.ErrMedicationNotFound
		}
		return nil, fmt.Errorf("fetching medication: %w", err)
	}
	return &m, nil
}

func (r *MedicationRepository) DueToday(ctx context.Context, date string) ([]*medication.Reminder, error) {
	var reminders []*medication.Reminder
	err := r.db.WithContext(ctx).
		Preload("Medication.Patient").
		Where("scheduled_date = ? AND taken = ?", date, false).
		Order("scheduled_time ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("listing due reminders: %w", err)
	}
	return reminders, nil
}

func (r *MedicationRepository) Upcoming(ctx context.Context, from, to string) ([]*medication.Schedule, error) {
	var rows []*medication.Schedule
	err := r.db.WithContext(ctx).
		Preload("Medication.Patient").
		Where("taken = ? AND scheduled_date BETWEEN ? AND ?", false, from, to).
		Order("scheduled_date ASC, scheduled_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing upcoming schedules: %w", err)
	}
	return rows, nil
}

func (r *MedicationRepository) MarkTaken(ctx context.Context, id uuid.UUID, notes *string, at time.Time) (*medication.Schedule, error) {
	res := r.db.WithContext(ctx).
		Model(&medication.Schedule{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"taken":    true,
			"taken_at": at,
			"notes":    notes,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("marking schedule taken: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, medication.ErrScheduleNotFound
	}
	return r.getSchedule(ctx, id)
}

func (r *MedicationRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, cmd *medication.UpdateScheduleCommand) (*medication.Schedule, error) {
	updates := map[string]any{}
	if cmd.ScheduledDate != nil {
		updates["scheduled_date"] = *cmd.ScheduledDate
	}
	if cmd.ScheduledTime != nil {
		updates["scheduled_time"] = *cmd.ScheduledTime
	}
	if cmd.Taken != nil {
		updates["taken"] = *cmd.Taken
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&medication.Schedule{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("updating schedule: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, medication.ErrScheduleNotFound
		}
	}

	return r.getSchedule(ctx, id)
}

func (r *MedicationRepository) CreateSchedules(ctx context.Context, rows []*medication.Schedule) error {
	if len(rows) == 0 {
		return nil
	}
	// All-or-nothing: a failure mid-batch rolls back every row.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("inserting schedule batch: %w", err)
	}
	return nil
}

func (r *MedicationRepository) getSchedule(ctx context.Context, id uuid.UUID) (*medication.Schedule, error) {
	var s medication.Schedule
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, medication.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}
	return &s, nil
}
