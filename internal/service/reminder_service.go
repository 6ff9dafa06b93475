package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/medication"
	"github.com/carelink/carelink-api/pkg/metrics"
)

type ReminderService struct {
	meds          medication.Repository
	notifications domain.NotificationRepository
	log           *zap.Logger
	metrics       *metrics.Collector
	lookaheadDays int
}

func NewReminderService(
	meds medication.Repository,
	notifications domain.NotificationRepository,
	log *zap.Logger,
	m *metrics.Collector,
	lookaheadDays int,
) *ReminderService {
	return &ReminderService{
		meds:          meds,
		notifications: notifications,
		log:           log,
		metrics:       m,
		lookaheadDays: lookaheadDays,
	}
}

// TodayReminders returns pending reminders for the current calendar date,
// earliest time first. Empty results are an empty list, never null.
func (s *ReminderService) TodayReminders(ctx context.Context) ([]*medication.Reminder, error) {
	today := time.Now().Format(medication.DateLayout)
	reminders, err := s.meds.DueToday(ctx, today)
	if err != nil {
		return nil, err
	}
	if reminders == nil {
		reminders = []*medication.Reminder{}
	}
	return reminders, nil
}

// UpcomingReminders returns pending schedule rows from today through the
// configured lookahead window, inclusive on both ends.
func (s *ReminderService) UpcomingReminders(ctx context.Context) ([]*medication.Schedule, error) {
	now := time.Now()
	from := now.Format(medication.DateLayout)
	to := now.AddDate(0, 0, s.lookaheadDays).Format(medication.DateLayout)
	rows, err := s.meds.Upcoming(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*medication.Schedule{}
	}
	return rows, nil
}

// MarkTaken records a dose as taken. The taken flag only ever moves
// false→true, but taken_at is overwritten on every call.
func (s *ReminderService) MarkTaken(ctx context.Context, scheduleID uuid.UUID, notes *string) (*medication.Schedule, error) {
	row, err := s.meds.MarkTaken(ctx, scheduleID, notes, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RemindersMarkedTotal.Inc()
	}
	s.log.Info("dose marked taken", zap.String("schedule_id", scheduleID.String()))
	return row, nil
}

type CreateReminderCommand struct {
	PatientID      uuid.UUID
	MedicationName string
	ScheduledDate  string
	ScheduledTime  string
}

// CreateReminder writes a one-off medication-reminder notification scheduled
// for the given date and time.
func (s *ReminderService) CreateReminder(ctx context.Context, cmd *CreateReminderCommand) (*domain.Notification, error) {
	var errs []string
	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if strings.TrimSpace(cmd.MedicationName) == "" {
		errs = append(errs, "medication_name is required")
	}
	if _, err := time.Parse(medication.DateLayout, cmd.ScheduledDate); err != nil {
		errs = append(errs, "scheduled_date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(medication.TimeLayout, cmd.ScheduledTime); err != nil {
		errs = append(errs, "scheduled_time must be HH:MM")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	n := &domain.Notification{
		PatientID:   cmd.PatientID,
		Title:       "Medication Reminder",
		Message:     fmt.Sprintf("Time to take your %s", cmd.MedicationName),
		Type:        domain.TypeMedicationReminder,
		Priority:    domain.PriorityMedium,
		ScheduledAt: cmd.ScheduledDate + "T" + cmd.ScheduledTime + ":00",
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Error("failed to create reminder notification", zap.Error(err))
		return nil, fmt.Errorf("creating reminder notification: %w", err)
	}

	if s.metrics != nil {
		s.metrics.NotificationsCreatedTotal.WithLabelValues(string(domain.TypeMedicationReminder)).Inc()
	}
	return n, nil
}

// GenerateSchedule expands a prescription cadence into concrete dose rows,
// one per calendar day in [start, end] per time of day, and persists the
// whole batch in a single transaction.
func (s *ReminderService) GenerateSchedule(ctx context.Context, cmd *medication.GenerateScheduleCommand) ([]*medication.Schedule, error) {
	var errs []string
	start, err := time.Parse(medication.DateLayout, cmd.StartDate)
	if err != nil {
		errs = append(errs, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(medication.DateLayout, cmd.EndDate)
	if err != nil {
		errs = append(errs, "end_date must be YYYY-MM-DD")
	}
	for _, t := range cmd.ScheduledTimes {
		if _, err := time.Parse(medication.TimeLayout, t); err != nil {
			errs = append(errs, fmt.Sprintf("scheduled time %q must be HH:MM", t))
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.meds.GetMedication(ctx, cmd.MedicationID); err != nil {
		return nil, fmt.Errorf("verifying medication: %w", err)
	}

	rows := medication.ExpandSchedule(cmd.MedicationID, start, end, cmd.ScheduledTimes)
	if err := s.meds.CreateSchedules(ctx, rows); err != nil {
		s.log.Error("failed to persist generated schedule",
			zap.String("medication_id", cmd.MedicationID.String()),
			zap.Int("rows", len(rows)),
			zap.Error(err),
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SchedulesGeneratedTotal.Add(float64(len(rows)))
	}
	s.log.Info("schedule generated",
		zap.String("medication_id", cmd.MedicationID.String()),
		zap.String("start_date", cmd.StartDate),
		zap.String("end_date", cmd.EndDate),
		zap.Int("rows", len(rows)),
	)

	return rows, nil
}

func (s *ReminderService) UpdateSchedule(ctx context.Context, scheduleID uuid.UUID, cmd *medication.UpdateScheduleCommand) (*medication.Schedule, error) {
	var errs []string
	if cmd.ScheduledDate != nil {
		if _, err := time.Parse(medication.DateLayout, *cmd.ScheduledDate); err != nil {
			errs = append(errs, "scheduled_date must be YYYY-MM-DD")
		}
	}
	if cmd.ScheduledTime != nil {
		if _, err := time.Parse(medication.TimeLayout, *cmd.ScheduledTime); err != nil {
			errs = append(errs, "scheduled_time must be HH:MM")
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	return s.meds.UpdateSchedule(ctx, scheduleID, cmd)
}
