package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// GetMedication retrieves a medication by primary key.
	// Returns ErrMedicationNotFound if not found.
	GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error)

	// DueToday returns pending reminder rows for the given calendar date,
	// ordered by time ascending, with medication and patient identity joined.
	DueToday(ctx context.Context, date string) ([]*Reminder, error)

	// Upcoming returns pending schedule rows with scheduled_date in
	// [from, to] inclusive, ordered by (date, time) ascending, joined
	// with medication and patient identity.
	Upcoming(ctx context.Context, from, to string) ([]*Schedule, error)

	// MarkTaken sets taken=true, taken_at=at and notes on a schedule row and
	// returns it. A repeat call overwrites taken_at. Returns ErrScheduleNotFound
	// if the row does not exist.
	MarkTaken(ctx context.Context, id uuid.UUID, notes *string, at time.Time) (*Schedule, error)

	// UpdateSchedule applies partial updates to a schedule row and returns it.
	UpdateSchedule(ctx context.Context, id uuid.UUID, cmd *UpdateScheduleCommand) (*Schedule, error)

	// CreateSchedules persists all rows in one transaction; either every
	// row is written or none are.
	CreateSchedules(ctx context.Context, rows []*Schedule) error
}
