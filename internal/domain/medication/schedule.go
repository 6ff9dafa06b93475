package medication

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date form used on schedule rows.
const DateLayout = "2006-01-02"

// TimeLayout is the time-of-day form used on schedule rows.
const TimeLayout = "15:04"

// ExpandSchedule emits one pending dose row for every calendar day in
// [start, end] crossed with every time of day in times. Day iteration
// advances one calendar day at a time, so month and year boundaries roll
// over naturally. When start is after end the result is empty.
//
// Cost is O(days × times); callers are responsible for sane ranges.
func ExpandSchedule(medicationID uuid.UUID, start, end time.Time, times []string) []*Schedule {
	rows := make([]*Schedule, 0, len(times))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for _, t := range times {
			rows = append(rows, &Schedule{
				MedicationID:  medicationID,
				ScheduledDate: d.Format(DateLayout),
				ScheduledTime: t,
				Taken:         false,
			})
		}
	}
	return rows
}
