package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/medication"
)

type fakeMedicationRepo struct {
	medications map[uuid.UUID]*medication.Medication
	schedules   map[uuid.UUID]*medication.Schedule
	reminders   []*medication.Reminder

	created     [][]*medication.Schedule
	markTakenAt []time.Time
	upcomingArg [2]string

	failCreate error
}

func newFakeMedicationRepo() *fakeMedicationRepo {
	return &fakeMedicationRepo{
		medications: make(map[uuid.UUID]*medication.Medication),
		schedules:   make(map[uuid.UUID]*medication.Schedule),
	}
}

func (f *fakeMedicationRepo) GetMedication(_ context.Context, id uuid.UUID) (*medication.Medication, error) {
	m, ok := f.medications[id]
	if !ok {
		return nil, medication.ErrMedicationNotFound
	}
	return m, nil
}

func (f *fakeMedicationRepo) DueToday(_ context.Context, date string) ([]*medication.Reminder, error) {
	var out []*medication.Reminder
	for _, r := range f.reminders {
		if r.ScheduledDate == date && !r.Taken {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMedicationRepo) Upcoming(_ context.Context, from, to string) ([]*medication.Schedule, error) {
	f.upcomingArg = [2]string{from, to}
	var out []*medication.Schedule
	for _, s := range f.schedules {
		if !s.Taken && s.ScheduledDate >= from && s.ScheduledDate <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeMedicationRepo) MarkTaken(_ context.Context, id uuid.UUID, notes *string, at time.Time) (*medication.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, medication.ErrScheduleNotFound
	}
	f.markTakenAt = append(f.markTakenAt, at)
	s.Taken = true
	s.TakenAt = &at
	if notes != nil {
		s.Notes = notes
	}
	return s, nil
}

func (f *fakeMedicationRepo) UpdateSchedule(_ context.Context, id uuid.UUID, cmd *medication.UpdateScheduleCommand) (*medication.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, medication.ErrScheduleNotFound
	}
	if cmd.ScheduledDate != nil {
		s.ScheduledDate = *cmd.ScheduledDate
	}
	if cmd.ScheduledTime != nil {
		s.ScheduledTime = *cmd.ScheduledTime
	}
	if cmd.Taken != nil {
		s.Taken = *cmd.Taken
	}
	if cmd.Notes != nil {
		s.Notes = cmd.Notes
	}
	return s, nil
}

func (f *fakeMedicationRepo) CreateSchedules(_ context.Context, rows []*medication.Schedule) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.created = append(f.created, rows)
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		f.schedules[r.ID] = r
	}
	return nil
}

type fakeNotificationRepo struct {
	single  []*domain.Notification
	batches [][]*domain.Notification
	fail    error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if f.fail != nil {
		return f.fail
	}
	n.ID = uuid.New()
	f.single = append(f.single, n)
	return nil
}

func (f *fakeNotificationRepo) CreateBatch(_ context.Context, ns []*domain.Notification) error {
	if f.fail != nil {
		return f.fail
	}
	for _, n := range ns {
		n.ID = uuid.New()
	}
	f.batches = append(f.batches, ns)
	return nil
}

func newReminderService(meds *fakeMedicationRepo, notifications *fakeNotificationRepo, lookahead int) *ReminderService {
	return NewReminderService(meds, notifications, zap.NewNop(), nil, lookahead)
}

func TestMarkTakenOverwritesTakenAt(t *testing.T) {
	repo := newFakeMedicationRepo()
	id := uuid.New()
	repo.schedules[id] = &medication.Schedule{ID: id, ScheduledDate: "2025-06-01", ScheduledTime: "08:00"}

	svc := newReminderService(repo, &fakeNotificationRepo{}, 7)

	notes := "with food"
	row, err := svc.MarkTaken(context.Background(), id, &notes)
	if err != nil {
		t.Fatalf("MarkTaken: %v", err)
	}
	if !row.Taken {
		t.Error("expected taken=true")
	}
	if row.TakenAt == nil || row.TakenAt.IsZero() {
		t.Fatal("expected taken_at to be set")
	}
	if row.Notes == nil || *row.Notes != "with food" {
		t.Errorf("notes = %v, want %q", row.Notes, "with food")
	}

	// A repeat call stays taken but stamps a fresh taken_at.
	if _, err := svc.MarkTaken(context.Background(), id, nil); err != nil {
		t.Fatalf("second MarkTaken: %v", err)
	}
	if len(repo.markTakenAt) != 2 {
		t.Fatalf("expected 2 repo calls, got %d", len(repo.markTakenAt))
	}
	if repo.markTakenAt[1].Before(repo.markTakenAt[0]) {
		t.Error("second taken_at precedes the first")
	}
}

func TestMarkTakenUnknownSchedule(t *testing.T) {
	svc := newReminderService(newFakeMedicationRepo(), &fakeNotificationRepo{}, 7)

	_, err := svc.MarkTaken(context.Background(), uuid.New(), nil)
	if !errors.Is(err, medication.ErrScheduleNotFound) {
		t.Errorf("err = %v, want ErrScheduleNotFound", err)
	}
}

func TestUpcomingRemindersWindow(t *testing.T) {
	repo := newFakeMedicationRepo()
	svc := newReminderService(repo, &fakeNotificationRepo{}, 7)

	if _, err := svc.UpcomingReminders(context.Background()); err != nil {
		t.Fatalf("UpcomingReminders: %v", err)
	}

	from, err := time.Parse(medication.DateLayout, repo.upcomingArg[0])
	if err != nil {
		t.Fatalf("parsing from: %v", err)
	}
	to, err := time.Parse(medication.DateLayout, repo.upcomingArg[1])
	if err != nil {
		t.Fatalf("parsing to: %v", err)
	}
	if days := int(to.Sub(from).Hours() / 24); days != 7 {
		t.Errorf("window = %d days, want 7", days)
	}
}

func TestCreateReminder(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	svc := newReminderService(newFakeMedicationRepo(), notifications, 7)

	n, err := svc.CreateReminder(context.Background(), &CreateReminderCommand{
		PatientID:      uuid.New(),
		MedicationName: "Lisinopril",
		ScheduledDate:  "2025-03-01",
		ScheduledTime:  "08:30",
	})
	if err != nil {
		t.Fatalf("CreateReminder: %v", err)
	}

	if n.Title != "Medication Reminder" {
		t.Errorf("title = %q", n.Title)
	}
	if n.Message != "Time to take your Lisinopril" {
		t.Errorf("message = %q", n.Message)
	}
	if n.Type != domain.TypeMedicationReminder {
		t.Errorf("type = %q", n.Type)
	}
	if n.Priority != domain.PriorityMedium {
		t.Errorf("priority = %q", n.Priority)
	}
	if n.ScheduledAt != "2025-03-01T08:30:00" {
		t.Errorf("scheduled_at = %q", n.ScheduledAt)
	}
	if len(notifications.single) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(notifications.single))
	}
}

func TestCreateReminderValidation(t *testing.T) {
	svc := newReminderService(newFakeMedicationRepo(), &fakeNotificationRepo{}, 7)

	tests := []struct {
		name string
		cmd  CreateReminderCommand
	}{
		{"missing patient", CreateReminderCommand{MedicationName: "x", ScheduledDate: "2025-03-01", ScheduledTime: "08:00"}},
		{"blank medication name", CreateReminderCommand{PatientID: uuid.New(), MedicationName: "  ", ScheduledDate: "2025-03-01", ScheduledTime: "08:00"}},
		{"bad date", CreateReminderCommand{PatientID: uuid.New(), MedicationName: "x", ScheduledDate: "03/01/2025", ScheduledTime: "08:00"}},
		{"bad time", CreateReminderCommand{PatientID: uuid.New(), MedicationName: "x", ScheduledDate: "2025-03-01", ScheduledTime: "8am"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateReminder(context.Background(), &tc.cmd)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestGenerateSchedule(t *testing.T) {
	repo := newFakeMedicationRepo()
	medID := uuid.New()
	repo.medications[medID] = &medication.Medication{ID: medID, Name: "Metformin"}

	svc := newReminderService(repo, &fakeNotificationRepo{}, 7)

	rows, err := svc.GenerateSchedule(context.Background(), &medication.GenerateScheduleCommand{
		MedicationID:   medID,
		StartDate:      "2025-03-01",
		EndDate:        "2025-03-03",
		Frequency:      "whatever the client sends", // accepted, never interpreted
		ScheduledTimes: []string{"08:00", "20:00"},
	})
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}

	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6 (3 days x 2 times)", len(rows))
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected a single batch insert, got %d", len(repo.created))
	}
	for _, r := range rows {
		if r.MedicationID != medID {
			t.Errorf("row medication_id = %s, want %s", r.MedicationID, medID)
		}
		if r.Taken {
			t.Error("generated row must start untaken")
		}
	}
}

func TestGenerateScheduleUnknownMedication(t *testing.T) {
	svc := newReminderService(newFakeMedicationRepo(), &fakeNotificationRepo{}, 7)

	_, err := svc.GenerateSchedule(context.Background(), &medication.GenerateScheduleCommand{
		MedicationID:   uuid.New(),
		StartDate:      "2025-03-01",
		EndDate:        "2025-03-03",
		ScheduledTimes: []string{"08:00"},
	})
	if !errors.Is(err, medication.ErrMedicationNotFound) {
		t.Errorf("err = %v, want ErrMedicationNotFound", err)
	}
}

func TestGenerateScheduleValidation(t *testing.T) {
	repo := newFakeMedicationRepo()
	svc := newReminderService(repo, &fakeNotificationRepo{}, 7)

	_, err := svc.GenerateSchedule(context.Background(), &medication.GenerateScheduleCommand{
		MedicationID:   uuid.New(),
		StartDate:      "not-a-date",
		EndDate:        "2025-03-03",
		ScheduledTimes: []string{"08:00", "25:99"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("fields = %v, want 2 entries", verr.Fields)
	}
	if len(repo.created) != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
	for _, f := range verr.Fields {
		if !strings.Contains(f, "must be") {
			t.Errorf("field %q lacks format hint", f)
		}
	}
}

func TestUpdateScheduleValidation(t *testing.T) {
	repo := newFakeMedicationRepo()
	id := uuid.New()
	repo.schedules[id] = &medication.Schedule{ID: id, ScheduledDate: "2025-03-01", ScheduledTime: "08:00"}

	svc := newReminderService(repo, &fakeNotificationRepo{}, 7)

	badTime := "morning"
	_, err := svc.UpdateSchedule(context.Background(), id, &medication.UpdateScheduleCommand{ScheduledTime: &badTime})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	newTime := "09:30"
	row, err := svc.UpdateSchedule(context.Background(), id, &medication.UpdateScheduleCommand{ScheduledTime: &newTime})
	if err != nil {
		t.Fatalf("UpdateSchedule: %v", err)
	}
	if row.ScheduledTime != "09:30" {
		t.Errorf("scheduled_time = %q, want 09:30", row.ScheduledTime)
	}
	if row.ScheduledDate != "2025-03-01" {
		t.Errorf("scheduled_date changed unexpectedly: %q", row.ScheduledDate)
	}
}

func TestReminderListsEmptyNotNil(t *testing.T) {
	svc := newReminderService(newFakeMedicationRepo(), &fakeNotificationRepo{}, 7)

	due, err := svc.TodayReminders(context.Background())
	if err != nil {
		t.Fatalf("TodayReminders: %v", err)
	}
	if due == nil {
		t.Error("TodayReminders returned nil, want empty slice")
	}

	upcoming, err := svc.UpcomingReminders(context.Background())
	if err != nil {
		t.Fatalf("UpcomingReminders: %v", err)
	}
	if upcoming == nil {
		t.Error("UpcomingReminders returned nil, want empty slice")
	}
}

func TestTodayReminders(t *testing.T) {
	repo := newFakeMedicationRepo()
	today := time.Now().Format(medication.DateLayout)
	repo.reminders = []*medication.Reminder{
		{ID: uuid.New(), ScheduledDate: today, ScheduledTime: "08:00"},
		{ID: uuid.New(), ScheduledDate: today, ScheduledTime: "12:00", Taken: true},
		{ID: uuid.New(), ScheduledDate: "1999-01-01", ScheduledTime: "08:00"},
	}

	svc := newReminderService(repo, &fakeNotificationRepo{}, 7)

	due, err := svc.TodayReminders(context.Background())
	if err != nil {
		t.Fatalf("TodayReminders: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("due = %d, want 1 (taken and past rows excluded)", len(due))
	}
}
