package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/patient"
	"github.com/carelink/carelink-api/internal/domain/vitals"
)

type fakeVitalRepo struct {
	recordings []*vitals.Vital
	sinceArg   time.Time
}

func (f *fakeVitalRepo) RecordedSince(_ context.Context, since time.Time) ([]*vitals.Vital, error) {
	f.sinceArg = since
	var out []*vitals.Vital
	for _, v := range f.recordings {
		if !v.RecordedAt.Before(since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func newVitalService(repo *fakeVitalRepo, notifications *fakeNotificationRepo, window time.Duration) *VitalService {
	return NewVitalService(repo, notifications, vitals.DefaultRanges(), window, zap.NewNop(), nil)
}

func ptr(f float64) *float64 { return &f }

func TestCheckVitals(t *testing.T) {
	now := time.Now()
	p := &patient.Patient{ID: uuid.New(), FirstName: "Maria", LastName: "Santos", PatientNumber: "PT-1001"}

	repo := &fakeVitalRepo{recordings: []*vitals.Vital{
		{
			ID: uuid.New(), PatientID: p.ID, Patient: p, RecordedAt: now.Add(-1 * time.Hour),
			HeartRate: ptr(110), // elevated
		},
		{
			ID: uuid.New(), PatientID: p.ID, Patient: p, RecordedAt: now.Add(-2 * time.Hour),
			OxygenSaturation: ptr(92), // low, and the only excursion
		},
		{
			ID: uuid.New(), PatientID: p.ID, Patient: p, RecordedAt: now.Add(-3 * time.Hour),
			HeartRate: ptr(72), Temperature: ptr(98.6), // all normal
		},
		{
			ID: uuid.New(), PatientID: p.ID, Patient: p, RecordedAt: now.Add(-48 * time.Hour),
			HeartRate: ptr(200), // out of range but outside the window
		},
	}}

	svc := newVitalService(repo, &fakeNotificationRepo{}, 24*time.Hour)

	records, err := svc.CheckVitals(context.Background())
	if err != nil {
		t.Fatalf("CheckVitals: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Priority != domain.PriorityHigh {
		t.Errorf("elevated heart rate priority = %q, want High", records[0].Priority)
	}
	if records[1].Priority != domain.PriorityMedium {
		t.Errorf("low-only excursion priority = %q, want Medium", records[1].Priority)
	}
	if records[0].PatientName != "Maria Santos" {
		t.Errorf("patient_name = %q", records[0].PatientName)
	}
	if records[0].PatientNumber != "PT-1001" {
		t.Errorf("patient_number = %q", records[0].PatientNumber)
	}
}

func TestCheckVitalsEmptyNotNil(t *testing.T) {
	svc := newVitalService(&fakeVitalRepo{}, &fakeNotificationRepo{}, 24*time.Hour)

	records, err := svc.CheckVitals(context.Background())
	if err != nil {
		t.Fatalf("CheckVitals: %v", err)
	}
	if records == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
}

func TestCheckVitalsWindow(t *testing.T) {
	repo := &fakeVitalRepo{}
	svc := newVitalService(repo, &fakeNotificationRepo{}, 6*time.Hour)

	before := time.Now()
	if _, err := svc.CheckVitals(context.Background()); err != nil {
		t.Fatalf("CheckVitals: %v", err)
	}

	want := before.Add(-6 * time.Hour)
	if repo.sinceArg.Before(want.Add(-time.Minute)) || repo.sinceArg.After(want.Add(time.Minute)) {
		t.Errorf("since = %v, want about %v", repo.sinceArg, want)
	}
}

func TestCreateAlertNotifications(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	svc := newVitalService(&fakeVitalRepo{}, notifications, 24*time.Hour)

	patientID := uuid.New()
	ns, err := svc.CreateAlertNotifications(context.Background(), &CreateAlertCommand{
		PatientID: patientID,
		VitalID:   uuid.New(),
		Alerts: []vitals.AlertEntry{
			{Type: "blood_pressure", Value: "150/95", Status: vitals.StatusHigh, Message: "Blood pressure elevated (150/95)"},
			{Type: "heart_rate", Value: "110", Status: vitals.StatusHigh, Message: "Heart rate elevated (110 bpm)"},
		},
		Priority: domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("CreateAlertNotifications: %v", err)
	}

	if len(ns) != 2 {
		t.Fatalf("notifications = %d, want 2", len(ns))
	}
	if ns[0].Title != "Vital Alert: BLOOD PRESSURE" {
		t.Errorf("title = %q", ns[0].Title)
	}
	if ns[1].Title != "Vital Alert: HEART RATE" {
		t.Errorf("title = %q", ns[1].Title)
	}
	for _, n := range ns {
		if n.Priority != domain.PriorityHigh {
			t.Errorf("priority = %q, want the uniform High", n.Priority)
		}
		if n.Type != domain.TypeVitalAlert {
			t.Errorf("type = %q", n.Type)
		}
		if n.PatientID != patientID {
			t.Errorf("patient_id = %s", n.PatientID)
		}
		if _, perr := time.Parse(time.RFC3339, n.ScheduledAt); perr != nil {
			t.Errorf("scheduled_at %q is not RFC3339: %v", n.ScheduledAt, perr)
		}
	}
	if len(notifications.batches) != 1 {
		t.Fatalf("expected a single batch, got %d", len(notifications.batches))
	}
}

func TestCreateAlertNotificationsDefaultPriority(t *testing.T) {
	svc := newVitalService(&fakeVitalRepo{}, &fakeNotificationRepo{}, 24*time.Hour)

	ns, err := svc.CreateAlertNotifications(context.Background(), &CreateAlertCommand{
		PatientID: uuid.New(),
		VitalID:   uuid.New(),
		Alerts: []vitals.AlertEntry{
			{Type: "glucose", Value: "65", Status: vitals.StatusLow, Message: "Blood glucose low (65 mg/dL)"},
		},
	})
	if err != nil {
		t.Fatalf("CreateAlertNotifications: %v", err)
	}
	if ns[0].Priority != domain.PriorityMedium {
		t.Errorf("priority = %q, want default Medium", ns[0].Priority)
	}
}

func TestCreateAlertNotificationsValidation(t *testing.T) {
	svc := newVitalService(&fakeVitalRepo{}, &fakeNotificationRepo{}, 24*time.Hour)

	tests := []struct {
		name string
		cmd  CreateAlertCommand
	}{
		{"missing patient", CreateAlertCommand{Alerts: []vitals.AlertEntry{{Type: "heart_rate"}}}},
		{"no alerts", CreateAlertCommand{PatientID: uuid.New()}},
		{"bad priority", CreateAlertCommand{
			PatientID: uuid.New(),
			Alerts:    []vitals.AlertEntry{{Type: "heart_rate"}},
			Priority:  "Urgent",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAlertNotifications(context.Background(), &tc.cmd)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}
