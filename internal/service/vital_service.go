package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/domain/vitals"
	"github.com/carelink/carelink-api/pkg/metrics"
)

type VitalService struct {
	vitals        vitals.Repository
	notifications domain.NotificationRepository
	ranges        vitals.RangeTable
	window        time.Duration
	log           *zap.Logger
	metrics       *metrics.Collector
}

func NewVitalService(
	repo vitals.Repository,
	notifications domain.NotificationRepository,
	ranges vitals.RangeTable,
	window time.Duration,
	log *zap.Logger,
	m *metrics.Collector,
) *VitalService {
	return &VitalService{
		vitals:        repo,
		notifications: notifications,
		ranges:        ranges,
		window:        window,
		log:           log,
		metrics:       m,
	}
}

// CheckVitals evaluates every recording in the lookback window against the
// injected range table and returns one alert record per recording with at
// least one out-of-range field. Pure read+compute; nothing is persisted.
func (s *VitalService) CheckVitals(ctx context.Context) ([]*vitals.AlertRecord, error) {
	since := time.Now().Add(-s.window)
	recordings, err := s.vitals.RecordedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	records := make([]*vitals.AlertRecord, 0)
	for _, v := range recordings {
		entries := vitals.Evaluate(v, s.ranges)
		if len(entries) == 0 {
			continue
		}
		rec := vitals.BuildRecord(v, entries)
		records = append(records, rec)
		if s.metrics != nil {
			s.metrics.VitalAlertsTotal.WithLabelValues(string(rec.Priority)).Inc()
		}
	}

	if s.metrics != nil {
		s.metrics.VitalsEvaluatedTotal.Add(float64(len(recordings)))
	}
	s.log.Info("vitals checked",
		zap.Int("recordings", len(recordings)),
		zap.Int("alerts", len(records)),
	)

	return records, nil
}

type CreateAlertCommand struct {
	PatientID uuid.UUID
	VitalID   uuid.UUID
	Alerts    []vitals.AlertEntry
	// Priority applies uniformly to every notification in the batch; the
	// per-entry status does not influence it. Empty means Medium.
	Priority domain.Priority
}

// CreateAlertNotifications writes one notification per alert entry, all in
// a single transaction.
func (s *VitalService) CreateAlertNotifications(ctx context.Context, cmd *CreateAlertCommand) ([]*domain.Notification, error) {
	var errs []string
	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if len(cmd.Alerts) == 0 {
		errs = append(errs, "alerts must not be empty")
	}
	if cmd.Priority != "" && !cmd.Priority.IsValid() {
		errs = append(errs, "priority must be Low, Medium or High")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	priority := cmd.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	scheduledAt := time.Now().UTC().Format(time.RFC3339)

	ns := make([]*domain.Notification, 0, len(cmd.Alerts))
	for _, a := range cmd.Alerts {
		ns = append(ns, &domain.Notification{
			PatientID:   cmd.PatientID,
			Title:       "Vital Alert: " + strings.ToUpper(strings.ReplaceAll(a.Type, "_", " ")),
			Message:     a.Message,
			Type:        domain.TypeVitalAlert,
			Priority:    priority,
			ScheduledAt: scheduledAt,
		})
	}

	if err := s.notifications.CreateBatch(ctx, ns); err != nil {
		s.log.Error("failed to persist alert notifications",
			zap.String("patient_id", cmd.PatientID.String()),
			zap.String("vital_id", cmd.VitalID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("creating alert notifications: %w", err)
	}

	if s.metrics != nil {
		s.metrics.NotificationsCreatedTotal.
			WithLabelValues(string(domain.TypeVitalAlert)).
			Add(float64(len(ns)))
	}
	s.log.Info("alert notifications created",
		zap.String("patient_id", cmd.PatientID.String()),
		zap.String("vital_id", cmd.VitalID.String()),
		zap.Int("count", len(ns)),
	)

	return ns, nil
}
