package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/config"
	"github.com/carelink/carelink-api/internal/domain/vitals"
	v1 "github.com/carelink/carelink-api/internal/handler/v1"
	"github.com/carelink/carelink-api/internal/repository"
	"github.com/carelink/carelink-api/internal/service"
	"github.com/carelink/carelink-api/pkg/auth"
	"github.com/carelink/carelink-api/pkg/database"
	"github.com/carelink/carelink-api/pkg/logger"
	"github.com/carelink/carelink-api/pkg/metrics"
	"github.com/carelink/carelink-api/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "carelink-api:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	collector := metrics.NewCollector("carelink")
	verifier := auth.NewTokenVerifier(cfg.JWT)

	patientRepo := repository.NewPatientRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	vitalRepo := repository.NewVitalRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	patientSvc := service.NewPatientService(patientRepo, log, collector)
	reminderSvc := service.NewReminderService(
		medicationRepo, notificationRepo, log, collector,
		cfg.Scheduling.ReminderLookaheadDays,
	)
	vitalSvc := service.NewVitalService(
		vitalRepo, notificationRepo,
		rangeTable(cfg.Alerts), cfg.Alerts.VitalsWindow,
		log, collector,
	)

	router := v1.NewRouter(v1.RouterDeps{
		Config:    cfg,
		Log:       log,
		Metrics:   collector,
		Verifier:  verifier,
		DB:        db,
		Patients:  v1.NewPatientHandler(patientSvc),
		Reminders: v1.NewReminderHandler(reminderSvc),
		Vitals:    v1.NewVitalHandler(vitalSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// rangeTable maps the env-tunable alert configuration onto the evaluator's
// range table.
func rangeTable(cfg config.AlertsConfig) vitals.RangeTable {
	band := func(r config.AlertRange) vitals.Range {
		return vitals.Range{Min: r.Min, Max: r.Max}
	}
	return vitals.RangeTable{
		BloodPressureSystolic:  band(cfg.BloodPressureSystolic),
		BloodPressureDiastolic: band(cfg.BloodPressureDiastolic),
		HeartRate:              band(cfg.HeartRate),
		Temperature:            band(cfg.Temperature),
		RespiratoryRate:        band(cfg.RespiratoryRate),
		OxygenSaturation:       band(cfg.OxygenSaturation),
		GlucoseLevel:           band(cfg.GlucoseLevel),
		BMI:                    band(cfg.BMI),
	}
}
