package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/domain/patient"
	"github.com/carelink/carelink-api/pkg/metrics"
)

type PatientService struct {
	repo    patient.Repository
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewPatientService(repo patient.Repository, log *zap.Logger, m *metrics.Collector) *PatientService {
	return &PatientService{repo: repo, log: log, metrics: m}
}

// ListPatients returns every active patient, newest-created first.
// Empty results are an empty list, never null.
func (s *PatientService) ListPatients(ctx context.Context) ([]*patient.Patient, error) {
	patients, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if patients == nil {
		patients = []*patient.Patient{}
	}
	return patients, nil
}

// GetPatient returns the patient regardless of active flag, so deactivated
// records remain readable.
func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) Summary(ctx context.Context) ([]*patient.Summary, error) {
	rows, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*patient.Summary{}
	}
	return rows, nil
}

func (s *PatientService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand) (*patient.Patient, error) {
	if err := validateCreateCommand(cmd); err != nil {
		return nil, err
	}

	gender := cmd.Gender
	if gender == "" {
		gender = patient.GenderUnknown
	}

	p := &patient.Patient{
		FirstName:     strings.TrimSpace(cmd.FirstName),
		LastName:      strings.TrimSpace(cmd.LastName),
		PatientNumber: strings.TrimSpace(cmd.PatientNumber),
		DateOfBirth:   cmd.DateOfBirth,
		Gender:        gender,
		ContactInfo: patient.ContactInfo{
			Phone:   strings.TrimSpace(cmd.Phone),
			Email:   strings.ToLower(strings.TrimSpace(cmd.Email)),
			Address: cmd.Address,
		},
		EmergencyContact: cmd.EmergencyContact,
		MedicalNotes:     cmd.MedicalNotes,
		IsActive:         true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	if s.metrics != nil {
		s.metrics.PatientsCreatedTotal.Inc()
	}
	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("patient_number", p.PatientNumber),
	)

	return p, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	if err := validateUpdateCommand(cmd); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.log.Info("patient updated", zap.String("patient_id", id.String()))
	return p, nil
}

// DeactivatePatient flips is_active to false. The row survives and remains
// retrievable through GetPatient.
func (s *PatientService) DeactivatePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.log.Info("patient deactivated", zap.String("patient_id", id.String()))
	return nil
}

func validateCreateCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if strings.TrimSpace(cmd.PatientNumber) == "" {
		errs = append(errs, "patient_id is required")
	}
	if cmd.Gender != "" && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.DateOfBirth != nil && cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "date_of_birth cannot be in the future")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validateUpdateCommand(cmd *patient.UpdatePatientCommand) error {
	var errs []string

	if cmd.FirstName != nil && strings.TrimSpace(*cmd.FirstName) == "" {
		errs = append(errs, "first_name cannot be blank")
	}
	if cmd.LastName != nil && strings.TrimSpace(*cmd.LastName) == "" {
		errs = append(errs, "last_name cannot be blank")
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.DateOfBirth != nil && cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "date_of_birth cannot be in the future")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
