package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carelink/carelink-api/internal/domain/patient"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

var _ patient.Repository = (*PatientRepository)(nil)

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return patient.ErrPatientAlreadyExists
		}
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, fmt.Errorf("fetching patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	updates := map[string]any{}
	if cmd.FirstName != nil {
		updates["first_name"] = *cmd.FirstName
	}
	if cmd.LastName != nil {
		updates["last_name"] = *cmd.LastName
	}
	if cmd.DateOfBirth != nil {
		updates["date_of_birth"] = *cmd.DateOfBirth
	}
	if cmd.Gender != nil {
		updates["gender"] = *cmd.Gender
	}
	if cmd.Phone != nil {
		updates["phone"] = *cmd.Phone
	}
	if cmd.Email != nil {
		updates["email"] = *cmd.Email
	}
	if cmd.Address != nil {
		updates["address"] = *cmd.Address
	}
	if cmd.EmergencyContact != nil {
		updates["emergency_contact"] = cmd.EmergencyContact
	}
	if cmd.MedicalNotes != nil {
		updates["medical_notes"] = *cmd.MedicalNotes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("updating patient: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrPatientNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *PatientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivating patient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) ListActive(ctx context.Context) ([]*patient.Patient, error) {
	var patients []*patient.Patient
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) Summary(ctx context.Context) ([]*patient.Summary, error) {
	var rows []*patient.Summary
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetching patient summary: %w", err)
	}
	return rows, nil
}
