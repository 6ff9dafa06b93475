package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on duplicate PatientNumber.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key regardless of active flag.
	// Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// Update applies partial updates and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error)

	// Deactivate sets is_active=false. The row is retained (retention requirement).
	Deactivate(ctx context.Context, id uuid.UUID) error

	// ListActive returns all active patients, newest-created first.
	ListActive(ctx context.Context) ([]*Patient, error)

	// Summary returns the precomputed patient_summary view rows.
	Summary(ctx context.Context) ([]*Summary, error)
}
