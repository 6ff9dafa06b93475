package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/carelink/carelink-api/internal/domain/vitals"
)

type VitalRepository struct {
	db *gorm.DB
}

func NewVitalRepository(db *gorm.DB) *VitalRepository {
	return &VitalRepository{db: db}
}

var _ vitals.Repository = (*VitalRepository)(nil)

func (r *VitalRepository) RecordedSince(ctx context.Context, since time.Time) ([]*vitals.Vital, error) {
	var rows []*vitals.Vital
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("recorded_at >= ?", since).
		Order("recorded_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing vital recordings: %w", err)
	}
	return rows, nil
}
