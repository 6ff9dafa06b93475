package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/carelink/carelink-api/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var _ domain.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []*domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	// All-or-nothing: a failure mid-batch rolls back every row.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&ns).Error
	})
	if err != nil {
		return fmt.Errorf("inserting notification batch: %w", err)
	}
	return nil
}
