package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inherbver/herbisveritas-sub008/models"
)

// WebhookEventRepository defines the interface for the webhook audit log
type WebhookEventRepository interface {
	Record(ctx context.Context, event *models.WebhookEvent) error
	MarkProcessed(ctx context.Context, provider, providerEventID, processingError string) error
}

// GormWebhookEventRepository implements WebhookEventRepository using GORM
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new instance of GormWebhookEventRepository
func NewGormWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// Record inserts the delivery. A redelivered event hits the (provider,
// event_id) unique index and is treated as already recorded, not an error.
func (r *GormWebhookEventRepository) Record(ctx context.Context, event *models.WebhookEvent) error {
	err := r.db.WithContext(ctx).Create(event).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// MarkProcessed stamps the delivery with its outcome
func (r *GormWebhookEventRepository) MarkProcessed(ctx context.Context, provider, providerEventID, processingError string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ?", provider, providerEventID).
		Updates(map[string]interface{}{
			"processed_at":     &now,
			"processing_error": processingError,
		}).Error
}
