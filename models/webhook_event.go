package models

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEvent is the audit record for every webhook delivery we receive.
// The composite unique index on (provider, event_id) makes redeliveries
// visible without blocking them.
type WebhookEvent struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Provider        string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_webhook_provider_event" json:"provider"`
	ProviderEventID string     `gorm:"type:varchar(256);not null;uniqueIndex:idx_webhook_provider_event" json:"provider_event_id"`
	EventType       string     `gorm:"type:varchar(64);not null" json:"event_type"`
	SignatureValid  bool       `gorm:"not null;default:false" json:"signature_valid"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
