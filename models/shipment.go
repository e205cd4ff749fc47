package models

import (
	"time"

	"github.com/google/uuid"
)

// Shipment status constants.
const (
	ShipmentStatusPreparing = "preparing"
	ShipmentStatusShipped   = "shipped"
	ShipmentStatusDelivered = "delivered"
)

// Shipment holds the tracking data an admin enters for a dispatched order.
// One shipment per order.
type Shipment struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Carrier      string     `gorm:"type:varchar(64);not null" json:"carrier"`
	TrackingCode string     `gorm:"type:varchar(256)" json:"tracking_code"`
	TrackingURL  string     `gorm:"type:varchar(1024)" json:"tracking_url"`
	Status       string     `gorm:"type:varchar(32);not null;default:'preparing'" json:"status"`
	ShippedAt    *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// UpsertShipmentRequest is the admin payload for recording tracking data.
type UpsertShipmentRequest struct {
	Carrier      string `json:"carrier" binding:"required,min=2,max=64"`
	TrackingCode string `json:"tracking_code"`
	TrackingURL  string `json:"tracking_url"`
	Status       string `json:"status" binding:"required,oneof=preparing shipped delivered"`
}
