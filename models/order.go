package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order status constants.
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is created exactly once per checkout session. The unique index on
// StripeSessionID is the sole cross-instance guard against duplicate webhook
// deliveries materializing the same order twice.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	StripeSessionID string          `gorm:"type:varchar(256);uniqueIndex;not null" json:"stripe_session_id"`
	PaymentRef      string          `gorm:"type:varchar(256)" json:"payment_ref"`
	AmountTotal     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount_total"`
	Currency        string          `gorm:"type:varchar(3);not null" json:"currency"`
	Status          string          `gorm:"type:varchar(20);not null;default:'processing'" json:"status"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
	Lines           []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
}

// OrderLine snapshots a product at the moment of purchase so later catalog
// edits never change historical orders.
type OrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string          `gorm:"type:varchar(256);not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	ImageURL    string          `gorm:"type:varchar(1024)" json:"image_url"`
	Quantity    int             `gorm:"not null" json:"quantity"`
}

// UpdateOrderStatusRequest is the admin payload for advancing an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=processing shipped delivered cancelled"`
}
