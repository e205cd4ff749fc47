package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inherbver/herbisveritas-sub008/models"
)

// ShipmentRepository defines the interface for shipment data access
type ShipmentRepository interface {
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error)
	Save(ctx context.Context, shipment *models.Shipment) error
}

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new instance of GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByOrderID retrieves the shipment for an order. Absent reads as (nil, nil).
func (r *GormShipmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.WithContext(ctx).First(&shipment, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

// Save inserts or updates the shipment
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Save(shipment).Error
}
