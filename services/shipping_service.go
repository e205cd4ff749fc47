package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
)

// ShippingService defines the interface for shipment tracking.
type ShippingService interface {
	UpsertShipment(ctx context.Context, orderID uuid.UUID, req *models.UpsertShipmentRequest) (*models.Shipment, *ServiceError)
	GetTracking(ctx context.Context, orderID, userID uuid.UUID) (*models.Shipment, *ServiceError)
}

// shippingServiceImpl implements ShippingService.
type shippingServiceImpl struct {
	shipmentRepo repository.ShipmentRepository
	orderRepo    repository.OrderRepository
	logger       *zap.Logger
}

// NewShippingService creates a new ShippingService.
func NewShippingService(shipmentRepo repository.ShipmentRepository, orderRepo repository.OrderRepository, logger *zap.Logger) ShippingService {
	return &shippingServiceImpl{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		logger:       logger,
	}
}

// UpsertShipment creates or updates the shipment attached to an order and
// mirrors shipped/delivered transitions onto the order status.
func (s *shippingServiceImpl) UpsertShipment(ctx context.Context, orderID uuid.UUID, req *models.UpsertShipmentRequest) (*models.Shipment, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to get order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get order"}
	}

	shipment, err := s.shipmentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to load shipment", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load shipment"}
	}
	if shipment == nil {
		shipment = &models.Shipment{OrderID: orderID, Status: models.ShipmentStatusPreparing}
	}

	if req.Carrier != "" {
		shipment.Carrier = req.Carrier
	}
	if req.TrackingCode != "" {
		shipment.TrackingCode = req.TrackingCode
	}
	if req.TrackingURL != "" {
		shipment.TrackingURL = req.TrackingURL
	}
	if req.Status != "" {
		shipment.Status = req.Status
	}

	now := time.Now()
	switch shipment.Status {
	case models.ShipmentStatusShipped:
		if shipment.ShippedAt == nil {
			shipment.ShippedAt = &now
		}
	case models.ShipmentStatusDelivered:
		if shipment.ShippedAt == nil {
			shipment.ShippedAt = &now
		}
		if shipment.DeliveredAt == nil {
			shipment.DeliveredAt = &now
		}
	}

	if err := s.shipmentRepo.Save(ctx, shipment); err != nil {
		s.logger.Error("Failed to save shipment", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save shipment"}
	}

	if orderStatus := orderStatusFor(shipment.Status); orderStatus != "" && order.Status != orderStatus {
		if err := s.orderRepo.UpdateStatus(ctx, orderID, orderStatus); err != nil {
			s.logger.Error("Failed to sync order status from shipment",
				zap.String("order_id", orderID.String()),
				zap.String("status", orderStatus),
				zap.Error(err),
			)
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to sync order status"}
		}
	}

	s.logger.Info("Shipment saved",
		zap.String("order_id", orderID.String()),
		zap.String("status", shipment.Status),
		zap.String("tracking_code", shipment.TrackingCode),
	)
	return shipment, nil
}

// GetTracking returns the shipment for an order owned by the given user.
func (s *shippingServiceImpl) GetTracking(ctx context.Context, orderID, userID uuid.UUID) (*models.Shipment, *ServiceError) {
	if _, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to get order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get order"}
	}

	shipment, err := s.shipmentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to load shipment", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load shipment"}
	}
	if shipment == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "No tracking information available yet"}
	}
	return shipment, nil
}

// orderStatusFor maps a shipment status to the order status it implies.
func orderStatusFor(shipmentStatus string) string {
	switch shipmentStatus {
	case models.ShipmentStatusShipped:
		return models.OrderStatusShipped
	case models.ShipmentStatusDelivered:
		return models.OrderStatusDelivered
	default:
		return ""
	}
}
