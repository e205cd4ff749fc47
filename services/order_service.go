package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
)

// OrderService defines the interface for order read and admin flows. Order
// creation itself happens only through checkout materialization.
type OrderService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError)
	GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *ServiceError)
	ListAll(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError)
}

// orderServiceImpl implements OrderService.
type orderServiceImpl struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// ListForUser returns a page of the user's own orders, lines included.
func (s *orderServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := s.orderRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list orders"}
	}
	return orders, total, nil
}

// GetForUser returns one order scoped to its owner.
func (s *orderServiceImpl) GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to get order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get order"}
	}
	return order, nil
}

// ListAll returns a page of every order for the back office.
func (s *orderServiceImpl) ListAll(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list orders"}
	}
	return orders, total, nil
}

// UpdateStatus advances an order. Delivered and cancelled are terminal.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to get order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get order"}
	}

	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return nil, &ServiceError{StatusCode: 409, Message: "Order is in a terminal state"}
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order status"}
	}

	order.Status = status
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", status),
	)
	return order, nil
}
