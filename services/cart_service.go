package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
)

// CartService defines the interface for cart business logic.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError)
	AddItem(ctx context.Context, userID string, req *models.AddCartItemRequest) (*models.Cart, *ServiceError)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, *ServiceError)
	RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, *ServiceError)
	ClearCart(ctx context.Context, userID string) *ServiceError
}

// cartServiceImpl implements CartService.
type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the user's cart, empty when none is stored.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}, UpdatedAt: time.Now()}
	}
	return cart, nil
}

// AddItem puts a product in the cart, accumulating quantity when it is
// already there.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *models.AddCartItemRequest) (*models.Cart, *ServiceError) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid product id"}
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to look up product", zap.String("product_id", req.ProductID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to look up product"}
	}
	if product == nil || !product.Active {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{ProductID: req.ProductID, Quantity: req.Quantity})
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return cart, nil
}

// UpdateItem sets the quantity of a line already in the cart.
func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, &ServiceError{StatusCode: 404, Message: "Item not in cart"}
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return cart, nil
}

// RemoveItem drops a line from the cart.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return cart, nil
}

// ClearCart removes the whole cart.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) *ServiceError {
	if err := s.cartRepo.DeleteCart(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to clear cart"}
	}
	return nil
}
