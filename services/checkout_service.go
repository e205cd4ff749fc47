package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
)

// MaterializeOutcome tells a created order apart from an idempotent replay.
type MaterializeOutcome string

const (
	OutcomeCreated          MaterializeOutcome = "created"
	OutcomeAlreadyProcessed MaterializeOutcome = "already_processed"
)

// MaterializeResult is the success payload of order materialization. Order may
// be nil when a concurrent delivery won the insert race and the re-read failed.
type MaterializeResult struct {
	Outcome MaterializeOutcome
	Order   *models.Order
}

// CheckoutService opens payment sessions and materializes orders from
// payment-confirmation events.
type CheckoutService interface {
	CreateSession(ctx context.Context, userID string) (*models.CheckoutResponse, *ServiceError)
	MaterializeOrder(ctx context.Context, event models.PaymentEvent) (*MaterializeResult, *ServiceError)
}

// checkoutServiceImpl implements CheckoutService.
type checkoutServiceImpl struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	sessions    SessionCreator
	currency    string
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	sessions SessionCreator,
	currency string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		sessions:    sessions,
		currency:    strings.ToLower(currency),
		logger:      logger,
	}
}

// CreateSession prices the user's cart from the catalog and opens a hosted
// checkout session. The user ID doubles as the cart reference carried in the
// session metadata.
func (s *checkoutServiceImpl) CreateSession(ctx context.Context, userID string) (*models.CheckoutResponse, *ServiceError) {
	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart for checkout", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	products, svcErr := s.resolveProducts(ctx, cart.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	lines := make([]CheckoutLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := products[item.ProductID]
		if !product.Active {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Product %s is no longer available", product.Name)}
		}
		if product.Stock < item.Quantity {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Insufficient stock for %s", product.Name)}
		}
		lines = append(lines, CheckoutLine{
			Name:       product.Name,
			UnitAmount: toMinorUnits(product.Price),
			Quantity:   int64(item.Quantity),
		})
	}

	sess, err := s.sessions.CreateCheckoutSession(lines, s.currency, cart.UserID, userID)
	if err != nil {
		s.logger.Error("Failed to create checkout session", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Payment provider unavailable"}
	}

	s.logger.Info("Checkout session created",
		zap.String("user_id", userID),
		zap.String("session_id", sess.ID),
	)
	return &models.CheckoutResponse{SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}

// MaterializeOrder turns a verified payment confirmation into exactly one
// order with its snapshot lines, surviving provider redelivery. The uniqueness
// constraint on the session ID is the sole cross-instance guarantee; the
// existence pre-check only short-circuits the common replay.
func (s *checkoutServiceImpl) MaterializeOrder(ctx context.Context, event models.PaymentEvent) (*MaterializeResult, *ServiceError) {
	if event.SessionID == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Payment event has no session identifier"}
	}

	existing, err := s.orderRepo.FindBySessionID(ctx, event.SessionID)
	if err != nil {
		s.logger.Error("Failed to check for existing order", zap.String("session_id", event.SessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to check for existing order"}
	}
	if existing != nil {
		s.logger.Info("Order already materialized for session",
			zap.String("session_id", event.SessionID),
			zap.String("order_id", existing.ID.String()),
		)
		return &MaterializeResult{Outcome: OutcomeAlreadyProcessed, Order: existing}, nil
	}

	if event.CartRef == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Payment event has no cart reference"}
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Payment event has an invalid user reference"}
	}

	cart, err := s.cartRepo.GetCart(ctx, event.CartRef)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("cart_ref", event.CartRef), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("No billable cart found for reference %s", event.CartRef)}
	}

	products, svcErr := s.resolveProducts(ctx, cart.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	order := &models.Order{
		UserID:          userID,
		StripeSessionID: event.SessionID,
		PaymentRef:      event.PaymentRef,
		AmountTotal:     toMajorUnits(event.AmountTotal),
		Currency:        strings.ToUpper(event.Currency),
		Status:          models.OrderStatusProcessing,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if isDuplicateErr(err) {
			// A concurrent delivery won the insert race.
			winner, findErr := s.orderRepo.FindBySessionID(ctx, event.SessionID)
			if findErr != nil {
				winner = nil
			}
			s.logger.Info("Concurrent delivery already materialized the order",
				zap.String("session_id", event.SessionID),
			)
			return &MaterializeResult{Outcome: OutcomeAlreadyProcessed, Order: winner}, nil
		}
		s.logger.Error("Failed to insert order", zap.String("session_id", event.SessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	lines := make([]models.OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := products[item.ProductID]
		lines = append(lines, models.OrderLine{
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			ImageURL:    product.ImageURL,
			Quantity:    item.Quantity,
		})
	}

	if err := s.orderRepo.CreateLines(ctx, lines); err != nil {
		s.logger.Error("Failed to insert order lines, rolling back order",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		if delErr := s.orderRepo.HardDelete(ctx, order.ID); delErr != nil {
			s.logger.Error("Compensating delete failed, order left without lines",
				zap.String("order_id", order.ID.String()),
				zap.Error(delErr),
			)
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order lines"}
	}
	order.Lines = lines

	// The cart is consumed. A failed clear costs a stale cart, not correctness.
	if err := s.cartRepo.DeleteCart(ctx, event.CartRef); err != nil {
		s.logger.Warn("Failed to clear cart after order creation",
			zap.String("cart_ref", event.CartRef),
			zap.Error(err),
		)
	}

	s.logger.Info("Order materialized",
		zap.String("session_id", event.SessionID),
		zap.String("order_id", order.ID.String()),
		zap.String("event_id", event.EventID),
		zap.Int("lines", len(lines)),
	)
	return &MaterializeResult{Outcome: OutcomeCreated, Order: order}, nil
}

// resolveProducts loads every product referenced by the cart. A reference to
// a product that no longer exists is permanent: redelivery would fail the
// same way, so no write should happen.
func (s *checkoutServiceImpl) resolveProducts(ctx context.Context, items []models.CartItem) (map[string]*models.Product, *ServiceError) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Invalid product reference %s", item.ProductID)}
		}
		ids = append(ids, id)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to resolve cart products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to resolve cart products"}
	}

	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID.String()] = &products[i]
	}
	for _, item := range items {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Product %s no longer exists", item.ProductID)}
		}
	}
	return byID, nil
}

func toMinorUnits(major decimal.Decimal) int64 {
	return major.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func toMajorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100))
}
