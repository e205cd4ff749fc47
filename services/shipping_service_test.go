package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/services"
)

// singleOrderRepo serves one known order, the way shipping and order-admin
// flows see the world.

type singleOrderRepo struct {
	*fakeOrderRepo
	order         *models.Order
	statusUpdates []string
}

func newSingleOrderRepo(order *models.Order) *singleOrderRepo {
	return &singleOrderRepo{fakeOrderRepo: newFakeOrderRepo(), order: order}
}

func (f *singleOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if f.order != nil && f.order.ID == id {
		return f.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *singleOrderRepo) FindByIDAndUserID(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	if f.order != nil && f.order.ID == orderID && f.order.UserID == userID {
		return f.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *singleOrderRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status string) error {
	f.statusUpdates = append(f.statusUpdates, status)
	f.order.Status = status
	return nil
}

type fakeShipmentRepo struct {
	byOrder map[uuid.UUID]*models.Shipment
	saveErr error
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{byOrder: make(map[uuid.UUID]*models.Shipment)}
}

func (f *fakeShipmentRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*models.Shipment, error) {
	return f.byOrder[orderID], nil
}

func (f *fakeShipmentRepo) Save(_ context.Context, shipment *models.Shipment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	stored := *shipment
	f.byOrder[shipment.OrderID] = &stored
	return nil
}

func newShippingFixture(t *testing.T) (services.ShippingService, *singleOrderRepo, *fakeShipmentRepo, *models.Order) {
	t.Helper()
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusProcessing}
	orderRepo := newSingleOrderRepo(order)
	shipmentRepo := newFakeShipmentRepo()
	logger, _ := zap.NewDevelopment()
	svc := services.NewShippingService(shipmentRepo, orderRepo, logger)
	return svc, orderRepo, shipmentRepo, order
}

// ---- tests ----

func TestUpsertShipment_ShippedSyncsOrderStatus(t *testing.T) {
	svc, orderRepo, shipmentRepo, order := newShippingFixture(t)

	shipment, svcErr := svc.UpsertShipment(context.Background(), order.ID, &models.UpsertShipmentRequest{
		Carrier:      "Colissimo",
		TrackingCode: "6A00111122223",
		Status:       models.ShipmentStatusShipped,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.ShipmentStatusShipped, shipment.Status)
	assert.NotNil(t, shipment.ShippedAt)
	assert.Nil(t, shipment.DeliveredAt)

	assert.NotNil(t, shipmentRepo.byOrder[order.ID])
	assert.Equal(t, []string{models.OrderStatusShipped}, orderRepo.statusUpdates, "the order must follow the shipment")
}

func TestUpsertShipment_DeliveredStampsBothTimestamps(t *testing.T) {
	svc, orderRepo, _, order := newShippingFixture(t)

	shipment, svcErr := svc.UpsertShipment(context.Background(), order.ID, &models.UpsertShipmentRequest{
		Carrier: "Colissimo",
		Status:  models.ShipmentStatusDelivered,
	})

	assert.Nil(t, svcErr)
	assert.NotNil(t, shipment.ShippedAt)
	assert.NotNil(t, shipment.DeliveredAt)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.Equal(t, []string{models.OrderStatusDelivered}, orderRepo.statusUpdates)
}

func TestUpsertShipment_PreparingLeavesOrderAlone(t *testing.T) {
	svc, orderRepo, _, order := newShippingFixture(t)

	shipment, svcErr := svc.UpsertShipment(context.Background(), order.ID, &models.UpsertShipmentRequest{
		Carrier: "Colissimo",
		Status:  models.ShipmentStatusPreparing,
	})

	assert.Nil(t, svcErr)
	assert.Nil(t, shipment.ShippedAt)
	assert.Empty(t, orderRepo.statusUpdates)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}

func TestUpsertShipment_KeepsFirstShippedTimestamp(t *testing.T) {
	svc, _, shipmentRepo, order := newShippingFixture(t)

	shippedAt := time.Now().Add(-48 * time.Hour)
	shipmentRepo.byOrder[order.ID] = &models.Shipment{
		OrderID:   order.ID,
		Carrier:   "Colissimo",
		Status:    models.ShipmentStatusShipped,
		ShippedAt: &shippedAt,
	}

	shipment, svcErr := svc.UpsertShipment(context.Background(), order.ID, &models.UpsertShipmentRequest{
		Carrier: "Colissimo",
		Status:  models.ShipmentStatusDelivered,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, shippedAt.Unix(), shipment.ShippedAt.Unix(), "the original dispatch time must survive later updates")
	assert.NotNil(t, shipment.DeliveredAt)
}

func TestUpsertShipment_UnknownOrder(t *testing.T) {
	svc, _, _, _ := newShippingFixture(t)

	_, svcErr := svc.UpsertShipment(context.Background(), uuid.New(), &models.UpsertShipmentRequest{
		Carrier: "Colissimo",
		Status:  models.ShipmentStatusShipped,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestGetTracking_Success(t *testing.T) {
	svc, _, shipmentRepo, order := newShippingFixture(t)
	shipmentRepo.byOrder[order.ID] = &models.Shipment{
		OrderID:      order.ID,
		Carrier:      "Colissimo",
		TrackingCode: "6A00111122223",
		Status:       models.ShipmentStatusShipped,
	}

	shipment, svcErr := svc.GetTracking(context.Background(), order.ID, order.UserID)

	assert.Nil(t, svcErr)
	assert.Equal(t, "6A00111122223", shipment.TrackingCode)
}

func TestGetTracking_ScopedToOwner(t *testing.T) {
	svc, _, shipmentRepo, order := newShippingFixture(t)
	shipmentRepo.byOrder[order.ID] = &models.Shipment{OrderID: order.ID, Carrier: "Colissimo"}

	_, svcErr := svc.GetTracking(context.Background(), order.ID, uuid.New())

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode, "another user's order must read as absent, not forbidden")
}

func TestGetTracking_NoShipmentYet(t *testing.T) {
	svc, _, _, order := newShippingFixture(t)

	_, svcErr := svc.GetTracking(context.Background(), order.ID, order.UserID)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
