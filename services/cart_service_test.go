package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/services"
)

func newCartFixture(t *testing.T) (services.CartService, *fakeCartRepo, models.Product) {
	t.Helper()
	cartRepo := newFakeCartRepo()
	productRepo, tisane, _ := seedTwoProducts(t)
	logger, _ := zap.NewDevelopment()
	svc := services.NewCartService(cartRepo, productRepo, logger)
	return svc, cartRepo, tisane
}

func TestGetCart_AbsentReadsAsEmpty(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	cart, svcErr := svc.GetCart(context.Background(), uuid.New().String())

	assert.Nil(t, svcErr)
	assert.NotNil(t, cart)
	assert.Empty(t, cart.Items)
}

func TestAddItem_NewProduct(t *testing.T) {
	svc, cartRepo, tisane := newCartFixture(t)
	userID := uuid.New().String()

	cart, svcErr := svc.AddItem(context.Background(), userID, &models.AddCartItemRequest{
		ProductID: tisane.ID.String(),
		Quantity:  2,
	})

	assert.Nil(t, svcErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.NotNil(t, cartRepo.carts[userID], "cart must be persisted")
}

func TestAddItem_SameProductAccumulates(t *testing.T) {
	svc, _, tisane := newCartFixture(t)
	userID := uuid.New().String()
	req := &models.AddCartItemRequest{ProductID: tisane.ID.String(), Quantity: 2}

	_, svcErr := svc.AddItem(context.Background(), userID, req)
	assert.Nil(t, svcErr)
	cart, svcErr := svc.AddItem(context.Background(), userID, req)

	assert.Nil(t, svcErr)
	assert.Len(t, cart.Items, 1, "the same product must stay a single line")
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	_, svcErr := svc.AddItem(context.Background(), uuid.New().String(), &models.AddCartItemRequest{
		ProductID: uuid.New().String(),
		Quantity:  1,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestAddItem_InactiveProduct(t *testing.T) {
	cartRepo := newFakeCartRepo()
	productRepo, tisane, _ := seedTwoProducts(t)
	tisane.Active = false
	productRepo.products[tisane.ID.String()] = tisane
	logger, _ := zap.NewDevelopment()
	svc := services.NewCartService(cartRepo, productRepo, logger)

	_, svcErr := svc.AddItem(context.Background(), uuid.New().String(), &models.AddCartItemRequest{
		ProductID: tisane.ID.String(),
		Quantity:  1,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode, "a delisted product must not enter a cart")
}

func TestUpdateItem_SetsQuantity(t *testing.T) {
	svc, _, tisane := newCartFixture(t)
	userID := uuid.New().String()
	_, _ = svc.AddItem(context.Background(), userID, &models.AddCartItemRequest{ProductID: tisane.ID.String(), Quantity: 2})

	cart, svcErr := svc.UpdateItem(context.Background(), userID, tisane.ID.String(), 5)

	assert.Nil(t, svcErr)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestUpdateItem_MissingLine(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	_, svcErr := svc.UpdateItem(context.Background(), uuid.New().String(), uuid.New().String(), 3)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestRemoveItem_DropsOnlyThatLine(t *testing.T) {
	cartRepo := newFakeCartRepo()
	productRepo, tisane, baume := seedTwoProducts(t)
	logger, _ := zap.NewDevelopment()
	svc := services.NewCartService(cartRepo, productRepo, logger)

	userID := uuid.New().String()
	_, _ = svc.AddItem(context.Background(), userID, &models.AddCartItemRequest{ProductID: tisane.ID.String(), Quantity: 1})
	_, _ = svc.AddItem(context.Background(), userID, &models.AddCartItemRequest{ProductID: baume.ID.String(), Quantity: 2})

	cart, svcErr := svc.RemoveItem(context.Background(), userID, tisane.ID.String())

	assert.Nil(t, svcErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, baume.ID.String(), cart.Items[0].ProductID)
}

func TestClearCart_RemovesStoredCart(t *testing.T) {
	svc, cartRepo, tisane := newCartFixture(t)
	userID := uuid.New().String()
	_, _ = svc.AddItem(context.Background(), userID, &models.AddCartItemRequest{ProductID: tisane.ID.String(), Quantity: 1})

	svcErr := svc.ClearCart(context.Background(), userID)

	assert.Nil(t, svcErr)
	assert.Nil(t, cartRepo.carts[userID])
}
