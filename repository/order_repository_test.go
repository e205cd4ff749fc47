package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestFindBySessionID_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "stripe_session_id", "amount_total", "currency", "status", "created_at", "updated_at"}).
		AddRow(id, uuid.New(), "cs_test_123", "32.50", "EUR", models.OrderStatusProcessing, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(rows)

	order, err := repo.FindBySessionID(context.Background(), "cs_test_123")
	assert.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, "cs_test_123", order.StripeSessionID)
}

func TestFindBySessionID_AbsentReadsAsNil(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	order, err := repo.FindBySessionID(context.Background(), "cs_missing")
	assert.NoError(t, err, "absence is not an error")
	assert.Nil(t, order)
}

func TestFindBySessionID_DBError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnError(errors.New("connection refused"))

	order, err := repo.FindBySessionID(context.Background(), "cs_test_123")
	assert.Error(t, err)
	assert.Nil(t, order)
}

func TestCreateOrder_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := &models.Order{
		UserID:          uuid.New(),
		StripeSessionID: "cs_test_123",
		Currency:        "EUR",
		Status:          models.OrderStatusProcessing,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), order)
	assert.NoError(t, err)
}

func TestCreateOrder_DuplicateSessionSurfaces(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := &models.Order{
		UserID:          uuid.New(),
		StripeSessionID: "cs_test_123",
		Currency:        "EUR",
		Status:          models.OrderStatusProcessing,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_orders_stripe_session_id"`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestCreateLines_Batch(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	orderID := uuid.New()
	lines := []models.OrderLine{
		{OrderID: orderID, ProductID: uuid.New(), ProductName: "Tisane de thym", Quantity: 1},
		{OrderID: orderID, ProductID: uuid.New(), ProductName: "Baume au calendula", Quantity: 2},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_lines"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.CreateLines(context.Background(), lines)
	assert.NoError(t, err)
}

func TestCreateLines_EmptySliceIsNoop(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	err := repo.CreateLines(context.Background(), nil)
	assert.NoError(t, err)
}

func TestHardDelete_RemovesRow(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.HardDelete(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestUpdateStatus_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), uuid.New(), models.OrderStatusShipped)
	assert.NoError(t, err)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), uuid.New(), models.OrderStatusShipped)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
