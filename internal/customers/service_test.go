package customers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	"github.com/sairaahmed/poshaak-backend/pkg/enums"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
)

func setupCustomerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Customer{},
		&models.Order{},
		&models.OrderLineItem{},
	))
	return conn
}

func newCustomerService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "03001234567", NormalizePhone("+92 300 1234567"))
	assert.Equal(t, "03001234567", NormalizePhone("0300-1234567"))
	assert.Equal(t, "03001234567", NormalizePhone("0092 300 1234567"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestIsDHAAddress(t *testing.T) {
	assert.True(t, IsDHAAddress("House 12, DHA Phase 5", "Lahore"))
	assert.True(t, IsDHAAddress("Street 4", "Defence, Karachi"))
	assert.False(t, IsDHAAddress("Gulberg III", "Lahore"))
}

func TestAddCustomerDerivesFields(t *testing.T) {
	conn := setupCustomerTestDB(t)
	svc := newCustomerService(t, conn)
	ctx := context.Background()

	created, err := svc.AddCustomer(ctx, AddCustomerInput{
		Name:    "Ayesha Khan",
		Phone:   "+92 300 1234567",
		Address: "House 12, DHA Phase 5",
		City:    "Lahore",
	})
	require.NoError(t, err)
	assert.Equal(t, "03001234567", created.NormalizedPhone)
	assert.True(t, created.IsDHA)
	assert.Equal(t, 0, created.OrdersCount)

	_, err = svc.AddCustomer(ctx, AddCustomerInput{Name: "Dup", Phone: "0300-1234567"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateCustomerRederivesDHA(t *testing.T) {
	conn := setupCustomerTestDB(t)
	svc := newCustomerService(t, conn)
	ctx := context.Background()

	created, err := svc.AddCustomer(ctx, AddCustomerInput{
		Name:    "Bilal",
		Phone:   "03211234567",
		Address: "Gulberg III",
		City:    "Lahore",
	})
	require.NoError(t, err)
	require.False(t, created.IsDHA)

	addr := "Street 9, Defence"
	updated, err := svc.UpdateCustomer(ctx, created.ID, UpdateCustomerInput{Address: &addr})
	require.NoError(t, err)
	assert.True(t, updated.IsDHA)
}

func TestRecordPurchaseUpsertsByNormalizedPhone(t *testing.T) {
	conn := setupCustomerTestDB(t)
	svc := newCustomerService(t, conn)
	ctx := context.Background()

	first := &models.Order{
		ID:           uuid.New(),
		CustomerName: "Ayesha Khan",
		Phone:        "+92 300 1234567",
		Address:      "House 12, DHA Phase 5",
		City:         "Lahore",
		Total:        decimal.NewFromInt(8499),
		PlacedAt:     time.Now().UTC(),
	}
	second := &models.Order{
		ID:           uuid.New(),
		CustomerName: "Ayesha Khan",
		Phone:        "0300-1234567",
		Address:      "Flat 3, Gulberg III",
		City:         "Lahore",
		Total:        decimal.NewFromInt(1501),
		PlacedAt:     time.Now().UTC().Add(time.Hour),
	}

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return svc.RecordPurchase(ctx, tx, first)
	}))
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return svc.RecordPurchase(ctx, tx, second)
	}))

	var count int64
	require.NoError(t, conn.Model(&models.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var customer models.Customer
	require.NoError(t, conn.First(&customer, "normalized_phone = ?", "03001234567").Error)
	assert.Equal(t, 2, customer.OrdersCount)
	assert.True(t, customer.TotalSpend.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "Flat 3, Gulberg III", customer.Address)
	assert.False(t, customer.IsDHA)
	require.NotNil(t, customer.LastOrderDate)
	assert.True(t, customer.LastOrderDate.After(first.PlacedAt))
}

func TestInsightsProjections(t *testing.T) {
	conn := setupCustomerTestDB(t)
	svc := newCustomerService(t, conn)
	ctx := context.Background()

	// Sunday and Monday orders, one each: tie resolves to Sunday.
	sunday := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	monday := sunday.Add(24 * time.Hour)

	orders := []*models.Order{
		{
			ID:           uuid.New(),
			CustomerName: "Ayesha Khan",
			Phone:        "0300-1234567",
			Address:      "DHA Phase 5",
			City:         "Lahore",
			Total:        decimal.NewFromInt(8499),
			Status:       enums.OrderStatusPending,
			PlacedAt:     sunday,
			Items: []models.OrderLineItem{
				{ID: uuid.New(), ProductID: uuid.New(), Name: "Lawn Kurta", Category: "kurtas", Size: "M", Quantity: 2, UnitPrice: decimal.NewFromInt(4000)},
			},
		},
		{
			ID:           uuid.New(),
			CustomerName: "Ayesha Khan",
			Phone:        "+92 300 1234567",
			Address:      "DHA Phase 5",
			City:         "Lahore",
			Total:        decimal.NewFromInt(1501),
			Status:       enums.OrderStatusPending,
			PlacedAt:     monday,
			Items: []models.OrderLineItem{
				{ID: uuid.New(), ProductID: uuid.New(), Name: "Silk Dupatta", Category: "dupattas", Size: "One Size", Quantity: 1, UnitPrice: decimal.NewFromInt(1501)},
			},
		},
	}
	for _, order := range orders {
		require.NoError(t, conn.Create(order).Error)
		require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
			return svc.RecordPurchase(ctx, tx, order)
		}))
	}

	var customer models.Customer
	require.NoError(t, conn.First(&customer, "normalized_phone = ?", "03001234567").Error)

	insights, err := svc.Insights(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunday", insights.BusyDay)
	assert.Equal(t, "Lawn Kurta", insights.FavoriteItem)
	assert.Equal(t, "kurtas", insights.Preference)
	assert.True(t, insights.AverageOrderValue.Equal(decimal.NewFromInt(5000)))
}

func TestInsightsEmptyCustomer(t *testing.T) {
	conn := setupCustomerTestDB(t)
	svc := newCustomerService(t, conn)
	ctx := context.Background()

	created, err := svc.AddCustomer(ctx, AddCustomerInput{Name: "New", Phone: "03331234567"})
	require.NoError(t, err)

	insights, err := svc.Insights(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, insights.AverageOrderValue.IsZero())
	assert.Empty(t, insights.FavoriteItem)
	assert.Empty(t, insights.BusyDay)
}
