package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/internal/cart"
	"github.com/sairaahmed/poshaak-backend/internal/catalog"
	"github.com/sairaahmed/poshaak-backend/internal/customers"
	"github.com/sairaahmed/poshaak-backend/internal/orders"
	"github.com/sairaahmed/poshaak-backend/internal/promotions"
	"github.com/sairaahmed/poshaak-backend/internal/reviews"
	"github.com/sairaahmed/poshaak-backend/pkg/config"
	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
	"github.com/sairaahmed/poshaak-backend/pkg/metrics"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CartRecord{},
		&models.CartItem{},
		&models.PromoCode{},
		&models.Order{},
		&models.OrderLineItem{},
		&models.Customer{},
		&models.Review{},
	))

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	tx := gormTxRunner{db: conn}
	registry := prometheus.NewRegistry()
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	catalogRepo := catalog.NewRepository(conn)
	catalogService, err := catalog.NewService(catalogRepo, tx)
	require.NoError(t, err)
	cartService, err := cart.NewService(cart.NewRepository(conn), catalogRepo)
	require.NoError(t, err)
	promoService, err := promotions.NewService(promotions.NewRepository(conn), tx, commerceMetrics)
	require.NoError(t, err)
	customerService, err := customers.NewService(customers.NewRepository(conn))
	require.NoError(t, err)
	orderService, err := orders.NewService(orders.NewRepository(conn), tx, promoService, customerService, logg, commerceMetrics)
	require.NoError(t, err)
	reviewService, err := reviews.NewService(reviews.NewRepository(conn), catalogRepo)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Env = "test"

	handler := NewRouter(
		cfg,
		logg,
		gormPinger{db: conn},
		registry,
		catalogService,
		cartService,
		promoService,
		orderService,
		customerService,
		reviewService,
	)
	return handler, conn
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestHealthEndpoints(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Poshaak-Env"))

	rec = doJSON(t, handler, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", map[string]any{
		"name":     "Lawn Kurta",
		"category": "kurtas",
		"price":    "4500",
		"variants": []map[string]any{
			{"size": "S", "stock": 2},
			{"size": "M", "stock": 0},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := dataField(t, rec)
	productID, ok := data["ID"].(string)
	require.True(t, ok)
	assert.Equal(t, true, data["InStock"])

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products/"+productID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPatch, "/api/v1/products/"+productID, map[string]any{
		"price": "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutOverHTTP(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", map[string]any{
		"name":     "Khaddar Shalwar Suit",
		"category": "shalwar suits",
		"price":    "8499",
		"variants": []map[string]any{{"size": "M", "stock": 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := dataField(t, rec)["ID"].(string)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/promos", map[string]any{
		"code":                "EID10",
		"discount_percentage": 10,
		"usage_limit":         -1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": productID,
		"size":       "M",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_name":  "Ayesha Khan",
		"phone":          "+92 300 1234567",
		"address":        "House 12, DHA Phase 5",
		"city":           "Lahore",
		"payment_method": "cod",
		"promo_code":     "EID10",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := dataField(t, rec)
	assert.Equal(t, "7649.1", order["Total"])
	assert.Equal(t, "pending", order["Status"])

	// Cart was consumed by the order.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cartData := dataField(t, rec)
	items, _ := cartData["Items"].([]any)
	assert.Empty(t, items)

	// Checkout with an empty cart is rejected.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_name":  "Ayesha Khan",
		"phone":          "+92 300 1234567",
		"address":        "House 12, DHA Phase 5",
		"payment_method": "cod",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPromoValidateOverHTTP(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/promos/MISSING/validate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataField(t, rec)
	assert.Equal(t, "0", data["discount"])
}
