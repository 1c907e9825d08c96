package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	"github.com/sairaahmed/poshaak-backend/pkg/enums"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
	"github.com/sairaahmed/poshaak-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// promoRedeemer validates and consumes a promo code inside the
// checkout transaction.
type promoRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, code string) (decimal.Decimal, error)
}

// purchaseRecorder upserts the customer aggregate inside the checkout
// transaction.
type purchaseRecorder interface {
	RecordPurchase(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

// Service owns the order ledger and the checkout transaction.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

// PlaceOrderInput carries the checkout form.
type PlaceOrderInput struct {
	CustomerName  string
	Phone         string
	Address       string
	City          string
	PaymentMethod enums.PaymentMethod
	PromoCode     string
}

type service struct {
	repo      *Repository
	tx        txRunner
	promos    promoRedeemer
	customers purchaseRecorder
	logg      *logger.Logger
	metrics   *metrics.CommerceMetrics
}

// NewService builds the order service.
func NewService(
	repo *Repository,
	tx txRunner,
	promos promoRedeemer,
	customers purchaseRecorder,
	logg *logger.Logger,
	m *metrics.CommerceMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promo redeemer required")
	}
	if customers == nil {
		return nil, fmt.Errorf("purchase recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		promos:    promos,
		customers: customers,
		logg:      logg,
		metrics:   m,
	}, nil
}

// PlaceOrder converts the active cart into a ledger entry. Cart
// drain, stock decrement, promo redemption, and the customer upsert
// all commit together or not at all.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.LoadActiveCart(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
		if len(cart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		subtotal := decimal.Zero
		for _, item := range cart.Items {
			subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		total := subtotal
		var appliedCode *string
		if code := strings.ToUpper(strings.TrimSpace(input.PromoCode)); code != "" {
			frac, err := s.promos.Redeem(ctx, tx, code)
			if err != nil {
				return err
			}
			if frac.IsPositive() {
				total = subtotal.Mul(decimal.NewFromInt(1).Sub(frac))
				appliedCode = &code
			}
		}
		total = total.Round(2)

		order := &models.Order{
			CustomerName:  strings.TrimSpace(input.CustomerName),
			Phone:         strings.TrimSpace(input.Phone),
			Address:       strings.TrimSpace(input.Address),
			City:          strings.TrimSpace(input.City),
			Total:         total,
			Status:        enums.OrderStatusPending,
			PaymentMethod: input.PaymentMethod,
			PromoCode:     appliedCode,
			PlacedAt:      time.Now().UTC(),
			Items:         lineItemsFromCart(cart.Items),
		}
		if err := txRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order")
		}

		if err := s.decrementStock(ctx, txRepo, cart.Items); err != nil {
			return err
		}

		if err := txRepo.ClearCart(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
		}

		if err := s.customers.RecordPurchase(ctx, tx, order); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, placed.ID.String())
	s.logg.Info(ctx, "order placed")
	s.metrics.ObserveOrder(placed.Total.InexactFloat64())
	return placed, nil
}

// ListOrders returns the ledger newest first.
func (s *service) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return rows, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

// UpdateStatus overwrites the order status. Any status may follow any
// other, so cancelled orders can be reopened by support.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if _, err := s.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update status")
	}
	return s.GetOrder(ctx, id)
}

// decrementStock reduces variant counts for each purchased line,
// clamping at zero, then recomputes the per-product stock flag.
// Missing variants are skipped so removed sizes never block checkout.
func (s *service) decrementStock(ctx context.Context, txRepo *Repository, items []models.CartItem) error {
	touched := map[uuid.UUID]struct{}{}
	for _, item := range items {
		variant, err := txRepo.FindVariant(ctx, item.ProductID, item.Size)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant")
		}
		variant.Stock -= item.Quantity
		if variant.Stock < 0 {
			variant.Stock = 0
		}
		if err := txRepo.SaveVariant(ctx, variant); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save variant")
		}
		touched[item.ProductID] = struct{}{}
	}

	for productID := range touched {
		product, err := txRepo.LoadProductWithVariants(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}
		if err := txRepo.SetProductInStock(ctx, productID, product.ComputeInStock()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set stock flag")
		}
	}
	return nil
}

func lineItemsFromCart(items []models.CartItem) []models.OrderLineItem {
	lines := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Image:     item.Image,
		})
	}
	return lines
}

func validateCheckout(input PlaceOrderInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address required")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return nil
}
