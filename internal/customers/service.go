package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db"
	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
)

// Service owns the customer directory and its derived analytics.
type Service interface {
	AddCustomer(ctx context.Context, input AddCustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	Insights(ctx context.Context, id uuid.UUID) (*Insights, error)
	RecordPurchase(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

// AddCustomerInput carries the directory create form.
type AddCustomerInput struct {
	Name    string
	Phone   string
	Address string
	City    string
}

// UpdateCustomerInput carries partial directory edits.
type UpdateCustomerInput struct {
	Name    *string
	Phone   *string
	Address *string
	City    *string
}

// Insights are read-time projections over a customer's orders. Nothing
// here is stored.
type Insights struct {
	BusyDay           string
	FavoriteItem      string
	Preference        string
	AverageOrderValue decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService builds the customer directory service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

// AddCustomer inserts a directory record. The normalized-phone unique
// index backstops callers that skip the dedup lookup.
func (s *service) AddCustomer(ctx context.Context, input AddCustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}

	now := time.Now().UTC()
	customer := &models.Customer{
		Name:            name,
		Phone:           phone,
		NormalizedPhone: normalized,
		Address:         strings.TrimSpace(input.Address),
		City:            strings.TrimSpace(input.City),
		IsDHA:           IsDHAAddress(input.Address, input.City),
		TotalSpend:      decimal.Zero,
		JoinedDate:      now,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer with this phone already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return customer, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		normalized := NormalizePhone(phone)
		if normalized == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
		}
		customer.Phone = phone
		customer.NormalizedPhone = normalized
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		customer.City = strings.TrimSpace(*input.City)
	}
	customer.IsDHA = IsDHAAddress(customer.Address, customer.City)

	if err := s.repo.Save(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer with this phone already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save customer")
	}
	return customer, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
	}
	return nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	return customer, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}
	return rows, nil
}

// RecordPurchase applies the checkout upsert inside the caller's
// transaction: existing customers accumulate, new ones are seeded from
// the order's contact fields.
func (s *service) RecordPurchase(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	txRepo := s.repo.WithTx(tx)
	normalized := NormalizePhone(order.Phone)
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}

	customer, err := txRepo.FindByNormalizedPhone(ctx, normalized)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup customer")
		}
		placedAt := order.PlacedAt
		fresh := &models.Customer{
			Name:            order.CustomerName,
			Phone:           order.Phone,
			NormalizedPhone: normalized,
			Address:         order.Address,
			City:            order.City,
			IsDHA:           IsDHAAddress(order.Address, order.City),
			OrdersCount:     1,
			TotalSpend:      order.Total,
			LastOrderDate:   &placedAt,
			JoinedDate:      order.PlacedAt,
		}
		if err := txRepo.Create(ctx, fresh); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
		}
		return nil
	}

	placedAt := order.PlacedAt
	customer.OrdersCount++
	customer.TotalSpend = customer.TotalSpend.Add(order.Total)
	customer.LastOrderDate = &placedAt
	customer.Address = order.Address
	customer.City = order.City
	customer.IsDHA = IsDHAAddress(order.Address, order.City)
	if err := txRepo.Save(ctx, customer); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save customer")
	}
	return nil
}

// Insights derives the per-customer analytics from the order ledger.
func (s *service) Insights(ctx context.Context, id uuid.UUID) (*Insights, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	var matched []models.Order
	for _, order := range orders {
		if NormalizePhone(order.Phone) == customer.NormalizedPhone {
			matched = append(matched, order)
		}
	}

	result := &Insights{AverageOrderValue: decimal.Zero}
	if customer.OrdersCount > 0 {
		result.AverageOrderValue = customer.TotalSpend.
			DivRound(decimal.NewFromInt(int64(customer.OrdersCount)), 2)
	}
	if len(matched) == 0 {
		return result, nil
	}

	result.BusyDay = busiestWeekday(matched)
	result.FavoriteItem = topByQuantity(matched, func(item models.OrderLineItem) string { return item.Name })
	result.Preference = topByQuantity(matched, func(item models.OrderLineItem) string { return item.Category })
	return result, nil
}

// busiestWeekday scans Sunday through Saturday and keeps the first
// maximum, so ties resolve to the lowest weekday index.
func busiestWeekday(orders []models.Order) string {
	var counts [7]int
	for _, order := range orders {
		counts[int(order.PlacedAt.Weekday())]++
	}
	best := 0
	for day := 1; day < 7; day++ {
		if counts[day] > counts[best] {
			best = day
		}
	}
	return time.Weekday(best).String()
}

// topByQuantity returns the key with the highest cumulative quantity,
// breaking ties by first encounter in iteration order.
func topByQuantity(orders []models.Order, key func(models.OrderLineItem) string) string {
	totals := map[string]int{}
	var seen []string
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := totals[key(item)]; !ok {
				seen = append(seen, key(item))
			}
			totals[key(item)] += item.Quantity
		}
	}

	best := ""
	bestQty := 0
	for _, k := range seen {
		if totals[k] > bestQty {
			best = k
			bestQty = totals[k]
		}
	}
	return best
}
