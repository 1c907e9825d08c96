package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db"
	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
	"github.com/sairaahmed/poshaak-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes coupon management and the sale pricing engine.
type Service interface {
	AddPromo(ctx context.Context, input AddPromoInput) (*models.PromoCode, error)
	DeletePromo(ctx context.Context, code string) error
	TogglePromo(ctx context.Context, code string) (*models.PromoCode, error)
	ListPromos(ctx context.Context) ([]models.PromoCode, error)
	ValidatePromo(ctx context.Context, code string) decimal.Decimal
	Redeem(ctx context.Context, tx *gorm.DB, code string) (decimal.Decimal, error)
	ApplySale(ctx context.Context, productIDs []uuid.UUID, percent int) (int, error)
	RemoveSale(ctx context.Context, productIDs []uuid.UUID) (int, error)
}

// AddPromoInput holds the validated payload to create a promo code.
type AddPromoInput struct {
	Code               string
	DiscountPercentage int
	UsageLimit         int
}

type service struct {
	repo    *Repository
	tx      txRunner
	metrics *metrics.CommerceMetrics
}

// NewService builds the promotion service.
func NewService(repo *Repository, tx txRunner, m *metrics.CommerceMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: m}, nil
}

// AddPromo creates a promo code with a unique code.
func (s *service) AddPromo(ctx context.Context, input AddPromoInput) (*models.PromoCode, error) {
	code := normalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code required")
	}
	if input.DiscountPercentage < 1 || input.DiscountPercentage > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 1 and 100")
	}
	if input.UsageLimit < -1 || input.UsageLimit == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be -1 or a positive cap")
	}

	promo := &models.PromoCode{
		Code:               code,
		DiscountPercentage: input.DiscountPercentage,
		UsageLimit:         input.UsageLimit,
		IsActive:           true,
	}
	created, err := s.repo.CreatePromo(ctx, promo)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "promo code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert promo")
	}
	return created, nil
}

// DeletePromo removes a promo code.
func (s *service) DeletePromo(ctx context.Context, code string) error {
	if _, err := s.loadPromo(ctx, code); err != nil {
		return err
	}
	if err := s.repo.DeletePromo(ctx, normalizeCode(code)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete promo")
	}
	return nil
}

// TogglePromo flips the active flag.
func (s *service) TogglePromo(ctx context.Context, code string) (*models.PromoCode, error) {
	promo, err := s.loadPromo(ctx, code)
	if err != nil {
		return nil, err
	}
	promo.IsActive = !promo.IsActive
	if err := s.repo.SavePromo(ctx, promo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save promo")
	}
	return promo, nil
}

// ListPromos returns all promo codes.
func (s *service) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	rows, err := s.repo.ListPromos(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list promos")
	}
	return rows, nil
}

// ValidatePromo returns the discount as a fraction (0.10 for 10%) when
// the code is active and not exhausted, and zero otherwise. Zero means
// "no discount", never an error.
func (s *service) ValidatePromo(ctx context.Context, code string) decimal.Decimal {
	promo, err := s.repo.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		s.metrics.IncPromoValidation("unknown")
		return decimal.Zero
	}
	if !promo.IsActive {
		s.metrics.IncPromoValidation("inactive")
		return decimal.Zero
	}
	if !promo.Redeemable() {
		s.metrics.IncPromoValidation("exhausted")
		return decimal.Zero
	}
	s.metrics.IncPromoValidation("valid")
	return fraction(promo.DiscountPercentage)
}

// Redeem validates the code inside the caller's transaction and
// increments its usage count. Checkout calls this so the counter moves
// with the order commit.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, code string) (decimal.Decimal, error) {
	txRepo := s.repo.WithTx(tx)
	promo, err := txRepo.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo")
	}
	if !promo.Redeemable() {
		return decimal.Zero, nil
	}
	promo.UsedCount++
	if err := txRepo.SavePromo(ctx, promo); err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save promo usage")
	}
	return fraction(promo.DiscountPercentage), nil
}

// ApplySale discounts the selected products by percent off their base
// price. The base is the existing compare-at price when a sale is
// already active, so reapplying never compounds. The whole batch is
// committed as one transaction.
func (s *service) ApplySale(ctx context.Context, productIDs []uuid.UUID, percent int) (int, error) {
	if percent <= 0 || percent >= 100 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "sale percent must be between 1 and 99")
	}
	if len(productIDs) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "no products selected")
	}

	multiplier := decimal.NewFromInt(1).Sub(fraction(percent))
	affected := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		products, err := txRepo.ListProductsByIDs(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
		}
		for i := range products {
			product := &products[i]
			base := product.Price
			if product.CompareAtPrice != nil {
				base = *product.CompareAtPrice
			}
			product.Price = base.Mul(multiplier).Round(0)
			baseCopy := base
			product.CompareAtPrice = &baseCopy
			if err := txRepo.SaveProductPrice(ctx, product); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save sale price")
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// RemoveSale restores the base price on products with an active sale.
// Products without one are skipped, not errors.
func (s *service) RemoveSale(ctx context.Context, productIDs []uuid.UUID) (int, error) {
	if len(productIDs) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "no products selected")
	}

	affected := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		products, err := txRepo.ListProductsByIDs(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
		}
		for i := range products {
			product := &products[i]
			if product.CompareAtPrice == nil {
				continue
			}
			product.Price = *product.CompareAtPrice
			product.CompareAtPrice = nil
			if err := txRepo.SaveProductPrice(ctx, product); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore price")
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *service) loadPromo(ctx context.Context, code string) (*models.PromoCode, error) {
	promo, err := s.repo.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo")
	}
	return promo, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func fraction(percent int) decimal.Decimal {
	return decimal.NewFromInt(int64(percent)).Div(decimal.NewFromInt(100))
}
