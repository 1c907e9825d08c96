// Package seed loads the starter catalog and promo fixtures so a
// fresh in-memory database has something to sell. Seeding is skipped
// when products already exist.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/internal/catalog"
	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
)

type Seeder struct {
	db   *gorm.DB
	repo *catalog.Repository
	logg *logger.Logger
}

func New(db *gorm.DB, logg *logger.Logger) (*Seeder, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Seeder{db: db, repo: catalog.NewRepository(db), logg: logg}, nil
}

// Run inserts the fixtures unless the catalog is already populated.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("seed: count products: %w", err)
	}
	if count > 0 {
		s.logg.Info(ctx, "seed skipped, catalog already populated")
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		for _, name := range []string{"kurtas", "shalwar suits", "dupattas", "shawls"} {
			if _, err := txRepo.CreateCategory(ctx, &models.Category{Name: name}); err != nil {
				return fmt.Errorf("seed: category %s: %w", name, err)
			}
		}

		for _, product := range fixtureProducts() {
			if _, err := txRepo.CreateProduct(ctx, product); err != nil {
				return fmt.Errorf("seed: product %s: %w", product.Name, err)
			}
		}

		for _, promo := range fixturePromos() {
			if err := tx.WithContext(ctx).Create(promo).Error; err != nil {
				return fmt.Errorf("seed: promo %s: %w", promo.Code, err)
			}
		}

		s.logg.Info(ctx, "seed fixtures loaded")
		return nil
	})
}

func fixtureProducts() []*models.Product {
	products := []*models.Product{
		{
			Name:        "Embroidered Lawn Kurta",
			Description: "Three-piece printed lawn with chikankari embroidery.",
			Category:    "kurtas",
			Price:       decimal.NewFromInt(4500),
			Images:      []string{"/images/lawn-kurta-1.jpg"},
			IsVisible:   true,
			Variants: []models.ProductVariant{
				{Size: "S", Stock: 8},
				{Size: "M", Stock: 12},
				{Size: "L", Stock: 5},
			},
		},
		{
			Name:        "Khaddar Shalwar Suit",
			Description: "Unstitched winter khaddar in deep maroon.",
			Category:    "shalwar suits",
			Price:       decimal.NewFromInt(8499),
			Images:      []string{"/images/khaddar-suit-1.jpg"},
			IsVisible:   true,
			Variants: []models.ProductVariant{
				{Size: "XS", Stock: 0},
				{Size: "S", Stock: 5},
				{Size: "M", Stock: 3},
			},
		},
		{
			Name:        "Silk Dupatta",
			Description: "Hand-dyed pure silk dupatta.",
			Category:    "dupattas",
			Price:       decimal.NewFromInt(1800),
			Images:      []string{"/images/silk-dupatta-1.jpg"},
			IsVisible:   true,
			Variants: []models.ProductVariant{
				{Size: "One Size", Stock: 20},
			},
		},
		{
			Name:        "Pashmina Shawl",
			Description: "Soft pashmina shawl with tassels.",
			Category:    "shawls",
			Price:       decimal.NewFromInt(6200),
			Images:      []string{"/images/pashmina-shawl-1.jpg"},
			IsVisible:   false,
			Variants: []models.ProductVariant{
				{Size: "One Size", Stock: 4},
			},
		},
	}
	for _, p := range products {
		p.InStock = p.ComputeInStock()
	}
	return products
}

func fixturePromos() []*models.PromoCode {
	return []*models.PromoCode{
		{ID: uuid.New(), Code: "EID10", DiscountPercentage: 10, UsageLimit: -1, IsActive: true},
		{ID: uuid.New(), Code: "FIRSTBUY", DiscountPercentage: 15, UsageLimit: 100, IsActive: true},
	}
}
