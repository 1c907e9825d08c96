package promotions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
)

// Repository persists promo codes and batch price updates.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreatePromo inserts a promo code row.
func (r *Repository) CreatePromo(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error) {
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// FindByCode loads a promo by its code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.WithContext(ctx).First(&promo, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// SavePromo persists an updated promo row.
func (r *Repository) SavePromo(ctx context.Context, promo *models.PromoCode) error {
	return r.db.WithContext(ctx).Save(promo).Error
}

// DeletePromo removes a promo by code.
func (r *Repository) DeletePromo(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Where("code = ?", code).Delete(&models.PromoCode{}).Error
}

// ListPromos returns all promo codes newest-first.
func (r *Repository) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	var rows []models.PromoCode
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// ListProductsByIDs loads the selected products without associations.
func (r *Repository) ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// SaveProductPrice writes the price pair for one product.
func (r *Repository) SaveProductPrice(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"price":            product.Price,
			"compare_at_price": product.CompareAtPrice,
		}).
		Error
}
