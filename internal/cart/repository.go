package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
)

// Repository persists the single active cart and its lines.
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

// GetOrCreateActive returns the active cart, creating it on first use.
func (r *Repository) GetOrCreateActive(ctx context.Context) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at ASC").
		First(&record).
		Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = models.CartRecord{ID: uuid.New()}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindItem returns the line matching (cart, product, size), if any.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID, size string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveItem inserts or updates a cart line.
func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes a cart line by its key; missing lines are a no-op.
func (r *Repository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID, size string) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
		Delete(&models.CartItem{}).
		Error
}

// ClearItems removes every line from the cart.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).
		Error
}

// SetOpen writes the drawer visibility flag.
func (r *Repository) SetOpen(ctx context.Context, cartID uuid.UUID, open bool) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("is_open", open).
		Error
}
