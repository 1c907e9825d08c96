package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) FindByNormalizedPhone(ctx context.Context, normalized string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		First(&customer, "normalized_phone = ?", normalized).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// ListOrders returns the full ledger newest first; insight derivation
// filters it per customer by normalized phone.
func (r *Repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}
