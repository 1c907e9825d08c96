package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
)

// Repository wires together product, variant, and category persistence.
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

// CreateProduct inserts a product row along with its variants.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == uuid.Nil {
			product.Variants[i].ID = uuid.New()
		}
		product.Variants[i].ProductID = product.ID
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Variants").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and its variants by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindByID loads the product with its variants.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("size ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns products newest-first, optionally only visible ones.
func (r *Repository) ListProducts(ctx context.Context, visibleOnly bool) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("size ASC")
		}).
		Order("created_at DESC").
		Order("id DESC")
	if visibleOnly {
		qb = qb.Where("is_visible = ?", true)
	}
	var rows []models.Product
	err := qb.Find(&rows).Error
	return rows, err
}

// ReplaceVariants replaces all variants for the product.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		if variants[i].ID == uuid.Nil {
			variants[i].ID = uuid.New()
		}
		variants[i].ProductID = productID
	}
	return tx.Create(&variants).Error
}

// SaveVariant persists a single variant row.
func (r *Repository) SaveVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// SetInStock writes the derived stock flag.
func (r *Repository) SetInStock(ctx context.Context, productID uuid.UUID, inStock bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("in_stock", inStock).
		Error
}

// CreateCategory inserts a category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category by name.
func (r *Repository) DeleteCategory(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Category{}).Error
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// CountProducts reports how many products exist. Used by the seeder to
// keep fixtures idempotent.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}
