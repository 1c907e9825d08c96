package catalog

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
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, includeHidden bool) ([]models.Product, error)
	SetInventory(ctx context.Context, productID uuid.UUID, variants []VariantInput) (*models.Product, error)
	AddCategory(ctx context.Context, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, name string) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Images      []string
	IsVisible   bool
	Variants    []VariantInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Images      *[]string
	IsVisible   *bool
}

// VariantInput captures the stock for one size.
type VariantInput struct {
	Size  string
	Stock int
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// service implements the catalog service.
type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateProduct creates the product with its size variants.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price.IsNegative() || input.Price.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if err := ensureUniqueSizes(input.Variants); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Images:      input.Images,
		IsVisible:   input.IsVisible,
		Variants:    buildVariants(input.Variants),
	}
	product.InStock = product.ComputeInStock()

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return created, nil
}

// UpdateProduct applies the provided fields to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() || input.Price.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		product.Price = *input.Price
		// A direct price edit ends any active sale.
		product.CompareAtPrice = nil
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
	if input.IsVisible != nil {
		product.IsVisible = *input.IsVisible
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	updated.Variants = product.Variants
	return updated, nil
}

// DeleteProduct removes a product and its variants.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// GetProduct loads a product with variants.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.loadProduct(ctx, productID)
}

// ListProducts returns the catalog newest-first.
func (s *service) ListProducts(ctx context.Context, includeHidden bool) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx, !includeHidden)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return rows, nil
}

// SetInventory replaces the product's variants and recomputes the
// derived stock flag inside one transaction.
func (s *service) SetInventory(ctx context.Context, productID uuid.UUID, variants []VariantInput) (*models.Product, error) {
	if err := ensureUniqueSizes(variants); err != nil {
		return nil, err
	}
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	rows := buildVariants(variants)
	inStock := false
	for _, v := range rows {
		if v.Stock > 0 {
			inStock = true
			break
		}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ReplaceVariants(ctx, productID, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variants")
		}
		if err := txRepo.SetInStock(ctx, productID, inStock); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set in_stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadProduct(ctx, productID)
}

// AddCategory creates a uniquely named category.
func (s *service) AddCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	created, err := s.repo.CreateCategory(ctx, &models.Category{Name: name})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return created, nil
}

// DeleteCategory removes a category by name.
func (s *service) DeleteCategory(ctx context.Context, name string) error {
	if err := s.repo.DeleteCategory(ctx, name); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

// ListCategories returns all categories.
func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return rows, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func ensureUniqueSizes(variants []VariantInput) error {
	seen := map[string]struct{}{}
	for _, v := range variants {
		size := strings.TrimSpace(v.Size)
		if size == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant size required")
		}
		if v.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant stock cannot be negative")
		}
		if _, ok := seen[size]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate size %q", size))
		}
		seen[size] = struct{}{}
	}
	return nil
}

func buildVariants(inputs []VariantInput) []models.ProductVariant {
	rows := make([]models.ProductVariant, 0, len(inputs))
	for _, v := range inputs {
		rows = append(rows, models.ProductVariant{
			Size:  strings.TrimSpace(v.Size),
			Stock: v.Stock,
		})
	}
	return rows
}
