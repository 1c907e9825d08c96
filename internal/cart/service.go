package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart mutations for the storefront.
type Service interface {
	Get(ctx context.Context) (*models.CartRecord, error)
	AddItem(ctx context.Context, productID uuid.UUID, size string) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, productID uuid.UUID, size string) (*models.CartRecord, error)
	UpdateQuantity(ctx context.Context, productID uuid.UUID, size string, delta int) (*models.CartRecord, error)
	ToggleDrawer(ctx context.Context) (*models.CartRecord, error)
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService builds the cart service.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// Get returns the active cart, creating it on first use.
func (s *service) Get(ctx context.Context) (*models.CartRecord, error) {
	record, err := s.repo.GetOrCreateActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, nil
}

// AddItem increments an existing (product, size) line or appends a new
// one snapshotting the product's current fields. Stock is deliberately
// not checked here; the cart may exceed available stock.
func (s *service) AddItem(ctx context.Context, productID uuid.UUID, size string) (*models.CartRecord, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size required")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	record, err := s.repo.GetOrCreateActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	item, err := s.repo.FindItem(ctx, record.ID, productID, size)
	switch {
	case err == nil:
		item.Quantity++
	case errors.Is(err, gorm.ErrRecordNotFound):
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		item = &models.CartItem{
			CartID:    record.ID,
			ProductID: product.ID,
			Size:      size,
			Quantity:  1,
			Name:      product.Name,
			Category:  product.Category,
			Price:     product.Price,
			Image:     image,
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}
	return s.Get(ctx)
}

// RemoveItem deletes the matching line; absent lines are a no-op.
func (s *service) RemoveItem(ctx context.Context, productID uuid.UUID, size string) (*models.CartRecord, error) {
	record, err := s.repo.GetOrCreateActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.DeleteItem(ctx, record.ID, productID, size); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return s.Get(ctx)
}

// UpdateQuantity adds delta to the line's quantity, clamped at zero.
// A line that reaches zero is removed from the cart.
func (s *service) UpdateQuantity(ctx context.Context, productID uuid.UUID, size string, delta int) (*models.CartRecord, error) {
	record, err := s.repo.GetOrCreateActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	item, err := s.repo.FindItem(ctx, record.ID, productID, size)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Get(ctx)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	next := item.Quantity + delta
	if next < 0 {
		next = 0
	}
	if next == 0 {
		if err := s.repo.DeleteItem(ctx, record.ID, productID, size); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
		}
		return s.Get(ctx)
	}

	item.Quantity = next
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}
	return s.Get(ctx)
}

// ToggleDrawer flips the cart drawer's visibility flag.
func (s *service) ToggleDrawer(ctx context.Context) (*models.CartRecord, error) {
	record, err := s.repo.GetOrCreateActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.SetOpen(ctx, record.ID, !record.IsOpen); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle cart drawer")
	}
	return s.Get(ctx)
}
