package reviews

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

type productChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages product reviews.
type Service interface {
	AddReview(ctx context.Context, input AddReviewInput) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
}

// AddReviewInput carries the review form.
type AddReviewInput struct {
	ProductID uuid.UUID
	Author    string
	Rating    int
	Comment   string
}

type service struct {
	repo     *Repository
	products productChecker
}

// NewService builds the review service.
func NewService(repo *Repository, products productChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product checker required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) AddReview(ctx context.Context, input AddReviewInput) (*models.Review, error) {
	if strings.TrimSpace(input.Author) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	review := &models.Review{
		ProductID: input.ProductID,
		Author:    strings.TrimSpace(input.Author),
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
	}
	return review, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reviews")
	}
	return rows, nil
}

func (s *service) DeleteReview(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load review")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete review")
	}
	return nil
}
