package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sairaahmed/poshaak-backend/api/responses"
	"github.com/sairaahmed/poshaak-backend/api/validators"
	"github.com/sairaahmed/poshaak-backend/internal/catalog"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
)

// ProductList returns the catalog. Hidden products are included only
// when ?include_hidden=true, so the admin screen and the storefront
// share one endpoint.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeHidden := r.URL.Query().Get("include_hidden") == "true"
		products, err := svc.ListProducts(r.Context(), includeHidden)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductSetInventory replaces a product's size/stock grid.
func ProductSetInventory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.SetInventory(r.Context(), id, payload.toVariantInputs())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type variantRequest struct {
	Size  string `json:"size" validate:"required"`
	Stock int    `json:"stock" validate:"min=0"`
}

type createProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category" validate:"required"`
	Price       string           `json:"price" validate:"required"`
	Images      []string         `json:"images,omitempty"`
	IsVisible   *bool            `json:"is_visible,omitempty"`
	Variants    []variantRequest `json:"variants" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Price       *string   `json:"price,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	IsVisible   *bool     `json:"is_visible,omitempty"`
}

type setInventoryRequest struct {
	Variants []variantRequest `json:"variants" validate:"required,dive"`
}

func (r createProductRequest) toCreateInput() (catalog.CreateProductInput, error) {
	price, err := parsePrice(r.Price)
	if err != nil {
		return catalog.CreateProductInput{}, err
	}

	isVisible := true
	if r.IsVisible != nil {
		isVisible = *r.IsVisible
	}

	variants := make([]catalog.VariantInput, 0, len(r.Variants))
	for _, v := range r.Variants {
		variants = append(variants, catalog.VariantInput{Size: strings.TrimSpace(v.Size), Stock: v.Stock})
	}

	return catalog.CreateProductInput{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Category:    strings.TrimSpace(r.Category),
		Price:       price,
		Images:      r.Images,
		IsVisible:   isVisible,
		Variants:    variants,
	}, nil
}

func (r updateProductRequest) toUpdateInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Images:      r.Images,
		IsVisible:   r.IsVisible,
	}
	if r.Price != nil {
		price, err := parsePrice(*r.Price)
		if err != nil {
			return catalog.UpdateProductInput{}, err
		}
		input.Price = &price
	}
	return input, nil
}

func (r setInventoryRequest) toVariantInputs() []catalog.VariantInput {
	variants := make([]catalog.VariantInput, 0, len(r.Variants))
	for _, v := range r.Variants {
		variants = append(variants, catalog.VariantInput{Size: strings.TrimSpace(v.Size), Stock: v.Stock})
	}
	return variants
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	if price.IsNegative() {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price, nil
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}
