package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sairaahmed/poshaak-backend/api/responses"
	"github.com/sairaahmed/poshaak-backend/api/validators"
	"github.com/sairaahmed/poshaak-backend/internal/promotions"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
)

func PromoList(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promos, err := svc.ListPromos(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promos)
	}
}

func PromoCreate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.AddPromo(r.Context(), promotions.AddPromoInput{
			Code:               payload.Code,
			DiscountPercentage: payload.DiscountPercentage,
			UsageLimit:         payload.UsageLimit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promo)
	}
}

func PromoDelete(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "promoCode")
		if err := svc.DeletePromo(r.Context(), code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func PromoToggle(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "promoCode")
		promo, err := svc.TogglePromo(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promo)
	}
}

// PromoValidate reports the discount fraction for a code. An unknown
// or exhausted code is not an error, it just yields zero.
func PromoValidate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "promoCode")
		discount := svc.ValidatePromo(r.Context(), code)
		responses.WriteSuccess(w, map[string]any{
			"code":     strings.ToUpper(strings.TrimSpace(code)),
			"discount": discount,
		})
	}
}

// SaleApply puts the selected products on sale at a percentage off
// their base price.
func SaleApply(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload applySaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := parseProductIDs(payload.ProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		affected, err := svc.ApplySale(r.Context(), ids, payload.Percent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"affected": affected})
	}
}

func SaleRemove(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload removeSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := parseProductIDs(payload.ProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		affected, err := svc.RemoveSale(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"affected": affected})
	}
}

type createPromoRequest struct {
	Code               string `json:"code" validate:"required"`
	DiscountPercentage int    `json:"discount_percentage" validate:"required,min=1,max=100"`
	UsageLimit         int    `json:"usage_limit" validate:"required,min=-1"`
}

type applySaleRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,required"`
	Percent    int      `json:"percent" validate:"required,min=1,max=99"`
}

type removeSaleRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,required"`
}

func parseProductIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
