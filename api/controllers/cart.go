package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sairaahmed/poshaak-backend/api/responses"
	"github.com/sairaahmed/poshaak-backend/api/validators"
	"github.com/sairaahmed/poshaak-backend/internal/cart"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
)

func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, size, err := payload.parse()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), productID, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, size, err := payload.parse()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveItem(r.Context(), productID, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// CartUpdateQuantity applies a signed delta to a cart line.
func CartUpdateQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, size, err := payload.cartLineRequest.parse()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateQuantity(r.Context(), productID, size, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func CartToggleDrawer(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := svc.ToggleDrawer(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

type cartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
}

type cartQuantityRequest struct {
	cartLineRequest
	Delta int `json:"delta" validate:"required"`
}

func (r cartLineRequest) parse() (uuid.UUID, string, error) {
	productID, err := uuid.Parse(strings.TrimSpace(r.ProductID))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, strings.TrimSpace(r.Size), nil
}
