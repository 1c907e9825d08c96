package controllers

import (
	"net/http"
	"strings"

	"github.com/sairaahmed/poshaak-backend/api/responses"
	"github.com/sairaahmed/poshaak-backend/api/validators"
	"github.com/sairaahmed/poshaak-backend/internal/orders"
	"github.com/sairaahmed/poshaak-backend/pkg/enums"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
)

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Checkout turns the active cart into an order.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city,omitempty"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	PromoCode     string `json:"promo_code,omitempty"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r checkoutRequest) toInput() (orders.PlaceOrderInput, error) {
	method, err := enums.ParsePaymentMethod(strings.TrimSpace(r.PaymentMethod))
	if err != nil {
		return orders.PlaceOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	return orders.PlaceOrderInput{
		CustomerName:  strings.TrimSpace(r.CustomerName),
		Phone:         strings.TrimSpace(r.Phone),
		Address:       strings.TrimSpace(r.Address),
		City:          strings.TrimSpace(r.City),
		PaymentMethod: method,
		PromoCode:     strings.TrimSpace(r.PromoCode),
	}, nil
}
