package controllers

import (
	"context"
	"net/http"

	"github.com/simpleshop/storefront-core/api/responses"
	"github.com/simpleshop/storefront-core/api/validators"
	"github.com/simpleshop/storefront-core/internal/checkout"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// Submitter runs a checkout attempt against the current cart.
type Submitter interface {
	Submit(ctx context.Context, info checkout.CustomerInfo) (string, error)
	State() checkout.State
}

type checkoutRequest struct {
	Name    string `json:"customer_name" validate:"required"`
	Email   string `json:"customer_email" validate:"required,email"`
	Phone   string `json:"customer_phone" validate:"required"`
	Address string `json:"customer_address" validate:"required"`
}

type checkoutResponse struct {
	OrderID string `json:"order_id"`
	State   string `json:"state"`
}

// SubmitCheckout places an order from the current cart. While one submission
// is in flight, further submissions are rejected rather than queued.
func SubmitCheckout(coordinator Submitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if coordinator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := coordinator.Submit(r.Context(), checkout.CustomerInfo{
			Name:    payload.Name,
			Email:   payload.Email,
			Phone:   payload.Phone,
			Address: payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), orderID)
		logg.Info(ctx, "checkout.succeeded")

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID: orderID,
			State:   string(coordinator.State()),
		})
	}
}
