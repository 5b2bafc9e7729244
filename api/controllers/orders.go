package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simpleshop/storefront-core/api/responses"
	"github.com/simpleshop/storefront-core/internal/orders"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// OrderFetcher loads a single order from the order service.
type OrderFetcher interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
}

// GetOrder fetches an order fresh for the confirmation view. The response
// carries the order's own customer fields, so the displayed name always
// belongs to the order being shown.
func GetOrder(fetcher OrderFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fetcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID := chi.URLParam(r, "orderId")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		ctx := logg.WithOrderID(r.Context(), orderID)
		order, err := fetcher.Get(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
