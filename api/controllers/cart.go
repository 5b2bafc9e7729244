package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/simpleshop/storefront-core/api/responses"
	"github.com/simpleshop/storefront-core/api/validators"
	"github.com/simpleshop/storefront-core/internal/cart"
	"github.com/simpleshop/storefront-core/internal/pricing"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

type cartItemView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	ImageURL string  `json:"image_url"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type cartView struct {
	Items    []cartItemView `json:"items"`
	Subtotal float64        `json:"subtotal"`
	Shipping float64        `json:"shipping"`
	Total    float64        `json:"total"`
}

func newCartView(items []cart.LineItem, calc pricing.Calculator) cartView {
	totals := calc.Totals(items)
	view := cartView{
		Items:    make([]cartItemView, len(items)),
		Subtotal: totals.Subtotal.InexactFloat64(),
		Shipping: totals.Shipping.InexactFloat64(),
		Total:    totals.Total.InexactFloat64(),
	}
	for i, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		view.Items[i] = cartItemView{
			ID:       item.ProductID,
			Name:     item.Name,
			Price:    item.UnitPrice.InexactFloat64(),
			Category: item.Category,
			ImageURL: item.ImageURL,
			Quantity: item.Quantity,
			Subtotal: line.InexactFloat64(),
		}
	}
	return view
}

// GetCart returns the current cart contents with computed totals.
func GetCart(store *cart.Store, calc pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		responses.WriteSuccess(w, newCartView(store.Snapshot(), calc))
	}
}

type addItemRequest struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category"`
	ImageURL string  `json:"image_url"`
	Quantity *int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

// AddCartItem adds a product to the cart, merging with an existing line for
// the same product. Quantity defaults to one when omitted.
func AddCartItem(store *cart.Store, calc pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity := 1
		if payload.Quantity != nil {
			quantity = *payload.Quantity
		}

		product := cart.Product{
			ID:       payload.ID,
			Name:     payload.Name,
			Price:    decimal.NewFromFloat(payload.Price),
			Category: payload.Category,
			ImageURL: payload.ImageURL,
		}

		ctx := logg.WithProductID(r.Context(), payload.ID)
		if err := store.AddItem(ctx, product, quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store.Snapshot(), calc))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetCartItemQuantity replaces the quantity for a product already in the
// cart. Zero or negative removes the line.
func SetCartItemQuantity(store *cart.Store, calc pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithProductID(r.Context(), productID)
		if err := store.SetQuantity(ctx, productID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store.Snapshot(), calc))
	}
}

// RemoveCartItem deletes a product line from the cart. Removing an absent
// product is a no-op.
func RemoveCartItem(store *cart.Store, calc pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		ctx := logg.WithProductID(r.Context(), productID)
		if err := store.RemoveItem(ctx, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store.Snapshot(), calc))
	}
}

// ClearCart empties the cart entirely.
func ClearCart(store *cart.Store, calc pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store.Snapshot(), calc))
	}
}
