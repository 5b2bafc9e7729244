package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simpleshop/storefront-core/api/responses"
	"github.com/simpleshop/storefront-core/internal/catalog"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// CatalogReader exposes the product catalog lookups the storefront needs.
type CatalogReader interface {
	List(ctx context.Context, category string) ([]catalog.Product, error)
	Get(ctx context.Context, productID string) (*catalog.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// ListProducts returns the catalog, optionally filtered by category.
func ListProducts(reader CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		products, err := reader.List(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns a single product by id.
func GetProduct(reader CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		ctx := logg.WithProductID(r.Context(), productID)

		product, err := reader.Get(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListCategories returns the distinct product categories.
func ListCategories(reader CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		categories, err := reader.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]string{"categories": categories})
	}
}
