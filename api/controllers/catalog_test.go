package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/simpleshop/storefront-core/internal/catalog"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
)

type stubCatalogReader struct {
	products    []catalog.Product
	product     *catalog.Product
	categories  []string
	err         error
	gotCategory string
}

func (s *stubCatalogReader) List(_ context.Context, category string) ([]catalog.Product, error) {
	s.gotCategory = category
	return s.products, s.err
}

func (s *stubCatalogReader) Get(_ context.Context, productID string) (*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubCatalogReader) Categories(_ context.Context) ([]string, error) {
	return s.categories, s.err
}

func newCatalogRouter(reader CatalogReader) *chi.Mux {
	logg := testLogger()
	r := chi.NewRouter()
	r.Get("/api/products", ListProducts(reader, logg))
	r.Get("/api/products/{productId}", GetProduct(reader, logg))
	r.Get("/api/categories", ListCategories(reader, logg))
	return r
}

func TestListProductsPassesCategoryFilter(t *testing.T) {
	stub := &stubCatalogReader{products: []catalog.Product{{ID: "p1", Name: "Mug"}}}
	router := newCatalogRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products?category=kitchen", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if stub.gotCategory != "kitchen" {
		t.Errorf("category = %q, want kitchen", stub.gotCategory)
	}
}

func TestGetProductNotFound(t *testing.T) {
	stub := &stubCatalogReader{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	router := newCatalogRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products/ghost", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListCategoriesShape(t *testing.T) {
	stub := &stubCatalogReader{categories: []string{"home", "kitchen"}}
	router := newCatalogRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories", nil))

	var envelope struct {
		Data struct {
			Categories []string `json:"categories"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Categories) != 2 {
		t.Errorf("categories = %v", envelope.Data.Categories)
	}
}
