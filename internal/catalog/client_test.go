package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/simpleshop/storefront-core/pkg/config"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.UpstreamConfig{BaseURL: baseURL, TimeoutSeconds: 5}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestListProducts(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("path = %s, want /api/products", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("category")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","name":"Mug","description":"A mug","price":12.5,"image_url":"http://img/mug.png","category":"kitchen","stock":4}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	products, err := client.List(context.Background(), "kitchen")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotQuery != "kitchen" {
		t.Errorf("category query = %q, want kitchen", gotQuery)
	}
	if len(products) != 1 {
		t.Fatalf("len(products) = %d, want 1", len(products))
	}
	if products[0].ID != "p1" || products[0].Price != 12.5 || products[0].Stock != 4 {
		t.Errorf("unexpected product: %+v", products[0])
	}
}

func TestListWithoutCategoryOmitsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	products, err := newTestClient(t, server.URL).List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("len(products) = %d, want 0", len(products))
	}
}

func TestGetProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/p7" {
			t.Errorf("path = %s, want /api/products/p7", r.URL.Path)
		}
		w.Write([]byte(`{"id":"p7","name":"Lamp","price":40,"category":"home","stock":2}`))
	}))
	defer server.Close()

	product, err := newTestClient(t, server.URL).Get(context.Background(), "p7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if product.Name != "Lamp" || product.Category != "home" {
		t.Errorf("unexpected product: %+v", product)
	}
}

func TestGetProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Product not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Errorf("error = %v, want CodeNotFound", err)
	}
	if pkgerrors.Retryable(err) {
		t.Error("not-found must not be retryable")
	}
}

func TestGetProductEmptyID(t *testing.T) {
	_, err := newTestClient(t, "http://localhost:0").Get(context.Background(), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Errorf("error = %v, want CodeValidation", err)
	}
}

func TestCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/categories" {
			t.Errorf("path = %s, want /api/categories", r.URL.Path)
		}
		w.Write([]byte(`{"categories":["home","kitchen"]}`))
	}))
	defer server.Close()

	categories, err := newTestClient(t, server.URL).Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(categories) != 2 || categories[0] != "home" {
		t.Errorf("categories = %v", categories)
	}
}

func TestUpstreamFailureIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).List(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Errorf("error = %v, want CodeDependency", err)
	}
	if !pkgerrors.Retryable(err) {
		t.Error("dependency failures must be retryable")
	}
}

func TestUnreachableCatalogIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(t, server.URL).Categories(context.Background())
	if !pkgerrors.Retryable(err) {
		t.Errorf("error = %v, want retryable dependency failure", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(config.UpstreamConfig{}, nil); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
