package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpleshop/storefront-core/pkg/config"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(config.UpstreamConfig{BaseURL: srv.URL, TimeoutSeconds: 2}, nil)
	require.NoError(t, err)
	return client, srv
}

func sampleInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerName:    "Rahul Kumar",
		CustomerEmail:   "rahul@example.com",
		CustomerPhone:   "5550001111",
		CustomerAddress: "1 Main St",
		Items: []OrderItem{
			{ProductID: "p1", ProductName: "Widget", Quantity: 2, Price: 10},
		},
		Total: 30,
	}
}

func TestCreateSubmitsPayloadAndDecodesOrder(t *testing.T) {
	var received CreateOrderInput
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(Order{
			ID:            "order-x",
			CustomerName:  received.CustomerName,
			CustomerEmail: received.CustomerEmail,
			Items:         received.Items,
			Total:         received.Total,
			Status:        "pending",
		})
	}))

	order, err := client.Create(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "order-x", order.ID)
	assert.Equal(t, "Rahul Kumar", received.CustomerName)
	assert.Equal(t, 30.0, received.Total)
	require.Len(t, received.Items, 1)
	assert.Equal(t, "p1", received.Items[0].ProductID)
}

func TestCreateMapsServerErrorToDependency(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Create(context.Background(), sampleInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.True(t, pkgerrors.Retryable(err))
}

func TestCreateMapsRejectionToValidation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	_, err := client.Create(context.Background(), sampleInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.False(t, pkgerrors.Retryable(err))
}

func TestCreateUnreachableServiceIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewClient(config.UpstreamConfig{BaseURL: srv.URL, TimeoutSeconds: 1}, nil)
	require.NoError(t, err)
	srv.Close()

	_, err = client.Create(context.Background(), sampleInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestGetReturnsOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/orders/order-x", r.URL.Path)
		json.NewEncoder(w).Encode(Order{ID: "order-x", Total: 35, Status: "pending"})
	}))

	order, err := client.Get(context.Background(), "order-x")
	require.NoError(t, err)
	assert.Equal(t, "order-x", order.ID)
	assert.Equal(t, 35.0, order.Total)
}

func TestGetUnknownIDIsNotFoundNotTransient(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Order not found"}`, http.StatusNotFound)
	}))

	_, err := client.Get(context.Background(), "ghost")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.False(t, pkgerrors.Retryable(err), "not found must not be retried")
}

func TestGetServerErrorIsTransient(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Get(context.Background(), "order-x")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.True(t, pkgerrors.Retryable(err))
}

func TestGetHonorsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Get(ctx, "order-x")
	require.Error(t, err, "a torn-down caller must get an error, never a stale order")
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.UpstreamConfig{}, nil)
	require.Error(t, err)
}
