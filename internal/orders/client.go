package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/simpleshop/storefront-core/pkg/config"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// OrderItem is one line of an order submission, snapshotted from the cart.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// CreateOrderInput is the wire payload for order creation. It is immutable
// once built and discarded after the attempt.
type CreateOrderInput struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
}

// Order is the service-owned record. This core only ever reads it.
type Order struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	OrderDate       time.Time   `json:"order_date"`
	Status          string      `json:"status"`
}

// Client talks to the external order service.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

// NewClient builds an order service client from the upstream settings.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("order service base url required")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logg:    logg,
	}, nil
}

// Create submits a new order. A rejected payload maps to a validation error;
// anything else that stops the order from being confirmed is a retryable
// dependency failure.
func (c *Client) Create(ctx context.Context, input CreateOrderInput) (*Order, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.warn(ctx, "order service unreachable")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order service unreachable")
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var order Order
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
		}
		if order.ID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "order service returned no order id")
		}
		return &order, nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order service rejected the submission")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("order service returned status %d", resp.StatusCode))
	}
}

// Get fetches an order by id for confirmation display. An unknown id is
// terminal (not found, do not retry); everything else is transient. Results
// are never cached.
func (c *Client) Get(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/orders/"+orderID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order lookup")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.warn(ctx, "order service unreachable")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order service unreachable")
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var order Order
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
		}
		return &order, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("order service returned status %d", resp.StatusCode))
	}
}

func (c *Client) warn(ctx context.Context, msg string) {
	if c.logg != nil {
		c.logg.Warn(ctx, msg)
	}
}

func drain(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
