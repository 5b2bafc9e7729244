package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/simpleshop/storefront-core/pkg/config"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// Product is the catalog service's product record. Read-only to this core.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// Client reads products and categories from the catalog service.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

// NewClient builds a catalog client from the upstream settings.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog service base url required")
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

// List returns all products, optionally filtered by category.
func (c *Client) List(ctx context.Context, category string) ([]Product, error) {
	endpoint := c.baseURL + "/api/products"
	if category != "" {
		endpoint += "?category=" + url.QueryEscape(category)
	}

	var products []Product
	if err := c.getJSON(ctx, endpoint, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns one product by id. Unknown ids map to a terminal not-found.
func (c *Client) Get(ctx context.Context, productID string) (*Product, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var product Product
	if err := c.getJSON(ctx, c.baseURL+"/api/products/"+productID, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories returns the distinct category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var payload struct {
		Categories []string `json:"categories"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/api/categories", &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(ctx, "catalog service unreachable")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog service unreachable")
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("catalog service returned status %d", resp.StatusCode))
	}
}

func drain(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
