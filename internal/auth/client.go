package auth

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

// User is the account record returned by the auth service. No credentials
// or tokens are held here.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userEnvelope struct {
	User User `json:"user"`
}

// Client talks to the external auth service. Credential checks happen
// upstream; this client only relays them.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

// NewClient builds an auth client from the upstream settings.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("auth service base url required")
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

// Login exchanges credentials for the account record.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	return c.post(ctx, "/api/auth/login", loginRequest{Email: email, Password: password})
}

// Signup registers a new account and returns it.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*User, error) {
	if name == "" || email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	return c.post(ctx, "/api/auth/signup", signupRequest{Name: name, Email: email, Password: password})
}

func (c *Client) post(ctx context.Context, path string, payload any) (*User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode auth payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build auth request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(ctx, "auth service unreachable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "auth service unreachable")
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var envelope userEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode auth response")
		}
		return &envelope.User, nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("auth service returned status %d", resp.StatusCode))
	}
}

func drain(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
