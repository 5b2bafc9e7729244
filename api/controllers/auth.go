package controllers

import (
	"context"
	"net/http"

	"github.com/simpleshop/storefront-core/api/responses"
	"github.com/simpleshop/storefront-core/api/validators"
	"github.com/simpleshop/storefront-core/internal/auth"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// Authenticator relays credential operations to the auth service.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.User, error)
	Signup(ctx context.Context, name, email, password string) (*auth.User, error)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login signs a customer in through the auth service.
func Login(authenticator Authenticator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authenticator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := authenticator.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*auth.User{"user": user})
	}
}

// Signup registers a new customer through the auth service.
func Signup(authenticator Authenticator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authenticator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth unavailable"))
			return
		}

		var payload signupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := authenticator.Signup(r.Context(), payload.Name, payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*auth.User{"user": user})
	}
}
