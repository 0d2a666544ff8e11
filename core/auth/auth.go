// Package auth issues bearer tokens and gates routes on them. A token only
// proves the caller's email; roles are re-read from the identity store on
// every gated request, so a role change takes effect immediately even though
// the token itself stays valid until it expires.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/MDMahidul/summer-camp-school-server/api/weberr"
	"github.com/MDMahidul/summer-camp-school-server/core/claims"
	"github.com/MDMahidul/summer-camp-school-server/core/user"
	"github.com/MDMahidul/summer-camp-school-server/validate"
	"go.mongodb.org/mongo-driver/mongo"
)

type TokenNew struct {
	Email string `json:"email" validate:"required,email"`
}

type Token struct {
	Token string `json:"token"`
}

// HandleToken mints a 1-day bearer token for the supplied email. There is no
// refresh flow; clients re-issue when the token expires.
func HandleToken(secret string, ttl time.Duration) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var tn TokenNew
		if err := web.Decode(w, r, &tn); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding token request: %w", err))
		}

		if err := validate.Check(tn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		tkn, err := Mint(secret, tn.Email, ttl)
		if err != nil {
			return fmt.Errorf("signing token for %s: %w", tn.Email, err)
		}

		return web.Respond(ctx, w, Token{Token: tkn}, http.StatusOK)
	}
}

// Authenticate verifies the bearer token and stores its claims in the
// context. A missing header and an invalid token are rejected differently:
// 403 without credential, 401 with a bad one.
func Authenticate(secret string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			header := r.Header.Get("Authorization")
			if header == "" {
				return weberr.NoCredential(errors.New("no authorization header"))
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return weberr.NotAuthenticated(errors.New("authorization header is not a bearer token"))
			}

			tc, err := ParseToken(secret, raw)
			if err != nil {
				return weberr.NotAuthenticated(fmt.Errorf("verifying token: %w", err))
			}

			ctx = claims.Set(ctx, claims.Claims{Email: tc.Email})
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Require looks the authenticated caller up in the identity store and lets
// the request through only when the stored role matches. An unknown user
// holds no role at all.
func Require(db *mongo.Database, role claims.Role) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			clm, err := claims.Get(ctx)
			if err != nil {
				return weberr.NoCredential(err)
			}

			have, err := user.RoleOf(ctx, db, clm.Email)
			if err != nil {
				return fmt.Errorf("loading role of %s: %w", clm.Email, err)
			}

			if !have.Allows(role) {
				return weberr.Forbidden(fmt.Errorf("user %s lacks role %s", clm.Email, role))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
