// Package claims carries the authenticated caller through the request
// context and defines the closed set of roles the authorization matrix is
// built on.
package claims

import (
	"context"
	"errors"
)

type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
	RoleAdmin      Role = "Admin"

	// RoleNone is the state of a user created at first sign-in before an
	// admin assigns anything.
	RoleNone Role = ""
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// Allows reports whether a caller holding role r may pass a gate requiring
// want. Roles don't nest: an admin route wants an admin, full stop.
func (r Role) Allows(want Role) bool {
	return r.Valid() && r == want
}

type Claims struct {
	Email string
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}
