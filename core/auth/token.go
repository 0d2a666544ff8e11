package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload signed into every bearer token: just the
// subject email plus the registered timestamps.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func Mint(secret string, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := TokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func ParseToken(secret string, token string) (TokenClaims, error) {
	t, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return TokenClaims{}, err
	}

	c, ok := t.Claims.(*TokenClaims)
	if !ok || !t.Valid {
		return TokenClaims{}, errors.New("invalid token")
	}
	return *c, nil
}
