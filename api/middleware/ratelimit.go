package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/MDMahidul/summer-camp-school-server/api/weberr"
	"github.com/MDMahidul/summer-camp-school-server/rate"
)

// RateLimit rejects clients that hit a route faster than the limiter allows,
// keyed by remote host.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !lim.Check(host) {
				return weberr.NewError(
					errors.New("rate limit exceeded"),
					"too many requests",
					http.StatusTooManyRequests,
				)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
