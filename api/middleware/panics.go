package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/MDMahidul/summer-camp-school-server/api/weberr"
)

// Panics converts a panicking handler into an error so the Errors middleware
// can log it and answer with a 500 instead of killing the connection.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {

			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					err = weberr.InternalError(
						fmt.Errorf("PANIC [%v]", rec),
						weberr.WithFields(map[string]interface{}{
							"trace": string(trace),
						}),
					)
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
