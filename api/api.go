package api

import (
	"context"
	"net/http"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/api/middleware"
	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/MDMahidul/summer-camp-school-server/core/auth"
	"github.com/MDMahidul/summer-camp-school-server/core/cart"
	"github.com/MDMahidul/summer-camp-school-server/core/claims"
	"github.com/MDMahidul/summer-camp-school-server/core/course"
	"github.com/MDMahidul/summer-camp-school-server/core/payment"
	"github.com/MDMahidul/summer-camp-school-server/core/user"
	"github.com/MDMahidul/summer-camp-school-server/rate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	stripecl "github.com/stripe/stripe-go/v74/client"
	"go.mongodb.org/mongo-driver/mongo"
)

type APIConfig struct {
	CorsOrigin   string
	Log          logrus.FieldLogger
	DB           *mongo.Database
	Stripe       *stripecl.API
	TokenSecret  string
	TokenTTL     time.Duration
	TokenLimiter *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Metrics())
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.TokenSecret)
	admin := auth.Require(cfg.DB, claims.RoleAdmin)
	instructor := auth.Require(cfg.DB, claims.RoleInstructor)

	a.Handle(http.MethodGet, "/", handleLiveness())
	a.Router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	a.Handle(http.MethodPost, "/jwt", auth.HandleToken(cfg.TokenSecret, cfg.TokenTTL), middleware.RateLimit(cfg.TokenLimiter))

	a.Handle(http.MethodPost, "/users/{email}", user.HandleCreate(cfg.DB))
	a.Handle(http.MethodGet, "/users", user.HandleList(cfg.DB), authen, admin)
	a.Handle(http.MethodGet, "/user/{email}", user.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/users/admin/{email}", user.HandleRoleProbe(cfg.DB, claims.RoleAdmin), authen)
	a.Handle(http.MethodGet, "/users/instructor/{email}", user.HandleRoleProbe(cfg.DB, claims.RoleInstructor), authen)
	a.Handle(http.MethodGet, "/users/student/{email}", user.HandleRoleProbe(cfg.DB, claims.RoleStudent), authen)
	a.Handle(http.MethodPatch, "/users/admin/{id}", user.HandleUpdateRole(cfg.DB), authen, admin)
	a.Handle(http.MethodPut, "/user/{id}", user.HandleUpdate(cfg.DB), authen)
	a.Handle(http.MethodGet, "/instructors", user.HandleListInstructors(cfg.DB))

	a.Handle(http.MethodPost, "/course", course.HandleCreate(cfg.DB), authen, instructor)
	a.Handle(http.MethodGet, "/course/details/{id}", course.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/course/instructor/details/{id}", course.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/course/enrolled/{id}", payment.HandleListEnrolled(cfg.DB), authen)
	a.Handle(http.MethodGet, "/course/{email}", course.HandleListByOwner(cfg.DB))
	a.Handle(http.MethodGet, "/courses/admin", course.HandleListAll(cfg.DB), authen, admin)
	a.Handle(http.MethodGet, "/courses", course.HandleList(cfg.DB))
	a.Handle(http.MethodPatch, "/course/admin/{id}", course.HandleModeration(cfg.DB), authen, admin)
	a.Handle(http.MethodPut, "/course/{id}", course.HandleUpdate(cfg.DB), authen)
	a.Handle(http.MethodDelete, "/course/{id}", course.HandleDelete(cfg.DB), authen)

	a.Handle(http.MethodPost, "/carts", cart.HandleCreate(cfg.DB))
	a.Handle(http.MethodGet, "/carts", cart.HandleList(cfg.DB))
	a.Handle(http.MethodDelete, "/carts/{id}", cart.HandleDelete(cfg.DB))

	a.Handle(http.MethodPost, "/create-payment-intent", payment.HandleCreateIntent(cfg.Stripe), authen)
	a.Handle(http.MethodPost, "/payment", payment.HandleSettle(cfg.DB, cfg.Stripe), authen)
	a.Handle(http.MethodGet, "/payments", payment.HandleListByBuyer(cfg.DB))

	return a.Router
}

func handleLiveness() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, "summer camp school server is running", http.StatusOK)
	}
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
