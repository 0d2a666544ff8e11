// Package test runs the API against a real mongo container (dockertest) and
// a mock payment processor, one fresh database per test.
package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/api"
	"github.com/MDMahidul/summer-camp-school-server/config"
	"github.com/MDMahidul/summer-camp-school-server/core/auth"
	"github.com/MDMahidul/summer-camp-school-server/core/claims"
	"github.com/MDMahidul/summer-camp-school-server/core/user"
	"github.com/MDMahidul/summer-camp-school-server/database"
	"github.com/MDMahidul/summer-camp-school-server/rate"
	"github.com/MDMahidul/summer-camp-school-server/validate"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	testSecret = "test-token-secret"
	testTTL    = 24 * time.Hour
)

var mongoURI string

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.Run("mongo", "6.0", nil)
	if err != nil {
		log.Fatalf("could not start mongo container: %v", err)
	}

	mongoURI = fmt.Sprintf("mongodb://localhost:%s", resource.GetPort("27017/tcp"))

	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		cli, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			return err
		}
		defer cli.Disconnect(ctx)
		return cli.Ping(ctx, nil)
	}); err != nil {
		log.Fatalf("could not reach mongo: %v", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Fatalf("could not purge mongo container: %v", err)
	}

	os.Exit(code)
}

type TestEnv struct {
	URL    string
	DB     *mongo.Database
	Stripe *mockStripe
}

func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	ctx := context.Background()

	db, err := database.Open(ctx, config.DB{
		URI:            mongoURI,
		Name:           name,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("opening test database: %w", err)
	}

	if err := database.EnsureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("building test indexes: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ms := newMockStripe()
	msrv := httptest.NewServer(ms.handle())

	strp := &stripecl.API{}
	strp.Init("sk_test_123", &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:           stripe.String(msrv.URL),
			LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
		}),
	})

	limiter := rate.NewLimiter(1000, 100, rate.Every(time.Microsecond))

	mux := api.APIMux(api.APIConfig{
		Log:          logger,
		DB:           db,
		Stripe:       strp,
		TokenSecret:  testSecret,
		TokenTTL:     testTTL,
		TokenLimiter: limiter,
	})

	srv := httptest.NewServer(mux)

	t.Cleanup(func() {
		srv.Close()
		msrv.Close()
		database.Close(ctx, db)
	})

	return &TestEnv{
		URL:    srv.URL,
		DB:     db,
		Stripe: ms,
	}, nil
}

// Token signs a bearer token the way the server would.
func (e *TestEnv) Token(t *testing.T, email string) string {
	t.Helper()

	tkn, err := auth.Mint(testSecret, email, testTTL)
	if err != nil {
		t.Fatalf("minting test token: %v", err)
	}
	return tkn
}

// SeedUser writes a user with the wanted role straight into the store,
// sidestepping the admin-only promotion path.
func (e *TestEnv) SeedUser(t *testing.T, email string, role claims.Role) user.User {
	t.Helper()

	now := time.Now().UTC()
	u := user.User{
		ID:        validate.GenerateID(),
		Email:     email,
		Name:      "seeded " + email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	u, err := user.Create(context.Background(), e.DB, u)
	if err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return u
}

// Do fires one request with an optional bearer token and JSON body.
func (e *TestEnv) Do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, e.URL+path, rd)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return w
}

func decode(t *testing.T, w *http.Response, val any) {
	t.Helper()
	defer w.Body.Close()

	if err := json.NewDecoder(w.Body).Decode(val); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func wantStatus(t *testing.T, w *http.Response, want int) {
	t.Helper()

	if w.StatusCode != want {
		b, _ := io.ReadAll(w.Body)
		w.Body.Close()
		t.Fatalf("expected status %d, got %s: %s", want, w.Status, b)
	}
}
