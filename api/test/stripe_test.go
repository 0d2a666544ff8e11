package test

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/gorilla/mux"
	mock "github.com/stripe/stripe-mock/param"
)

// mockStripe stands in for the card processor: it hands out payment intents
// and serves their status back, which is all settlement needs.
type mockStripe struct {
	mu      sync.Mutex
	intents map[string]*mockIntent
	counter int
}

type mockIntent struct {
	ID           string `json:"id"`
	Object       string `json:"object"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

func newMockStripe() *mockStripe {
	return &mockStripe{intents: make(map[string]*mockIntent)}
}

// LastIntentID returns the most recently created intent id.
func (m *mockStripe) LastIntentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("pi_%d", m.counter)
}

// SetStatus overrides an intent's status, e.g. to keep it unconfirmed.
func (m *mockStripe) SetStatus(id string, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in, ok := m.intents[id]; ok {
		in.Status = status
	}
}

func (m *mockStripe) handle() http.Handler {
	create := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params, err := mock.ParseParams(r)
		if err != nil {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		raw, ok := params["amount"].(string)
		if !ok {
			web.Respond(context.Background(), w, nil, 400)
			return
		}
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || amount <= 0 {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		if cur, _ := params["currency"].(string); cur != "usd" {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		m.mu.Lock()
		m.counter++
		id := fmt.Sprintf("pi_%d", m.counter)
		in := &mockIntent{
			ID:           id,
			Object:       "payment_intent",
			ClientSecret: id + "_secret_test",
			Amount:       amount,
			Currency:     "usd",

			// The real processor would wait for a client-side
			// confirmation; the mock charges instantly.
			Status: "succeeded",
		}
		m.intents[id] = in
		m.mu.Unlock()

		web.Respond(context.Background(), w, in, 200)
	})

	get := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		m.mu.Lock()
		in, ok := m.intents[id]
		m.mu.Unlock()

		if !ok {
			web.Respond(context.Background(), w, map[string]any{
				"error": map[string]any{"type": "invalid_request_error"},
			}, 404)
			return
		}

		web.Respond(context.Background(), w, in, 200)
	})

	r := mux.NewRouter()
	r.Handle("/v1/payment_intents", create).Methods("POST")
	r.Handle("/v1/payment_intents/{id}", get).Methods("GET")
	return r
}
