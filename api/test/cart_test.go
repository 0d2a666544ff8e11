package test

import (
	"net/http"
	"testing"

	"github.com/MDMahidul/summer-camp-school-server/core/cart"
	"github.com/MDMahidul/summer-camp-school-server/random"
	"github.com/MDMahidul/summer-camp-school-server/validate"
)

type cartTest struct {
	*TestEnv
}

func TestCart(t *testing.T) {
	env, err := NewTestEnv(t, "cart_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}
	rt := &cartTest{env}

	buyer := random.Email()

	i1 := rt.createItemOK(t, buyer, "Go Basics")
	i2 := rt.createItemOK(t, buyer, "Advanced Go")

	// Adding the same course again makes a new line, never a merge.
	i3 := rt.createItemOK(t, buyer, "Go Basics")
	if i3.ID == i1.ID {
		t.Fatal("re-adding a course must create a fresh line item")
	}

	items := rt.listItems(t, buyer)
	if len(items) != 3 {
		t.Fatalf("expected 3 cart items, got %d", len(items))
	}

	// Another buyer's cart stays empty.
	if other := rt.listItems(t, random.Email()); len(other) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(other))
	}

	w := env.Do(t, http.MethodGet, "/carts", "", nil)
	wantStatus(t, w, http.StatusBadRequest)
	w.Body.Close()

	w = env.Do(t, http.MethodDelete, "/carts/"+i2.ID.Hex(), "", nil)
	wantStatus(t, w, http.StatusNoContent)

	w = env.Do(t, http.MethodDelete, "/carts/"+i2.ID.Hex(), "", nil)
	wantStatus(t, w, http.StatusNotFound)
	w.Body.Close()

	items = rt.listItems(t, buyer)
	if len(items) != 2 {
		t.Fatalf("expected 2 cart items after delete, got %d", len(items))
	}
}

func (rt *cartTest) createItemOK(t *testing.T, buyer string, title string) cart.Item {
	t.Helper()

	body := map[string]any{
		"email":    buyer,
		"courseId": validate.GenerateID().Hex(),
		"title":    title,
		"price":    49.0,
	}

	w := rt.Do(t, http.MethodPost, "/carts", "", body)
	wantStatus(t, w, http.StatusCreated)

	var it cart.Item
	decode(t, w, &it)
	return it
}

func (rt *cartTest) listItems(t *testing.T, buyer string) []cart.Item {
	t.Helper()

	w := rt.Do(t, http.MethodGet, "/carts?email="+buyer, "", nil)
	wantStatus(t, w, http.StatusOK)

	var items []cart.Item
	decode(t, w, &items)
	return items
}
