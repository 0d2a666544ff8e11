package test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/core/cart"
	"github.com/MDMahidul/summer-camp-school-server/core/claims"
	"github.com/MDMahidul/summer-camp-school-server/core/course"
	"github.com/MDMahidul/summer-camp-school-server/core/payment"
	"github.com/MDMahidul/summer-camp-school-server/random"
	"github.com/MDMahidul/summer-camp-school-server/validate"
)

type paymentTest struct {
	*TestEnv
}

func TestPayment(t *testing.T) {
	env, err := NewTestEnv(t, "payment_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}
	pt := &paymentTest{env}

	instructor := env.SeedUser(t, random.Email(), claims.RoleInstructor)
	student := env.SeedUser(t, random.Email(), claims.RoleStudent)
	studentTkn := env.Token(t, student.Email)

	c1 := pt.seedApprovedCourse(t, instructor.Email, "Go Basics", 20)
	c2 := pt.seedApprovedCourse(t, instructor.Email, "Advanced Go", 30)

	i1 := pt.seedCartItem(t, student.Email, c1)
	i2 := pt.seedCartItem(t, student.Email, c2)

	// Intent creation requires a token and returns the client secret.
	w := env.Do(t, http.MethodPost, "/create-payment-intent", "", map[string]float64{"totalprice": 50})
	wantStatus(t, w, http.StatusForbidden)
	w.Body.Close()

	w = env.Do(t, http.MethodPost, "/create-payment-intent", studentTkn, map[string]float64{"totalprice": 50})
	wantStatus(t, w, http.StatusOK)
	var in payment.Intent
	decode(t, w, &in)
	if in.ClientSecret == "" {
		t.Fatal("intent endpoint returned no client secret")
	}

	intentID := env.Stripe.LastIntentID()

	settle := map[string]any{
		"intentId": intentID,
		"userInfo": map[string]string{"email": student.Email, "name": student.Name},
		"items": []map[string]any{
			{"courseItemId": c1.ID.Hex(), "title": c1.Title, "price": c1.Price},
			{"courseItemId": c2.ID.Hex(), "title": c2.Title, "price": c2.Price},
		},
		"cartItemId": []string{i1.ID.Hex(), i2.ID.Hex()},
		"amount":     50.0,
	}

	w = env.Do(t, http.MethodPost, "/payment", studentTkn, settle)
	wantStatus(t, w, http.StatusCreated)
	var res payment.Settlement
	decode(t, w, &res)

	if res.EnrolledUpdated != 2 {
		t.Fatalf("expected 2 enrollment increments, got %d", res.EnrolledUpdated)
	}
	if res.CartDeleted != 2 {
		t.Fatalf("expected 2 cart deletions, got %d", res.CartDeleted)
	}
	if res.Receipt.IntentID != intentID || res.Receipt.TransactionID == "" {
		t.Fatalf("unexpected receipt %+v", res.Receipt)
	}

	// Every purchased course gained exactly one enrollment.
	for _, c := range []course.Course{c1, c2} {
		got, err := course.Fetch(context.Background(), env.DB, c.ID)
		if err != nil {
			t.Fatalf("fetching course: %v", err)
		}
		if got.Enrolled != 1 {
			t.Fatalf("course %s enrolled=%d, expected 1", got.Title, got.Enrolled)
		}
	}

	// The paid cart lines are gone.
	items, err := cart.FetchByBuyer(context.Background(), env.DB, student.Email)
	if err != nil {
		t.Fatalf("fetching cart: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected an empty cart after settlement, found %d items", len(items))
	}

	// The receipt shows up for the buyer.
	w = env.Do(t, http.MethodGet, "/payments?email="+student.Email, "", nil)
	wantStatus(t, w, http.StatusOK)
	var receipts []payment.Receipt
	decode(t, w, &receipts)
	if len(receipts) != 1 || receipts[0].Amount != 50 {
		t.Fatalf("unexpected receipts %+v", receipts)
	}

	// And the buyer shows up in the course roster.
	w = env.Do(t, http.MethodGet, "/course/enrolled/"+c1.ID.Hex(), studentTkn, nil)
	wantStatus(t, w, http.StatusOK)
	var roster []payment.UserInfo
	decode(t, w, &roster)
	if len(roster) != 1 || roster[0].Email != student.Email {
		t.Fatalf("unexpected roster %+v", roster)
	}

	// Replaying the same intent must not credit anything twice.
	w = env.Do(t, http.MethodPost, "/payment", studentTkn, settle)
	wantStatus(t, w, http.StatusConflict)
	w.Body.Close()

	got, err := course.Fetch(context.Background(), env.DB, c1.ID)
	if err != nil {
		t.Fatalf("fetching course: %v", err)
	}
	if got.Enrolled != 1 {
		t.Fatalf("replay bumped enrollment to %d", got.Enrolled)
	}

	pt.testUnconfirmedIntent(t, studentTkn, student.Email, c1)
}

// testUnconfirmedIntent checks that settlement refuses a charge the
// processor has not confirmed.
func (pt *paymentTest) testUnconfirmedIntent(t *testing.T, token string, email string, c course.Course) {
	w := pt.Do(t, http.MethodPost, "/create-payment-intent", token, map[string]float64{"totalprice": 20})
	wantStatus(t, w, http.StatusOK)
	w.Body.Close()

	intentID := pt.Stripe.LastIntentID()
	pt.Stripe.SetStatus(intentID, "requires_payment_method")

	settle := map[string]any{
		"intentId": intentID,
		"userInfo": map[string]string{"email": email},
		"items": []map[string]any{
			{"courseItemId": c.ID.Hex(), "price": c.Price},
		},
		"cartItemId": []string{},
		"amount":     20.0,
	}

	w = pt.Do(t, http.MethodPost, "/payment", token, settle)
	wantStatus(t, w, http.StatusUnprocessableEntity)
	w.Body.Close()

	// An intent the processor never issued is rejected outright.
	settle["intentId"] = "pi_never_issued"
	w = pt.Do(t, http.MethodPost, "/payment", token, settle)
	wantStatus(t, w, http.StatusBadRequest)
	w.Body.Close()
}

func (pt *paymentTest) seedApprovedCourse(t *testing.T, owner string, title string, price float64) course.Course {
	t.Helper()

	now := time.Now().UTC()
	c := course.Course{
		ID:              validate.GenerateID(),
		Title:           title,
		InstructorName:  "Seeded Instructor",
		InstructorEmail: owner,
		Price:           price,
		Seats:           30,
		Status:          course.Approved,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	c, err := course.Create(context.Background(), pt.DB, c)
	if err != nil {
		t.Fatalf("seeding course %s: %v", title, err)
	}
	return c
}

func (pt *paymentTest) seedCartItem(t *testing.T, buyer string, c course.Course) cart.Item {
	t.Helper()

	it := cart.Item{
		ID:        validate.GenerateID(),
		Email:     buyer,
		CourseID:  c.ID,
		Title:     c.Title,
		Price:     c.Price,
		CreatedAt: time.Now().UTC(),
	}

	it, err := cart.Create(context.Background(), pt.DB, it)
	if err != nil {
		t.Fatalf("seeding cart item: %v", err)
	}
	return it
}
