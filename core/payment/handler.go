// Package payment implements the checkout settlement: a processor charge
// intent prepared up front, then a commit that credits enrollments, writes
// the receipt and clears the cart.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/MDMahidul/summer-camp-school-server/api/weberr"
	"github.com/MDMahidul/summer-camp-school-server/core/cart"
	"github.com/MDMahidul/summer-camp-school-server/core/course"
	"github.com/MDMahidul/summer-camp-school-server/database"
	"github.com/MDMahidul/summer-camp-school-server/validate"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// HandleCreateIntent asks the processor for a card charge over the cart
// total. Prices travel in minor units, truncated. No local state changes
// here; the client completes the charge with the returned secret.
func HandleCreateIntent(strp *stripecl.API) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in IntentNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding intent request: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		params := &stripe.PaymentIntentParams{
			Amount:             stripe.Int64(int64(in.TotalPrice * 100)),
			Currency:           stripe.String(string(stripe.CurrencyUSD)),
			PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		}
		params.Context = ctx

		pi, err := strp.PaymentIntents.New(params)
		if err != nil {
			return fmt.Errorf("creating payment intent: %w", err)
		}

		return web.Respond(ctx, w, Intent{ClientSecret: pi.ClientSecret}, http.StatusOK)
	}
}

// HandleSettle commits a confirmed charge. The intent's status is checked
// against the processor first, so a forged call cannot credit enrollments.
// Then, in order: one atomic enrollment increment per distinct course (all
// dispatched concurrently and joined), the receipt insert, the cart purge.
// There is no cross-document transaction; a replay after partial failure is
// safe because the receipt insert is keyed on the intent id.
func HandleSettle(db *mongo.Database, strp *stripecl.API) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var sn SettlementNew
		if err := web.Decode(w, r, &sn); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding settlement: %w", err))
		}

		if err := validate.Check(sn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		items := make([]LineItem, 0, len(sn.Items))
		courseIDs := make(map[primitive.ObjectID]struct{}, len(sn.Items))
		for _, it := range sn.Items {
			id, err := validate.ParseID(it.CourseItemID)
			if err != nil {
				return weberr.NewError(err, err.Error(), http.StatusBadRequest)
			}
			items = append(items, LineItem{CourseItemID: id, Title: it.Title, Price: it.Price})
			courseIDs[id] = struct{}{}
		}

		cartIDs := make([]primitive.ObjectID, 0, len(sn.CartItemIDs))
		for _, raw := range sn.CartItemIDs {
			id, err := validate.ParseID(raw)
			if err != nil {
				return weberr.NewError(err, err.Error(), http.StatusBadRequest)
			}
			cartIDs = append(cartIDs, id)
		}

		getParams := &stripe.PaymentIntentParams{}
		getParams.Context = ctx
		pi, err := strp.PaymentIntents.Get(sn.IntentID, getParams)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("retrieving payment intent[%s]: %w", sn.IntentID, err))
		}

		if pi.Status != stripe.PaymentIntentStatusSucceeded {
			err := fmt.Errorf("payment intent[%s] has status %s, not succeeded", sn.IntentID, pi.Status)
			return weberr.NewError(err, "payment has not succeeded", http.StatusUnprocessableEntity)
		}

		// A replayed commit must not credit enrollments again, so check for
		// the receipt before touching the courses. The unique intentId index
		// still closes the race between two concurrent commits.
		if _, err := FetchByIntent(ctx, db, sn.IntentID); err == nil {
			err := fmt.Errorf("payment intent[%s] was already settled", sn.IntentID)
			return weberr.NewError(err, "payment already settled", http.StatusConflict)
		} else if !errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("checking receipt of intent[%s]: %w", sn.IntentID, err)
		}

		g, gctx := errgroup.WithContext(ctx)
		for id := range courseIDs {
			id := id
			g.Go(func() error {
				if err := course.IncrementEnrolled(gctx, db, id); err != nil {
					return fmt.Errorf("incrementing enrolled of course[%s]: %w", id.Hex(), err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("crediting enrollments: %w", err)
		}

		rc := Receipt{
			ID:            validate.GenerateID(),
			TransactionID: uuid.NewString(),
			IntentID:      sn.IntentID,
			UserInfo:      UserInfo(sn.UserInfo),
			Items:         items,
			CartItemIDs:   cartIDs,
			Amount:        sn.Amount,
			CreatedAt:     time.Now().UTC(),
		}

		rc, err = CreateReceipt(ctx, db, rc)
		if errors.Is(err, database.ErrAlreadyExists) {
			err := fmt.Errorf("payment intent[%s] was already settled", sn.IntentID)
			return weberr.NewError(err, "payment already settled", http.StatusConflict)
		}
		if err != nil {
			return fmt.Errorf("inserting receipt: %w", err)
		}

		deleted, err := cart.DeleteMany(ctx, db, cartIDs)
		if err != nil {
			return fmt.Errorf("clearing cart items of settlement[%s]: %w", rc.TransactionID, err)
		}

		res := Settlement{
			Receipt:         rc,
			EnrolledUpdated: len(courseIDs),
			CartDeleted:     deleted,
		}
		return web.Respond(ctx, w, res, http.StatusCreated)
	}
}

func HandleListByBuyer(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		email := web.Query(r, "email")
		if email == "" {
			return weberr.BadRequest(errors.New("email query parameter is required"))
		}

		receipts, err := FetchByBuyer(ctx, db, email)
		if err != nil {
			return fmt.Errorf("fetching payments of %s: %w", email, err)
		}

		return web.Respond(ctx, w, receipts, http.StatusOK)
	}
}

// HandleListEnrolled lists the buyers enrolled in one course, flattened
// across every receipt that references it.
func HandleListEnrolled(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		users, err := FetchEnrolledUsers(ctx, db, id)
		if err != nil {
			return fmt.Errorf("fetching enrolled users of course[%s]: %w", id.Hex(), err)
		}

		return web.Respond(ctx, w, users, http.StatusOK)
	}
}
