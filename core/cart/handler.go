package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/MDMahidul/summer-camp-school-server/api/weberr"
	"github.com/MDMahidul/summer-camp-school-server/database"
	"github.com/MDMahidul/summer-camp-school-server/validate"
	"go.mongodb.org/mongo-driver/mongo"
)

func HandleCreate(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding cart item: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		courseID, err := validate.ParseID(in.CourseID)
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		it := Item{
			ID:              validate.GenerateID(),
			Email:           in.Email,
			CourseID:        courseID,
			Title:           in.Title,
			ImageURL:        in.ImageURL,
			Price:           in.Price,
			InstructorEmail: in.InstructorEmail,
			CreatedAt:       time.Now().UTC(),
		}

		it, err = Create(ctx, db, it)
		if err != nil {
			return fmt.Errorf("creating cart item: %w", err)
		}

		return web.Respond(ctx, w, it, http.StatusCreated)
	}
}

func HandleList(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		email := web.Query(r, "email")
		if email == "" {
			return weberr.BadRequest(errors.New("email query parameter is required"))
		}

		items, err := FetchByBuyer(ctx, db, email)
		if err != nil {
			return fmt.Errorf("fetching cart of %s: %w", email, err)
		}

		return web.Respond(ctx, w, items, http.StatusOK)
	}
}

func HandleDelete(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		err = Delete(ctx, db, id)
		if errors.Is(err, database.ErrNotFound) {
			return weberr.NotFound(fmt.Errorf("no cart item with id %s", id.Hex()))
		}
		if err != nil {
			return fmt.Errorf("deleting cart item[%s]: %w", id.Hex(), err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
