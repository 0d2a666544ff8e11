package course

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/MDMahidul/summer-camp-school-server/api/weberr"
	"github.com/MDMahidul/summer-camp-school-server/core/claims"
	"github.com/MDMahidul/summer-camp-school-server/core/user"
	"github.com/MDMahidul/summer-camp-school-server/database"
	"github.com/MDMahidul/summer-camp-school-server/validate"
	"go.mongodb.org/mongo-driver/mongo"
)

func HandleCreate(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NoCredential(err)
		}

		var cn CourseNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding course: %w", err))
		}

		if err := validate.Check(cn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		now := time.Now().UTC()
		c := Course{
			ID:              validate.GenerateID(),
			Title:           cn.Title,
			Description:     cn.Description,
			ImageURL:        cn.ImageURL,
			InstructorName:  cn.InstructorName,
			InstructorEmail: clm.Email,
			Price:           cn.Price,
			Seats:           cn.Seats,
			Status:          Pending,
			Enrolled:        0,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		c, err = Create(ctx, db, c)
		if err != nil {
			return fmt.Errorf("creating course: %w", err)
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleListByOwner(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		email := web.Param(r, "email")

		courses, err := FetchByOwner(ctx, db, email)
		if err != nil {
			return fmt.Errorf("fetching courses of %s: %w", email, err)
		}

		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleShow(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		c, err := Fetch(ctx, db, id)
		if errors.Is(err, database.ErrNotFound) {
			return weberr.NotFound(fmt.Errorf("no course with id %s", id.Hex()))
		}
		if err != nil {
			return fmt.Errorf("fetching course[%s]: %w", id.Hex(), err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

// HandleList serves the public catalog ranked by popularity.
func HandleList(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courses, err := FetchApproved(ctx, db)
		if err != nil {
			return fmt.Errorf("fetching approved courses: %w", err)
		}

		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleListAll(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courses, err := FetchAll(ctx, db)
		if err != nil {
			return fmt.Errorf("fetching all courses: %w", err)
		}

		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleModeration(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var up ModerationUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding moderation: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		err = UpdateModeration(ctx, db, id, up, time.Now().UTC())
		if errors.Is(err, database.ErrNotFound) {
			return weberr.NotFound(fmt.Errorf("no course with id %s", id.Hex()))
		}
		if err != nil {
			return fmt.Errorf("moderating course[%s]: %w", id.Hex(), err)
		}

		return web.Respond(ctx, w, up, http.StatusOK)
	}
}

func HandleUpdate(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var up CourseUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding course update: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		c, err := Update(ctx, db, id, up, time.Now().UTC())
		if errors.Is(err, database.ErrNotFound) {
			return weberr.NotFound(fmt.Errorf("no course with id %s", id.Hex()))
		}
		if err != nil {
			return fmt.Errorf("updating course[%s]: %w", id.Hex(), err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

// HandleDelete removes a course. Admins may delete anything; instructors
// only what they own.
func HandleDelete(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NoCredential(err)
		}

		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		c, err := Fetch(ctx, db, id)
		if errors.Is(err, database.ErrNotFound) {
			return weberr.NotFound(fmt.Errorf("no course with id %s", id.Hex()))
		}
		if err != nil {
			return fmt.Errorf("fetching course[%s]: %w", id.Hex(), err)
		}

		role, err := user.RoleOf(ctx, db, clm.Email)
		if err != nil {
			return fmt.Errorf("loading role of %s: %w", clm.Email, err)
		}

		owner := role.Allows(claims.RoleInstructor) && c.InstructorEmail == clm.Email
		if !owner && !role.Allows(claims.RoleAdmin) {
			return weberr.Forbidden(fmt.Errorf("user %s may not delete course[%s]", clm.Email, id.Hex()))
		}

		if err := Delete(ctx, db, id); err != nil {
			return fmt.Errorf("deleting course[%s]: %w", id.Hex(), err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
