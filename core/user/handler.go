package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/api/web"
	"github.com/MDMahidul/summer-camp-school-server/api/weberr"
	"github.com/MDMahidul/summer-camp-school-server/core/claims"
	"github.com/MDMahidul/summer-camp-school-server/database"
	"github.com/MDMahidul/summer-camp-school-server/validate"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleCreate saves a user at first sign-in. Posting an email that already
// has a record is a no-op answered with a message, not an error: clients
// call this on every login.
func HandleCreate(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		email := web.Param(r, "email")

		var un UserNew
		if err := web.Decode(w, r, &un); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding user: %w", err))
		}

		if err := validate.Check(un); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		now := time.Now().UTC()
		u := User{
			ID:        validate.GenerateID(),
			Email:     email,
			Name:      un.Name,
			PhotoURL:  un.PhotoURL,
			Gender:    un.Gender,
			Phone:     un.Phone,
			Address:   un.Address,
			Role:      un.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}

		u, err := Create(ctx, db, u)
		if errors.Is(err, database.ErrAlreadyExists) {
			msg := struct {
				Message string `json:"message"`
			}{"user already exist"}
			return web.Respond(ctx, w, msg, http.StatusOK)
		}
		if err != nil {
			return fmt.Errorf("creating user[%s]: %w", email, err)
		}

		return web.Respond(ctx, w, u, http.StatusCreated)
	}
}

func HandleList(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		users, err := FetchAll(ctx, db)
		if err != nil {
			return fmt.Errorf("fetching users: %w", err)
		}

		return web.Respond(ctx, w, users, http.StatusOK)
	}
}

func HandleShow(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		email := web.Param(r, "email")

		u, err := FetchByEmail(ctx, db, email)
		if errors.Is(err, database.ErrNotFound) {
			return weberr.NotFound(fmt.Errorf("no user with email %s", email))
		}
		if err != nil {
			return fmt.Errorf("fetching user[%s]: %w", email, err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleListInstructors(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		users, err := FetchByRole(ctx, db, claims.RoleInstructor)
		if err != nil {
			return fmt.Errorf("fetching instructors: %w", err)
		}

		return web.Respond(ctx, w, users, http.StatusOK)
	}
}

// HandleRoleProbe answers {"admin": bool} (or instructor/student) for an
// email. A user that does not exist holds no role.
func HandleRoleProbe(db *mongo.Database, role claims.Role) web.Handler {
	key := map[claims.Role]string{
		claims.RoleAdmin:      "admin",
		claims.RoleInstructor: "instructor",
		claims.RoleStudent:    "student",
	}[role]

	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		email := web.Param(r, "email")

		have, err := RoleOf(ctx, db, email)
		if err != nil {
			return fmt.Errorf("probing role of %s: %w", email, err)
		}

		return web.Respond(ctx, w, map[string]bool{key: have == role}, http.StatusOK)
	}
}

func HandleUpdateRole(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var ru RoleUp
		if err := web.Decode(w, r, &ru); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding role update: %w", err))
		}

		if err := validate.Check(ru); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		err = UpdateRole(ctx, db, id, ru.Role, time.Now().UTC())
		if errors.Is(err, database.ErrNotFound) {
			return weberr.NotFound(fmt.Errorf("no user with id %s", id.Hex()))
		}
		if err != nil {
			return fmt.Errorf("updating role of user[%s]: %w", id.Hex(), err)
		}

		return web.Respond(ctx, w, map[string]claims.Role{"role": ru.Role}, http.StatusOK)
	}
}

func HandleUpdate(db *mongo.Database) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var up UserUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding profile update: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		u, err := Update(ctx, db, id, up, time.Now().UTC())
		if errors.Is(err, database.ErrNotFound) {
			return weberr.NotFound(fmt.Errorf("no user with id %s", id.Hex()))
		}
		if err != nil {
			return fmt.Errorf("updating user[%s]: %w", id.Hex(), err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}
