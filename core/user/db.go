package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/core/claims"
	"github.com/MDMahidul/summer-camp-school-server/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "users"

// Create inserts the user only when the email is not taken yet; otherwise it
// reports database.ErrAlreadyExists and writes nothing. The unique email
// index covers the lookup-then-insert race.
func Create(ctx context.Context, db *mongo.Database, u User) (User, error) {
	err := db.Collection(collection).FindOne(ctx, bson.M{"email": u.Email}).Err()
	if err == nil {
		return User{}, database.ErrAlreadyExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, fmt.Errorf("checking for existing user: %w", err)
	}

	if _, err := db.Collection(collection).InsertOne(ctx, u); err != nil {
		return User{}, database.WrapDuplicate(err)
	}

	return u, nil
}

func FetchByEmail(ctx context.Context, db *mongo.Database, email string) (User, error) {
	var u User
	err := db.Collection(collection).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		return User{}, database.WrapNotFound(err)
	}
	return u, nil
}

func FetchAll(ctx context.Context, db *mongo.Database) ([]User, error) {
	cur, err := db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func FetchByRole(ctx context.Context, db *mongo.Database, role claims.Role) ([]User, error) {
	cur, err := db.Collection(collection).Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RoleOf resolves the stored role for an email; a missing user simply holds
// no role.
func RoleOf(ctx context.Context, db *mongo.Database, email string) (claims.Role, error) {
	u, err := FetchByEmail(ctx, db, email)
	if errors.Is(err, database.ErrNotFound) {
		return claims.RoleNone, nil
	}
	if err != nil {
		return claims.RoleNone, err
	}
	return u.Role, nil
}

func UpdateRole(ctx context.Context, db *mongo.Database, id primitive.ObjectID, role claims.Role, now time.Time) error {
	res, err := db.Collection(collection).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"role": role, "updatedAt": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Update applies the provided profile fields. No upsert: updating a user
// that does not exist is a not-found, never a fresh document.
func Update(ctx context.Context, db *mongo.Database, id primitive.ObjectID, up UserUp, now time.Time) (User, error) {
	set := bson.M{"updatedAt": now}
	if up.Name != nil {
		set["name"] = *up.Name
	}
	if up.PhotoURL != nil {
		set["photoUrl"] = *up.PhotoURL
	}
	if up.Gender != nil {
		set["gender"] = *up.Gender
	}
	if up.Phone != nil {
		set["phone"] = *up.Phone
	}
	if up.Address != nil {
		set["address"] = *up.Address
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var u User
	err := db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&u)
	if err != nil {
		return User{}, database.WrapNotFound(err)
	}
	return u, nil
}
