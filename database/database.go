// Package database owns the mongo connection lifecycle and the indexes the
// collections rely on.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/MDMahidul/summer-camp-school-server/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by store functions when the target document does
// not exist. Handlers translate it to a 404.
var ErrNotFound = errors.New("document not found")

// ErrAlreadyExists is returned when a unique index rejects a write.
var ErrAlreadyExists = errors.New("document already exists")

func Open(ctx context.Context, cfg config.DB) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := cli.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return cli.Database(cfg.Name), nil
}

func Close(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// EnsureIndexes builds the indexes the stores assume: the unique user email,
// the unique settlement idempotency keys, and the read paths that are
// filtered or sorted on every request.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	idx := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"courses": {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "enrolled", Value: -1}}},
			{Keys: bson.D{{Key: "instructorEmail", Value: 1}}},
		},
		"carts": {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		"payments": {
			{Keys: bson.D{{Key: "intentId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "userInfo.email", Value: 1}}},
			{Keys: bson.D{{Key: "items.courseItemId", Value: 1}}},
		},
	}

	for coll, models := range idx {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", coll, err)
		}
	}

	return nil
}

// WrapNotFound maps the driver's no-document sentinel to ErrNotFound so
// callers don't import the driver just to test for it.
func WrapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// WrapDuplicate maps a unique-index violation to ErrAlreadyExists.
func WrapDuplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	}
	return err
}
