package cart

import (
	"context"

	"github.com/MDMahidul/summer-camp-school-server/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const collection = "carts"

func Create(ctx context.Context, db *mongo.Database, it Item) (Item, error) {
	if _, err := db.Collection(collection).InsertOne(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func FetchByBuyer(ctx context.Context, db *mongo.Database, email string) ([]Item, error) {
	cur, err := db.Collection(collection).Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []Item{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func Delete(ctx context.Context, db *mongo.Database, id primitive.ObjectID) error {
	res, err := db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// DeleteMany purges the listed items in one call; settlement uses it to
// clear the paid lines. Deleting an already-gone id is not an error.
func DeleteMany(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := db.Collection(collection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
