package course

import (
	"context"
	"time"

	"github.com/MDMahidul/summer-camp-school-server/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "courses"

func Create(ctx context.Context, db *mongo.Database, c Course) (Course, error) {
	if _, err := db.Collection(collection).InsertOne(ctx, c); err != nil {
		return Course{}, err
	}
	return c, nil
}

func Fetch(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (Course, error) {
	var c Course
	err := db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		return Course{}, database.WrapNotFound(err)
	}
	return c, nil
}

func FetchByOwner(ctx context.Context, db *mongo.Database, email string) ([]Course, error) {
	cur, err := db.Collection(collection).Find(ctx, bson.M{"instructorEmail": email})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	courses := []Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// FetchApproved lists the public catalog: approved courses only, most
// enrolled first. The ordering is a product decision, not cosmetics.
func FetchApproved(ctx context.Context, db *mongo.Database) ([]Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "enrolled", Value: -1}})

	cur, err := db.Collection(collection).Find(ctx, bson.M{"status": Approved}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	courses := []Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func FetchAll(ctx context.Context, db *mongo.Database) ([]Course, error) {
	cur, err := db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	courses := []Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// UpdateModeration sets status and feedback on an existing course. A missing
// id is a not-found, never an upserted document.
func UpdateModeration(ctx context.Context, db *mongo.Database, id primitive.ObjectID, up ModerationUp, now time.Time) error {
	res, err := db.Collection(collection).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": up.Status, "feedback": up.Feedback, "updatedAt": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func Update(ctx context.Context, db *mongo.Database, id primitive.ObjectID, up CourseUp, now time.Time) (Course, error) {
	set := bson.M{"updatedAt": now}
	if up.Title != nil {
		set["title"] = *up.Title
	}
	if up.Description != nil {
		set["description"] = *up.Description
	}
	if up.ImageURL != nil {
		set["imageUrl"] = *up.ImageURL
	}
	if up.Price != nil {
		set["price"] = *up.Price
	}
	if up.Seats != nil {
		set["seats"] = *up.Seats
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var c Course
	err := db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&c)
	if err != nil {
		return Course{}, database.WrapNotFound(err)
	}
	return c, nil
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

// IncrementEnrolled bumps the enrollment counter by one. The increment is
// atomic at the document level; settlement fires one per purchased course.
func IncrementEnrolled(ctx context.Context, db *mongo.Database, id primitive.ObjectID) error {
	res, err := db.Collection(collection).UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"enrolled": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
