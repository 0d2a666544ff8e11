package payment

import (
	"context"

	"github.com/MDMahidul/summer-camp-school-server/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const collection = "payments"

// CreateReceipt writes the immutable settlement record. The unique intentId
// index turns a replayed commit into database.ErrAlreadyExists.
func CreateReceipt(ctx context.Context, db *mongo.Database, rc Receipt) (Receipt, error) {
	if _, err := db.Collection(collection).InsertOne(ctx, rc); err != nil {
		return Receipt{}, database.WrapDuplicate(err)
	}
	return rc, nil
}

// FetchByIntent looks up the receipt of an already settled intent, if any.
func FetchByIntent(ctx context.Context, db *mongo.Database, intentID string) (Receipt, error) {
	var rc Receipt
	err := db.Collection(collection).FindOne(ctx, bson.M{"intentId": intentID}).Decode(&rc)
	if err != nil {
		return Receipt{}, database.WrapNotFound(err)
	}
	return rc, nil
}

func FetchByBuyer(ctx context.Context, db *mongo.Database, email string) ([]Receipt, error) {
	cur, err := db.Collection(collection).Find(ctx, bson.M{"userInfo.email": email})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	receipts := []Receipt{}
	if err := cur.All(ctx, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// FetchEnrolledUsers flattens the buyers of one course out of every receipt
// referencing it. A buyer appears once per receipt that includes the course.
func FetchEnrolledUsers(ctx context.Context, db *mongo.Database, courseID primitive.ObjectID) ([]UserInfo, error) {
	cur, err := db.Collection(collection).Find(ctx, bson.M{"items.courseItemId": courseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	receipts := []Receipt{}
	if err := cur.All(ctx, &receipts); err != nil {
		return nil, err
	}

	users := []UserInfo{}
	for _, rc := range receipts {
		users = append(users, rc.UserInfo)
	}
	return users, nil
}
