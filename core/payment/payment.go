package payment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Receipt is the immutable record of one settled checkout. IntentID doubles
// as the idempotency key: a unique index on it makes re-settling the same
// charge impossible.
type Receipt struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	TransactionID string               `json:"transactionId" bson:"transactionId"`
	IntentID      string               `json:"intentId" bson:"intentId"`
	UserInfo      UserInfo             `json:"userInfo" bson:"userInfo"`
	Items         []LineItem           `json:"items" bson:"items"`
	CartItemIDs   []primitive.ObjectID `json:"cartItemId" bson:"cartItemId"`
	Amount        float64              `json:"amount" bson:"amount"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
}

type UserInfo struct {
	Email string `json:"email" bson:"email"`
	Name  string `json:"name" bson:"name,omitempty"`
}

type LineItem struct {
	CourseItemID primitive.ObjectID `json:"courseItemId" bson:"courseItemId"`
	Title        string             `json:"title" bson:"title,omitempty"`
	Price        float64            `json:"price" bson:"price"`
}

type IntentNew struct {
	TotalPrice float64 `json:"totalprice" validate:"required,gt=0"`
}

type Intent struct {
	ClientSecret string `json:"clientSecret"`
}

type SettlementNew struct {
	IntentID    string            `json:"intentId" validate:"required"`
	UserInfo    UserInfoNew       `json:"userInfo" validate:"required"`
	Items       []LineItemNew     `json:"items" validate:"required,min=1,dive"`
	CartItemIDs []string          `json:"cartItemId" validate:"dive,required"`
	Amount      float64           `json:"amount" validate:"required,gt=0"`
}

type UserInfoNew struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type LineItemNew struct {
	CourseItemID string  `json:"courseItemId" validate:"required"`
	Title        string  `json:"title"`
	Price        float64 `json:"price" validate:"gte=0"`
}

// Settlement reports what one commit actually did.
type Settlement struct {
	Receipt         Receipt `json:"receipt"`
	EnrolledUpdated int     `json:"enrolledUpdated"`
	CartDeleted     int64   `json:"cartDeleted"`
}
