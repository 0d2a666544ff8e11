package cart

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is one pending-purchase line. Adds never merge: picking the same
// course twice leaves two lines in the cart.
type Item struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email           string             `json:"email" bson:"email"`
	CourseID        primitive.ObjectID `json:"courseId" bson:"courseId"`
	Title           string             `json:"title" bson:"title"`
	ImageURL        string             `json:"imageUrl" bson:"imageUrl,omitempty"`
	Price           float64            `json:"price" bson:"price"`
	InstructorEmail string             `json:"instructorEmail" bson:"instructorEmail,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

type ItemNew struct {
	Email           string  `json:"email" validate:"required,email"`
	CourseID        string  `json:"courseId" validate:"required"`
	Title           string  `json:"title" validate:"required"`
	ImageURL        string  `json:"imageUrl" validate:"omitempty,url"`
	Price           float64 `json:"price" validate:"gte=0"`
	InstructorEmail string  `json:"instructorEmail" validate:"omitempty,email"`
}
