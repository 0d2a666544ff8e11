package course

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	Pending  Status = "Pending"
	Approved Status = "Approved"
	Denied   Status = "Denied"
)

type Course struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	ImageURL        string             `json:"imageUrl" bson:"imageUrl,omitempty"`
	InstructorName  string             `json:"instructorName" bson:"instructorName"`
	InstructorEmail string             `json:"instructorEmail" bson:"instructorEmail"`
	Price           float64            `json:"price" bson:"price"`
	Seats           int                `json:"seats" bson:"seats"`
	Status          Status             `json:"status" bson:"status"`
	Feedback        string             `json:"feedback" bson:"feedback,omitempty"`
	Enrolled        int                `json:"enrolled" bson:"enrolled"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CourseNew carries what an instructor submits; ownership comes from the
// bearer token, moderation state always starts Pending.
type CourseNew struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"imageUrl" validate:"omitempty,url"`
	InstructorName string  `json:"instructorName" validate:"required"`
	Price          float64 `json:"price" validate:"gte=0"`
	Seats          int     `json:"seats" validate:"gte=0"`
}

type CourseUp struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Seats       *int     `json:"seats" validate:"omitempty,gte=0"`
}

type ModerationUp struct {
	Status   Status `json:"status" validate:"required,oneof=Pending Approved Denied"`
	Feedback string `json:"feedback"`
}
