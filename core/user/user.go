package user

import (
	"time"

	"github.com/MDMahidul/summer-camp-school-server/core/claims"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Name      string             `json:"name" bson:"name"`
	PhotoURL  string             `json:"photoUrl" bson:"photoUrl,omitempty"`
	Gender    string             `json:"gender" bson:"gender,omitempty"`
	Phone     string             `json:"phone" bson:"phone,omitempty"`
	Address   string             `json:"address" bson:"address,omitempty"`
	Role      claims.Role        `json:"role" bson:"role,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserNew is the first-sign-in payload. The email in the body is optional
// noise: the path parameter is authoritative.
type UserNew struct {
	Email    string      `json:"email" validate:"omitempty,email"`
	Name     string      `json:"name" validate:"required"`
	PhotoURL string      `json:"photoUrl" validate:"omitempty,url"`
	Gender   string      `json:"gender"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
	Role     claims.Role `json:"role" validate:"omitempty,oneof=Student Instructor Admin"`
}

type UserUp struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photoUrl" validate:"omitempty,url"`
	Gender   *string `json:"gender"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

type RoleUp struct {
	Role claims.Role `json:"role" validate:"required,oneof=Student Instructor Admin"`
}
