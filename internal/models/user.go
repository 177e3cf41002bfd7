package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User holds the display fields a populated comment author exposes.
type User struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	FullName string             `json:"fullName" bson:"fullName"`
	Email    string             `json:"email" bson:"email"`
}
