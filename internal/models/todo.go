package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Todo represents a todo item. Only the comment list is mutated by this
// backend; todos themselves are created and deleted elsewhere.
type Todo struct {
	ID        primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Title     string               `json:"title" bson:"title"`
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// HasComment reports whether the todo's comment list references the given
// comment id.
func (t *Todo) HasComment(commentID primitive.ObjectID) bool {
	for _, id := range t.Comments {
		if id == commentID {
			return true
		}
	}
	return false
}
