package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentTargetTodo is the discriminator value for comments attached to todos.
// It is the only target kind this backend handles.
const CommentTargetTodo = "Todo"

// Comment represents a comment attached to a todo item.
type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TaskRef   primitive.ObjectID `json:"taskRef" bson:"taskRef"`
	OnModel   string             `json:"onModel" bson:"onModel"`
	AuthorID  primitive.ObjectID `json:"-" bson:"author"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Author carries the populated display fields of the authoring user.
	// It is filled when a comment is re-read for broadcast and is never
	// stored.
	Author *User `json:"author,omitempty" bson:"-"`
}

// IsAuthoredBy reports whether the comment was written by the given user id,
// compared as hex strings the way clients send them.
func (c *Comment) IsAuthoredBy(userID string) bool {
	return c.AuthorID.Hex() == userID
}
