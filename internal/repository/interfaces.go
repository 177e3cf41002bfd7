package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/models"
)

// ErrNotFound is returned by all repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// TodoRepository defines the interface for todo data operations. The comment
// list is only ever changed through PushComment/PullComment, which must be
// atomic at the document level so concurrent writers cannot lose updates.
type TodoRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Todo, error)
	// PushComment appends the comment id to the end of the todo's list.
	PushComment(ctx context.Context, todoID, commentID primitive.ObjectID) error
	// PullComment removes the comment id from the todo's list. Removing an
	// id that is not in the list is a no-op, not an error.
	PullComment(ctx context.Context, todoID, commentID primitive.ObjectID) error
}

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	// UpdateContent sets the comment's content and stamps updatedAt.
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TeamRepository defines the interface for team data operations.
type TeamRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
}

// UserRepository defines the interface for user data operations. GetByID
// returns only the display fields used to populate a comment author.
type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
