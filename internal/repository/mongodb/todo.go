package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/models"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/repository"
)

type todoRepository struct {
	coll *mongo.Collection
}

// NewTodoRepository creates a Mongo-backed todo repository.
func NewTodoRepository(db *mongo.Database) repository.TodoRepository {
	return &todoRepository{coll: db.Collection("todos")}
}

func (r *todoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Todo, error) {
	var todo models.Todo
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&todo)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo %s: %w", id.Hex(), err)
	}
	return &todo, nil
}

// PushComment appends atomically, so two concurrent adds on the same todo
// both land without a read-modify-write race.
func (r *todoRepository) PushComment(ctx context.Context, todoID, commentID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": todoID},
		bson.M{
			"$push": bson.M{"comments": commentID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to push comment onto todo %s: %w", todoID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *todoRepository) PullComment(ctx context.Context, todoID, commentID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": todoID},
		bson.M{
			"$pull": bson.M{"comments": commentID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to pull comment from todo %s: %w", todoID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
