package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/models"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/repository"
)

type teamRepository struct {
	coll *mongo.Collection
}

// NewTeamRepository creates a Mongo-backed team repository.
func NewTeamRepository(db *mongo.Database) repository.TeamRepository {
	return &teamRepository{coll: db.Collection("teams")}
}

func (r *teamRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team %s: %w", id.Hex(), err)
	}
	return &team, nil
}
