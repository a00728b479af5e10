package repository

import (
	"context"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("user_progress")}
}

// FindByUserID returns the user's ledger document, or mongo.ErrNoDocuments
// when the user has no progress yet.
func (r *ProgressRepository) FindByUserID(ctx context.Context, userID string) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&progress)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Save upserts the whole ledger document keyed by user id. A single
// read-modify-write per update call; there is no optimistic-concurrency
// token, the service serializes writers per user instead.
func (r *ProgressRepository) Save(ctx context.Context, progress *models.UserProgress) error {
	if progress.ID == "" {
		progress.ID = primitive.NewObjectID().Hex()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"user_id": progress.UserID}, progress, opts)
	return err
}
