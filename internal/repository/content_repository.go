package repository

import (
	"context"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ContentRepository struct {
	Col *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{Col: db.Collection("shared_content")}
}

func (r *ContentRepository) FindByID(ctx context.Context, id string) (*models.SharedContent, error) {
	var content models.SharedContent
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&content)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) FindBySubject(ctx context.Context, subject string) ([]models.SharedContent, error) {
	filter := bson.M{}
	if subject != "" {
		filter["subject"] = subject
	}
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var contents []models.SharedContent
	if err := cur.All(ctx, &contents); err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *ContentRepository) Create(ctx context.Context, content *models.SharedContent) error {
	if content.ID == "" {
		content.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, content)
	return err
}

func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
