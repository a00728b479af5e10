package repository

import (
	"context"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionFilter narrows catalog queries. Zero values mean "no constraint".
type QuestionFilter struct {
	Subject         string
	Difficulty      string
	QuestionType    string
	SharedContentID string
	ExcludeIDs      []string
}

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (f QuestionFilter) build() bson.M {
	filter := bson.M{}
	if f.Subject != "" {
		filter["subject"] = f.Subject
	}
	if f.Difficulty != "" {
		filter["difficulty"] = f.Difficulty
	}
	if f.QuestionType != "" {
		filter["question_type"] = f.QuestionType
	}
	if f.SharedContentID != "" {
		filter["shared_content_id"] = f.SharedContentID
	}
	if len(f.ExcludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": f.ExcludeIDs}
	}
	return filter
}

// Find returns questions matching the filter. When filtering by shared
// content the results come back ordered by position.
func (r *QuestionRepository) Find(ctx context.Context, filter QuestionFilter, limit int64) ([]models.Question, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if filter.SharedContentID != "" {
		opts.SetSort(bson.D{{Key: "position", Value: 1}})
	}

	cur, err := r.Col.Find(ctx, filter.build(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

// CreateMany inserts a batch of questions, assigning ids in place.
func (r *QuestionRepository) CreateMany(ctx context.Context, questions []models.Question) error {
	docs := make([]interface{}, len(questions))
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = primitive.NewObjectID().Hex()
		}
		docs[i] = questions[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *QuestionRepository) Replace(ctx context.Context, id string, question *models.Question) error {
	question.ID = id
	res, err := r.Col.ReplaceOne(ctx, bson.M{"_id": id}, question)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
