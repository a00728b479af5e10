package repository

import (
	"context"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository struct {
	Col *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{Col: db.Collection("chats")}
}

func (r *ChatRepository) FindByUserID(ctx context.Context, userID string) (*models.Chat, error) {
	var chat models.Chat
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) Save(ctx context.Context, chat *models.Chat) error {
	if chat.ID == "" {
		chat.ID = primitive.NewObjectID().Hex()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"user_id": chat.UserID}, chat, opts)
	return err
}
