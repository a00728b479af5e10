package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"tutor-service/internal/llm"
	"tutor-service/internal/models"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 500

	// Only the most recent turns are sent to the model; the stored
	// history is unbounded.
	contextWindow = 5
)

var ErrNoHistory = errors.New("chat history not found")

// Store persists one free-form chat document per user.
type Store interface {
	FindByUserID(ctx context.Context, userID string) (*models.Chat, error)
	Save(ctx context.Context, chat *models.Chat) error
}

// Service runs the standalone study chat, separate from the question-bound
// tutoring session. History survives restarts in Mongo.
type Service struct {
	store  Store
	oracle llm.Oracle
	now    func() time.Time
}

func NewService(store Store, oracle llm.Oracle) *Service {
	return &Service{store: store, oracle: oracle, now: time.Now}
}

// History returns the stored conversation, or ErrNoHistory for a user who
// has never chatted.
func (s *Service) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	chat, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoHistory
	}
	if err != nil {
		return nil, err
	}
	return chat.Messages, nil
}

// Message appends the student's turn, asks the oracle with the last few
// turns as context, appends the reply, and persists the whole history.
func (s *Service) Message(ctx context.Context, userID, text, studyContext string) (string, []models.ChatMessage, error) {
	chat, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		chat = &models.Chat{UserID: userID}
	} else if err != nil {
		return "", nil, err
	}

	now := s.now()
	chat.Messages = append(chat.Messages, models.ChatMessage{
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: now,
	})

	prompt := []models.ChatMessage{{Role: models.RoleSystem, Content: systemPrompt(studyContext)}}
	prompt = append(prompt, recentTurns(chat.Messages)...)

	reply, err := s.oracle.Complete(ctx, prompt, chatTemperature, chatMaxTokens)
	if err != nil {
		return "", nil, err
	}

	chat.Messages = append(chat.Messages, models.ChatMessage{
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: s.now(),
	})
	chat.UpdatedAt = s.now()

	if err := s.store.Save(ctx, chat); err != nil {
		return "", nil, err
	}
	return reply, chat.Messages, nil
}

// Clear empties the stored history. Clearing a history that never existed
// is not an error.
func (s *Service) Clear(ctx context.Context, userID string) error {
	chat, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return err
	}
	chat.Messages = []models.ChatMessage{}
	chat.UpdatedAt = s.now()
	return s.store.Save(ctx, chat)
}

func systemPrompt(studyContext string) string {
	if studyContext == "" {
		studyContext = "No specific context"
	}
	return fmt.Sprintf("You are a Socratic tutor specialized in exam preparation.\n"+
		"Your goal is to guide the student through questions and reflection, not to give direct answers.\n"+
		"Current context: %s", studyContext)
}

func recentTurns(messages []models.ChatMessage) []models.ChatMessage {
	if len(messages) <= contextWindow {
		return messages
	}
	return messages[len(messages)-contextWindow:]
}
