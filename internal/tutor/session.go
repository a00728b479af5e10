package tutor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tutor-service/internal/models"
)

// Session holds one user's ongoing Socratic dialogue. The full transcript
// including system prompts lives here; only non-system turns are ever
// returned to clients.
type Session struct {
	ID                    string
	UserID                string
	Subject               string
	Difficulty            string
	Messages              []models.ChatMessage
	CurrentQuestion       *models.Question
	IsCorrect             bool
	SharedContent         *models.SharedContent
	TotalQuestions        int
	CurrentQuestionNumber int
	StartedAt             time.Time
}

func newSession(userID, subject, difficulty string) *Session {
	return &Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		Subject:    subject,
		Difficulty: difficulty,
		StartedAt:  time.Now(),
	}
}

// clone returns a copy safe to mutate before committing back to the store.
func (s *Session) clone() *Session {
	copied := *s
	copied.Messages = make([]models.ChatMessage, len(s.Messages))
	copy(copied.Messages, s.Messages)
	return &copied
}

// Transcript returns the client-visible conversation without system turns.
func (s *Session) Transcript() []models.ChatMessage {
	out := []models.ChatMessage{}
	for _, m := range s.Messages {
		if m.Role == models.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SessionStore keeps at most one active session per user.
type SessionStore interface {
	Get(userID string) (*Session, bool)
	Put(userID string, session *Session)
	Delete(userID string)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: map[string]*Session{}}
}

func (m *memoryStore) Get(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[userID]
	return session, ok
}

func (m *memoryStore) Put(userID string, session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = session
}

func (m *memoryStore) Delete(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
