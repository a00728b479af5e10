package tutor

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"

	"tutor-service/internal/adaptive"
	"tutor-service/internal/llm"
	"tutor-service/internal/models"
	"tutor-service/internal/progress"
	"tutor-service/internal/repository"
)

const (
	chatTemperature     = 0.7
	chatMaxTokens       = 500
	analysisTemperature = 0.1
	analysisMaxTokens   = 50
	elementMaxTokens    = 150
)

var (
	ErrNoSession       = errors.New("no active conversation")
	ErrNoQuestions     = errors.New("no questions available")
	ErrContentNotFound = errors.New("shared content not found")
	ErrElementNotFound = errors.New("image element not found")
)

// Catalog is the slice of the question repository the tutor needs.
type Catalog interface {
	Find(ctx context.Context, filter repository.QuestionFilter, limit int64) ([]models.Question, error)
}

type ContentStore interface {
	FindByID(ctx context.Context, id string) (*models.SharedContent, error)
}

// Ledger records answer outcomes and exposes the stored difficulty tier.
type Ledger interface {
	GetProgress(ctx context.Context, userID string) (*models.UserProgress, error)
	UpdateProgress(ctx context.Context, userID string, upd progress.Update) (*models.UserProgress, error)
}

// Selector picks the next unanswered question for a user.
type Selector interface {
	SelectQuestion(ctx context.Context, userID, subject string, opts adaptive.SelectOptions) (*models.Question, error)
}

// Service drives the per-user Socratic tutoring session. All session
// mutations are staged on a copy and committed only after the oracle call
// succeeds, so a failed completion never leaves a half-updated session.
type Service struct {
	oracle       llm.Oracle
	catalog      Catalog
	content      ContentStore
	ledger       Ledger
	selector     Selector
	sessions     SessionStore
	literalJudge AnswerJudge
	oracleJudge  AnswerJudge
}

func NewService(oracle llm.Oracle, catalog Catalog, content ContentStore, ledger Ledger, selector Selector, sessions SessionStore) *Service {
	return &Service{
		oracle:       oracle,
		catalog:      catalog,
		content:      content,
		ledger:       ledger,
		selector:     selector,
		sessions:     sessions,
		literalJudge: ExactOrSubstringMatch{},
		oracleJudge:  OracleJudgedMatch{Oracle: oracle},
	}
}

type StartResult struct {
	ChatHistory           []models.ChatMessage  `json:"chat_history"`
	Question              *models.Question      `json:"question"`
	Subject               string                `json:"subject"`
	Difficulty            string                `json:"difficulty"`
	SharedContent         *models.SharedContent `json:"shared_content,omitempty"`
	TotalQuestions        int                   `json:"total_questions"`
	CurrentQuestionNumber int                   `json:"current_question_number"`
}

type MessageResult struct {
	ChatHistory []models.ChatMessage `json:"chat_history"`
	IsCorrect   bool                 `json:"is_correct"`
}

type NextResult struct {
	StartResult
	NoSession bool `json:"no_session,omitempty"`
}

type ElementResult struct {
	Element     *models.ImageElement `json:"element"`
	Explanation string               `json:"explanation"`
}

// Start opens a new tutoring session for the user, replacing any existing
// one. With a sharedContentID the first question of that content is used;
// otherwise the adaptive engine picks an unanswered question at the user's
// stored tier.
func (s *Service) Start(ctx context.Context, userID, subject, sharedContentID string) (*StartResult, error) {
	difficulty, err := s.storedTier(ctx, userID, subject)
	if err != nil {
		return nil, err
	}

	var (
		question       *models.Question
		content        *models.SharedContent
		totalQuestions = 1
		questionNumber = 1
	)

	if sharedContentID != "" {
		content, err = s.content.FindByID(ctx, sharedContentID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrContentNotFound
		}
		if err != nil {
			return nil, err
		}

		questions, err := s.catalog.Find(ctx, repository.QuestionFilter{SharedContentID: sharedContentID}, 0)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return nil, ErrNoQuestions
		}
		question = &questions[0]
		totalQuestions = len(questions)
	} else {
		question, err = s.selector.SelectQuestion(ctx, userID, subject, adaptive.SelectOptions{Policy: adaptive.PickFirst})
		if err != nil {
			return nil, err
		}
		if question == nil {
			return nil, ErrNoQuestions
		}

		// The picked question may belong to a shared content set; attach
		// its context and position when it does.
		if question.SharedContentID != "" {
			content, totalQuestions, questionNumber = s.contentContext(ctx, question)
		}
	}

	session := newSession(userID, subject, difficulty)
	session.CurrentQuestion = question
	session.SharedContent = content
	session.TotalQuestions = totalQuestions
	session.CurrentQuestionNumber = questionNumber
	session.Messages = []models.ChatMessage{
		{Role: models.RoleSystem, Content: buildSystemPrompt(subject, question, content, questionNumber, totalQuestions)},
	}

	assistant, err := s.reply(ctx, session.Messages)
	if err != nil {
		return nil, err
	}
	session.Messages = append(session.Messages, assistant)
	s.sessions.Put(userID, session)

	return &StartResult{
		ChatHistory:           []models.ChatMessage{assistant},
		Question:              question,
		Subject:               subject,
		Difficulty:            difficulty,
		SharedContent:         content,
		TotalQuestions:        totalQuestions,
		CurrentQuestionNumber: questionNumber,
	}, nil
}

// Message appends a student turn, has the oracle judge it against the
// correct option with a separate low-temperature prompt, generates the
// tutor's reply, and records a correct answer in the ledger.
func (s *Service) Message(ctx context.Context, userID, text string, timeSpent int64) (*MessageResult, error) {
	current, ok := s.sessions.Get(userID)
	if !ok {
		return nil, ErrNoSession
	}

	session := current.clone()
	session.Messages = append(session.Messages, models.ChatMessage{Role: models.RoleUser, Content: text})

	// Analysis failures count as incorrect rather than failing the exchange.
	isCorrect, err := s.oracleJudge.Judge(ctx, session.CurrentQuestion, text)
	if err != nil {
		log.Printf("Answer analysis failed: %v", err)
		isCorrect = false
	}

	assistant, err := s.reply(ctx, session.Messages)
	if err != nil {
		return nil, err
	}
	session.Messages = append(session.Messages, assistant)
	session.IsCorrect = isCorrect
	s.sessions.Put(userID, session)

	// A correct answer that cannot be recorded is a failed exchange. The
	// committed session keeps the dialogue, but the caller must not see
	// success while the ledger missed the answer.
	if isCorrect {
		_, err := s.ledger.UpdateProgress(ctx, userID, progress.Update{
			Subject:    session.Subject,
			QuestionID: session.CurrentQuestion.ID,
			IsCorrect:  true,
			TimeSpent:  timeSpent,
		})
		if err != nil {
			return nil, fmt.Errorf("record progress: %w", err)
		}
	}

	return &MessageResult{ChatHistory: session.Transcript(), IsCorrect: isCorrect}, nil
}

// CheckAnswer compares the literal answer against the correct option. On a
// match the oracle is asked to congratulate the student and explain why the
// answer is right.
func (s *Service) CheckAnswer(ctx context.Context, userID, answer string) (*MessageResult, error) {
	current, ok := s.sessions.Get(userID)
	if !ok {
		return nil, ErrNoSession
	}

	isCorrect, _ := s.literalJudge.Judge(ctx, current.CurrentQuestion, answer)
	if !isCorrect {
		return &MessageResult{ChatHistory: current.Transcript(), IsCorrect: false}, nil
	}

	session := current.clone()
	correct := session.CurrentQuestion.CorrectOption()
	session.Messages = append(session.Messages, models.ChatMessage{
		Role:    models.RoleSystem,
		Content: buildCongratulationPrompt(correct.Text),
	})

	assistant, err := s.reply(ctx, session.Messages)
	if err != nil {
		return nil, err
	}
	session.Messages = append(session.Messages, assistant)
	session.IsCorrect = true
	s.sessions.Put(userID, session)

	return &MessageResult{ChatHistory: session.Transcript(), IsCorrect: true}, nil
}

// NextQuestion advances the session. Inside a shared content set the
// questions cycle in position order, wrapping back to the first. Otherwise
// the adaptive engine picks a random unanswered simple question at the
// ledger's current tier, honoring an explicit difficulty override. Without
// an active session the bare question is returned and no dialogue starts.
func (s *Service) NextQuestion(ctx context.Context, userID, subject, difficulty, sharedContentID string) (*NextResult, error) {
	current, hasSession := s.sessions.Get(userID)

	if sharedContentID == "" && hasSession && current.SharedContent != nil {
		sharedContentID = current.SharedContent.ID
	}
	if sharedContentID != "" {
		return s.nextInContent(ctx, userID, subject, difficulty, sharedContentID, current, hasSession)
	}

	// The ledger is the only promotion authority. Without an explicit
	// override the next question follows its current tier, so a promotion
	// earned mid-session takes effect on the very next pick.
	if difficulty == "" {
		tier, err := s.storedTier(ctx, userID, subject)
		if err != nil {
			return nil, err
		}
		difficulty = tier
	}

	question, err := s.selector.SelectQuestion(ctx, userID, subject, adaptive.SelectOptions{
		Difficulty:   difficulty,
		QuestionType: models.QuestionTypeSimple,
		Policy:       adaptive.PickRandom,
	})
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrNoQuestions
	}

	if !hasSession {
		return &NextResult{
			StartResult: StartResult{Question: question, Subject: subject, Difficulty: difficulty},
			NoSession:   true,
		}, nil
	}

	session := current.clone()
	session.Subject = subject
	session.Difficulty = difficulty
	session.CurrentQuestion = question
	session.IsCorrect = false
	session.SharedContent = nil
	session.TotalQuestions = 1
	session.CurrentQuestionNumber = 1
	session.Messages = []models.ChatMessage{
		{Role: models.RoleSystem, Content: buildSystemPrompt(subject, question, nil, 1, 1)},
	}

	assistant, err := s.reply(ctx, session.Messages)
	if err != nil {
		return nil, err
	}
	session.Messages = append(session.Messages, assistant)
	s.sessions.Put(userID, session)

	return &NextResult{StartResult: StartResult{
		ChatHistory:           []models.ChatMessage{assistant},
		Question:              question,
		Subject:               subject,
		Difficulty:            difficulty,
		TotalQuestions:        1,
		CurrentQuestionNumber: 1,
	}}, nil
}

func (s *Service) nextInContent(ctx context.Context, userID, subject, difficulty, contentID string, current *Session, hasSession bool) (*NextResult, error) {
	content, err := s.content.FindByID(ctx, contentID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}

	questions, err := s.catalog.Find(ctx, repository.QuestionFilter{SharedContentID: contentID}, 0)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	// Advance one position past the session's current question, wrapping
	// back to the first when the set is finished.
	position := 0
	if hasSession && current.CurrentQuestion != nil {
		for i := range questions {
			if questions[i].ID == current.CurrentQuestion.ID {
				position = i
				break
			}
		}
	}
	next := (position + 1) % len(questions)
	question := &questions[next]

	if difficulty == "" {
		difficulty, err = s.storedTier(ctx, userID, subject)
		if err != nil {
			return nil, err
		}
	}

	var session *Session
	if hasSession {
		session = current.clone()
		session.Subject = subject
		session.Difficulty = difficulty
	} else {
		session = newSession(userID, subject, difficulty)
	}
	session.CurrentQuestion = question
	session.IsCorrect = false
	session.SharedContent = content
	session.TotalQuestions = len(questions)
	session.CurrentQuestionNumber = next + 1
	session.Messages = []models.ChatMessage{
		{Role: models.RoleSystem, Content: buildSystemPrompt(subject, question, content, next+1, len(questions))},
	}

	assistant, err := s.reply(ctx, session.Messages)
	if err != nil {
		return nil, err
	}
	session.Messages = append(session.Messages, assistant)
	s.sessions.Put(userID, session)

	return &NextResult{StartResult: StartResult{
		ChatHistory:           []models.ChatMessage{assistant},
		Question:              question,
		Subject:               subject,
		Difficulty:            difficulty,
		SharedContent:         content,
		TotalQuestions:        len(questions),
		CurrentQuestionNumber: next + 1,
	}}, nil
}

// ImageElementInfo explains one described element of the session's shared
// image or graph.
func (s *Service) ImageElementInfo(ctx context.Context, userID, contentID string, elementID int) (*ElementResult, error) {
	if _, ok := s.sessions.Get(userID); !ok {
		return nil, ErrNoSession
	}

	content, err := s.content.FindByID(ctx, contentID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}

	element := content.Element(elementID)
	if element == nil {
		return nil, ErrElementNotFound
	}

	explanation, err := s.oracle.Complete(ctx, []models.ChatMessage{
		{Role: models.RoleUser, Content: buildElementPrompt(element, content)},
	}, chatTemperature, elementMaxTokens)
	if err != nil {
		return nil, err
	}

	return &ElementResult{Element: element, Explanation: explanation}, nil
}

// EndSession discards the user's active session, if any.
func (s *Service) EndSession(userID string) {
	s.sessions.Delete(userID)
}

// contentContext resolves a question's shared content and its position
// within the content's ordered set. Best effort: when the content cannot be
// loaded the question is still served standalone.
func (s *Service) contentContext(ctx context.Context, question *models.Question) (*models.SharedContent, int, int) {
	content, err := s.content.FindByID(ctx, question.SharedContentID)
	if err != nil {
		log.Printf("Failed to load shared content %s: %v", question.SharedContentID, err)
		return nil, 1, 1
	}

	siblings, err := s.catalog.Find(ctx, repository.QuestionFilter{SharedContentID: question.SharedContentID}, 0)
	if err != nil || len(siblings) == 0 {
		return content, 1, 1
	}

	position := 1
	for i := range siblings {
		if siblings[i].ID == question.ID {
			position = i + 1
			break
		}
	}
	return content, len(siblings), position
}

func (s *Service) reply(ctx context.Context, messages []models.ChatMessage) (models.ChatMessage, error) {
	content, err := s.oracle.Complete(ctx, messages, chatTemperature, chatMaxTokens)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("generate tutor reply: %w", err)
	}
	return models.ChatMessage{Role: models.RoleAssistant, Content: content}, nil
}

func (s *Service) storedTier(ctx context.Context, userID, subject string) (string, error) {
	userProgress, err := s.ledger.GetProgress(ctx, userID)
	if err != nil {
		return "", err
	}
	if sp := userProgress.Subject(subject); sp != nil && sp.CurrentDifficulty != "" {
		return sp.CurrentDifficulty, nil
	}
	return models.DifficultyEasy, nil
}
