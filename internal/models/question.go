package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	QuestionTypeSimple     = "simple"
	QuestionTypeSharedText = "shared-text"
	QuestionTypeImageBased = "image-based"
)

var ValidSubjects = []string{"mathematics", "science", "social-studies", "language", "english"}

var ErrValidation = errors.New("validation error")

type Option struct {
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"is_correct" json:"is_correct"`
}

type Question struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Subject         string    `bson:"subject" json:"subject"`
	QuestionText    string    `bson:"question_text" json:"question_text"`
	Options         []Option  `bson:"options" json:"options"`
	Difficulty      string    `bson:"difficulty" json:"difficulty"`
	QuestionType    string    `bson:"question_type" json:"question_type"`
	SharedContentID string    `bson:"shared_content_id,omitempty" json:"shared_content_id,omitempty"`
	Position        int       `bson:"position,omitempty" json:"position,omitempty"`
	Explanation     string    `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Tags            []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func ValidSubject(s string) bool {
	for _, v := range ValidSubjects {
		if v == s {
			return true
		}
	}
	return false
}

// Validate enforces the write-time invariants: known subject and difficulty,
// non-empty question text, and exactly one correct option.
func (q *Question) Validate() error {
	q.Subject = strings.ToLower(strings.TrimSpace(q.Subject))
	q.Difficulty = strings.ToLower(strings.TrimSpace(q.Difficulty))

	if !ValidSubject(q.Subject) {
		return fmt.Errorf("%w: unknown subject %q", ErrValidation, q.Subject)
	}
	if !ValidDifficulty(q.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrValidation, q.Difficulty)
	}
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("%w: question text is required", ErrValidation)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: at least two options are required", ErrValidation)
	}

	correct := 0
	for _, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("%w: option text is required", ErrValidation)
		}
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: exactly one option must be correct, got %d", ErrValidation, correct)
	}

	if q.QuestionType == "" {
		q.QuestionType = QuestionTypeSimple
	}
	switch q.QuestionType {
	case QuestionTypeSimple, QuestionTypeSharedText, QuestionTypeImageBased:
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrValidation, q.QuestionType)
	}

	return nil
}

// CorrectOption returns the single option flagged correct, or nil when the
// document predates validation and has none.
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// ValidateAnswer reports whether the answer matches the correct option text,
// case-insensitively, either exactly or as a containing phrase.
func (q *Question) ValidateAnswer(answer string) bool {
	correct := q.CorrectOption()
	if correct == nil {
		return false
	}
	got := strings.ToLower(strings.TrimSpace(answer))
	want := strings.ToLower(correct.Text)
	return got == want || strings.Contains(got, want)
}
