package models

import (
	"errors"
	"testing"
)

func validQuestion() *Question {
	return &Question{
		Subject:      "Mathematics",
		QuestionText: "What is 2+2?",
		Difficulty:   "Easy",
		Options: []Option{
			{Text: "3"},
			{Text: "4", IsCorrect: true},
		},
	}
}

func TestQuestionValidate(t *testing.T) {
	q := validQuestion()
	if err := q.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.Subject != "mathematics" || q.Difficulty != DifficultyEasy {
		t.Errorf("Expected normalized subject and difficulty, got %s/%s", q.Subject, q.Difficulty)
	}
	if q.QuestionType != QuestionTypeSimple {
		t.Errorf("Expected default question type simple, got %s", q.QuestionType)
	}
}

func TestQuestionValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Question)
	}{
		{"unknown subject", func(q *Question) { q.Subject = "astrology" }},
		{"unknown difficulty", func(q *Question) { q.Difficulty = "impossible" }},
		{"empty text", func(q *Question) { q.QuestionText = "  " }},
		{"too few options", func(q *Question) { q.Options = q.Options[:1] }},
		{"no correct option", func(q *Question) { q.Options[1].IsCorrect = false }},
		{"two correct options", func(q *Question) { q.Options[0].IsCorrect = true }},
		{"unknown type", func(q *Question) { q.QuestionType = "essay" }},
	}

	for _, tc := range cases {
		q := validQuestion()
		tc.mutate(q)
		err := q.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestValidateAnswer(t *testing.T) {
	q := validQuestion()

	cases := []struct {
		answer string
		want   bool
	}{
		{"4", true},
		{" 4 ", true},
		{"the answer is 4", true},
		{"FOUR", false},
		{"3", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := q.ValidateAnswer(tc.answer); got != tc.want {
			t.Errorf("ValidateAnswer(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestCorrectOption(t *testing.T) {
	q := validQuestion()
	opt := q.CorrectOption()
	if opt == nil || opt.Text != "4" {
		t.Errorf("Expected option 4, got %+v", opt)
	}

	q.Options[1].IsCorrect = false
	if q.CorrectOption() != nil {
		t.Error("Expected nil when no option is marked correct")
	}
}
