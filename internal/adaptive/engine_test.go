package adaptive

import (
	"context"
	"testing"
	"time"

	"tutor-service/internal/models"
	"tutor-service/internal/repository"
)

type fakeCatalog struct {
	questions []models.Question
	calls     []repository.QuestionFilter
}

func (f *fakeCatalog) Find(_ context.Context, filter repository.QuestionFilter, _ int64) ([]models.Question, error) {
	f.calls = append(f.calls, filter)
	var out []models.Question
	for _, q := range f.questions {
		if filter.Subject != "" && q.Subject != filter.Subject {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		excluded := false
		for _, id := range filter.ExcludeIDs {
			if id == q.ID {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

type fakeLedger struct {
	progress *models.UserProgress
}

func (f *fakeLedger) GetProgress(_ context.Context, userID string) (*models.UserProgress, error) {
	if f.progress != nil {
		return f.progress, nil
	}
	return models.NewUserProgress(userID), nil
}

func question(id, subject, difficulty string) models.Question {
	return models.Question{ID: id, Subject: subject, Difficulty: difficulty}
}

func TestSelectQuestionDefaultsToEasy(t *testing.T) {
	catalog := &fakeCatalog{questions: []models.Question{
		question("q1", "mathematics", models.DifficultyHard),
		question("q2", "mathematics", models.DifficultyEasy),
	}}
	engine := NewEngine(catalog, &fakeLedger{})

	q, err := engine.SelectQuestion(context.Background(), "new-user", "mathematics", SelectOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q == nil || q.ID != "q2" {
		t.Errorf("Expected easy question q2 for a new user, got %+v", q)
	}
}

func TestSelectQuestionUsesStoredTier(t *testing.T) {
	progress := models.NewUserProgress("u")
	progress.SubjectProgress = []models.SubjectProgress{{
		Subject:           "science",
		CurrentDifficulty: models.DifficultyHard,
		TotalQuestions:    8,
	}}
	catalog := &fakeCatalog{questions: []models.Question{
		question("q1", "science", models.DifficultyEasy),
		question("q2", "science", models.DifficultyHard),
	}}
	engine := NewEngine(catalog, &fakeLedger{progress: progress})

	q, err := engine.SelectQuestion(context.Background(), "u", "science", SelectOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q == nil || q.ID != "q2" {
		t.Errorf("Expected hard question q2, got %+v", q)
	}
}

func TestSelectQuestionHonorsOverride(t *testing.T) {
	catalog := &fakeCatalog{questions: []models.Question{
		question("q1", "science", models.DifficultyEasy),
		question("q2", "science", models.DifficultyMedium),
	}}
	engine := NewEngine(catalog, &fakeLedger{})

	q, err := engine.SelectQuestion(context.Background(), "u", "science", SelectOptions{Difficulty: models.DifficultyMedium})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q == nil || q.ID != "q2" {
		t.Errorf("Expected medium question q2, got %+v", q)
	}
}

func TestSelectQuestionExcludesAnswered(t *testing.T) {
	progress := models.NewUserProgress("u")
	progress.AnsweredQuestions = []models.AnsweredQuestion{
		{QuestionID: "q1", Subject: "mathematics", IsCorrect: true},
	}
	catalog := &fakeCatalog{questions: []models.Question{
		question("q1", "mathematics", models.DifficultyEasy),
		question("q2", "mathematics", models.DifficultyEasy),
	}}
	engine := NewEngine(catalog, &fakeLedger{progress: progress})

	q, err := engine.SelectQuestion(context.Background(), "u", "mathematics", SelectOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q == nil || q.ID != "q2" {
		t.Errorf("Expected unanswered q2, got %+v", q)
	}
}

func TestSelectQuestionExhaustedTierIsTerminal(t *testing.T) {
	progress := models.NewUserProgress("u")
	progress.SubjectProgress = []models.SubjectProgress{{
		Subject:           "science",
		CurrentDifficulty: models.DifficultyMedium,
		TotalQuestions:    2,
	}}
	catalog := &fakeCatalog{questions: []models.Question{
		question("q1", "science", models.DifficultyHard),
	}}
	engine := NewEngine(catalog, &fakeLedger{progress: progress})

	q, err := engine.SelectQuestion(context.Background(), "u", "science", SelectOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q != nil {
		t.Errorf("Expected no question when the medium tier is empty, got %+v", q)
	}
	if len(catalog.calls) != 1 {
		t.Errorf("Expected a single tier-scoped lookup, got %d calls", len(catalog.calls))
	}
}

func TestSelectQuestionExhaustion(t *testing.T) {
	progress := models.NewUserProgress("u")
	progress.AnsweredQuestions = []models.AnsweredQuestion{
		{QuestionID: "q1", Subject: "science", IsCorrect: true},
	}
	catalog := &fakeCatalog{questions: []models.Question{
		question("q1", "science", models.DifficultyEasy),
	}}
	engine := NewEngine(catalog, &fakeLedger{progress: progress})

	q, err := engine.SelectQuestion(context.Background(), "u", "science", SelectOptions{})
	if err != nil {
		t.Fatalf("Expected no error on exhaustion, got %v", err)
	}
	if q != nil {
		t.Errorf("Expected nil question on exhaustion, got %+v", q)
	}
}

func TestRecommendSubjects(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	progress := models.NewUserProgress("u")
	progress.SubjectProgress = []models.SubjectProgress{
		{
			Subject:         "science",
			TotalQuestions:  10,
			CorrectAnswers:  9,
			AverageAccuracy: 90,
			LastAttempted:   now.Add(-5 * 24 * time.Hour),
		},
		{
			Subject:         "mathematics",
			TotalQuestions:  10,
			CorrectAnswers:  5,
			AverageAccuracy: 50,
			LastAttempted:   now.Add(-24 * time.Hour),
		},
		{
			Subject:         "english",
			TotalQuestions:  10,
			CorrectAnswers:  8,
			AverageAccuracy: 80,
			LastAttempted:   now.Add(-2 * time.Hour),
		},
		{
			Subject: "language",
		},
	}
	engine := NewEngine(&fakeCatalog{}, &fakeLedger{progress: progress})
	engine.now = func() time.Time { return now }

	recs, err := engine.RecommendSubjects(context.Background(), "u")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d: %+v", len(recs), recs)
	}
	if recs[0].Priority != "high" {
		t.Errorf("Expected high priority first, got %+v", recs)
	}

	byPriority := map[string]Recommendation{}
	for _, r := range recs {
		byPriority[r.Priority] = r
	}
	high, ok := byPriority["high"]
	if !ok || high.Subject != "mathematics" || high.Reason != "Needs improvement" {
		t.Errorf("Expected high-priority mathematics, got %+v", high)
	}
	medium, ok := byPriority["medium"]
	if !ok || medium.Subject != "science" || medium.Reason != "Needs practice" {
		t.Errorf("Expected medium-priority science, got %+v", medium)
	}
	if medium.DaysSinceAttempt != 5 {
		t.Errorf("Expected 5 days since attempt, got %d", medium.DaysSinceAttempt)
	}
}
