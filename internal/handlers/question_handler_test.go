package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"tutor-service/internal/models"
	"tutor-service/internal/repository"
)

type fakeQuestionStore struct {
	stored   map[string]*models.Question
	replaced *models.Question
	batch    []models.Question
}

func (f *fakeQuestionStore) Find(_ context.Context, _ repository.QuestionFilter, _ int64) ([]models.Question, error) {
	return nil, nil
}

func (f *fakeQuestionStore) FindByID(_ context.Context, id string) (*models.Question, error) {
	q, ok := f.stored[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *q
	return &copied, nil
}

func (f *fakeQuestionStore) Create(_ context.Context, _ *models.Question) error { return nil }

func (f *fakeQuestionStore) CreateMany(_ context.Context, questions []models.Question) error {
	f.batch = questions
	return nil
}

func (f *fakeQuestionStore) Replace(_ context.Context, _ string, q *models.Question) error {
	f.replaced = q
	return nil
}

func (f *fakeQuestionStore) Delete(_ context.Context, _ string) error { return nil }

func questionRouter(store *fakeQuestionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewQuestionHandler(store)
	r := gin.New()
	r.PUT("/question/:id", h.UpdateQuestion)
	r.POST("/question/batch", h.CreateQuestionsBatch)
	return r
}

func storedQuestion() *models.Question {
	return &models.Question{
		ID:           "q1",
		Subject:      "mathematics",
		QuestionText: "What is 2+2?",
		Difficulty:   models.DifficultyEasy,
		QuestionType: models.QuestionTypeSimple,
		Options: []models.Option{
			{Text: "3"},
			{Text: "4", IsCorrect: true},
		},
	}
}

func TestUpdateQuestionMergesAndSaves(t *testing.T) {
	store := &fakeQuestionStore{stored: map[string]*models.Question{"q1": storedQuestion()}}
	r := questionRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/question/q1", strings.NewReader(`{"difficulty":"medium"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if store.replaced == nil {
		t.Fatal("Expected the document to be saved")
	}
	if store.replaced.Difficulty != models.DifficultyMedium {
		t.Errorf("Expected difficulty updated, got %q", store.replaced.Difficulty)
	}
	if store.replaced.QuestionText != "What is 2+2?" {
		t.Errorf("Expected untouched fields preserved, got %q", store.replaced.QuestionText)
	}
}

func TestUpdateQuestionRejectsInvalidEdit(t *testing.T) {
	store := &fakeQuestionStore{stored: map[string]*models.Question{"q1": storedQuestion()}}
	r := questionRouter(store)

	// Two correct options must never reach the catalog.
	body := `{"options":[{"text":"3","is_correct":true},{"text":"4","is_correct":true}]}`
	req := httptest.NewRequest(http.MethodPut, "/question/q1", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if store.replaced != nil {
		t.Error("Expected no save for an invalid edit")
	}
}

func TestUpdateQuestionNotFound(t *testing.T) {
	store := &fakeQuestionStore{stored: map[string]*models.Question{}}
	r := questionRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/question/missing", strings.NewReader(`{"difficulty":"medium"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestCreateQuestionsBatch(t *testing.T) {
	store := &fakeQuestionStore{}
	r := questionRouter(store)

	body := `[
		{"subject":"mathematics","question_text":"What is 2+2?","difficulty":"easy",
		 "options":[{"text":"3"},{"text":"4","is_correct":true}]},
		{"subject":"science","question_text":"What orbits the sun?","difficulty":"easy",
		 "options":[{"text":"The moon"},{"text":"The earth","is_correct":true}]}
	]`
	req := httptest.NewRequest(http.MethodPost, "/question/batch", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.batch) != 2 {
		t.Errorf("Expected 2 questions inserted, got %d", len(store.batch))
	}
}

func TestCreateQuestionsBatchRejectsInvalidEntry(t *testing.T) {
	store := &fakeQuestionStore{}
	r := questionRouter(store)

	// The second entry has no correct option; nothing may be written.
	body := `[
		{"subject":"mathematics","question_text":"What is 2+2?","difficulty":"easy",
		 "options":[{"text":"3"},{"text":"4","is_correct":true}]},
		{"subject":"science","question_text":"Broken","difficulty":"easy",
		 "options":[{"text":"a"},{"text":"b"}]}
	]`
	req := httptest.NewRequest(http.MethodPost, "/question/batch", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if store.batch != nil {
		t.Error("Expected no insert for an invalid batch")
	}
}

func TestCreateQuestionsBatchRejectsEmpty(t *testing.T) {
	store := &fakeQuestionStore{}
	r := questionRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/question/batch", strings.NewReader(`[]`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an empty batch, got %d", w.Code)
	}
}
