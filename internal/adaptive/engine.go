package adaptive

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"tutor-service/internal/models"
	"tutor-service/internal/repository"
)

// SelectionPolicy controls which candidate is chosen when several
// unanswered questions match the active difficulty tier.
type SelectionPolicy int

const (
	PickFirst SelectionPolicy = iota
	PickRandom
)

const candidateLimit = 25

// Catalog is the slice of the question repository the engine needs.
type Catalog interface {
	Find(ctx context.Context, filter repository.QuestionFilter, limit int64) ([]models.Question, error)
}

// Ledger exposes the stored progress the engine selects against.
type Ledger interface {
	GetProgress(ctx context.Context, userID string) (*models.UserProgress, error)
}

type SelectOptions struct {
	// Difficulty overrides the tier derived from the user's progress.
	Difficulty string
	// QuestionType restricts candidates to a single question type.
	QuestionType string
	Policy       SelectionPolicy
}

type Recommendation struct {
	Subject          string  `json:"subject"`
	Priority         string  `json:"priority"`
	Reason           string  `json:"reason"`
	Accuracy         float64 `json:"accuracy"`
	DaysSinceAttempt int     `json:"days_since_attempt"`
}

type Engine struct {
	catalog Catalog
	ledger  Ledger
	rng     *rand.Rand
	now     func() time.Time
}

func NewEngine(catalog Catalog, ledger Ledger) *Engine {
	return &Engine{
		catalog: catalog,
		ledger:  ledger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// SelectQuestion picks the next unanswered question for the user in the
// given subject. The difficulty tier comes from the user's per-subject
// progress unless the caller overrides it. An exhausted tier is a terminal
// state: the engine returns (nil, nil) so callers can report that nothing
// is left at this subject and difficulty, rather than serving another tier.
func (e *Engine) SelectQuestion(ctx context.Context, userID, subject string, opts SelectOptions) (*models.Question, error) {
	progress, err := e.ledger.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	tier := opts.Difficulty
	if tier == "" {
		tier = models.DifficultyEasy
		if sp := progress.Subject(subject); sp != nil {
			tier = sp.CurrentDifficulty
		}
	}

	exclude := progress.AnsweredIDs()
	candidates, err := e.catalog.Find(ctx, repository.QuestionFilter{
		Subject:      subject,
		Difficulty:   tier,
		QuestionType: opts.QuestionType,
		ExcludeIDs:   exclude,
	}, candidateLimit)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	idx := 0
	if opts.Policy == PickRandom {
		idx = e.rng.Intn(len(candidates))
	}
	return &candidates[idx], nil
}

// RecommendSubjects flags subjects that need attention. Low accuracy wins
// over staleness, and subjects doing fine are left out of the list.
func (e *Engine) RecommendSubjects(ctx context.Context, userID string) ([]Recommendation, error) {
	progress, err := e.ledger.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	recommendations := []Recommendation{}
	for i := range progress.SubjectProgress {
		sp := &progress.SubjectProgress[i]
		if sp.TotalQuestions == 0 {
			continue
		}

		days := 0
		if !sp.LastAttempted.IsZero() {
			days = int(now.Sub(sp.LastAttempted).Hours() / 24)
		}

		switch {
		case sp.AverageAccuracy < 70:
			recommendations = append(recommendations, Recommendation{
				Subject:          sp.Subject,
				Priority:         "high",
				Reason:           "Needs improvement",
				Accuracy:         sp.AverageAccuracy,
				DaysSinceAttempt: days,
			})
		case days > 3:
			recommendations = append(recommendations, Recommendation{
				Subject:          sp.Subject,
				Priority:         "medium",
				Reason:           "Needs practice",
				Accuracy:         sp.AverageAccuracy,
				DaysSinceAttempt: days,
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority == "high" && recommendations[j].Priority != "high"
	})
	return recommendations, nil
}
