package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the ledger's backing document store. FindByUserID reports a
// missing document with mongo.ErrNoDocuments.
type Store interface {
	FindByUserID(ctx context.Context, userID string) (*models.UserProgress, error)
	Save(ctx context.Context, progress *models.UserProgress) error
}

// Update describes one answered question feeding the ledger.
type Update struct {
	Subject    string
	QuestionID string
	IsCorrect  bool
	TimeSpent  int64 // milliseconds
}

// Service owns all mutation of user progress. Updates for the same user are
// serialized; different users proceed in parallel.
type Service struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// GetProgress returns the user's ledger, or a zero-valued one when the user
// has never answered a question. The zero record is not persisted until the
// first update.
func (s *Service) GetProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	progress, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewUserProgress(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return progress, nil
}

// UpdateProgress records one answered question: daily streak, subject
// counters, answer-log upsert, difficulty promotion and global statistics,
// persisted in a single read-modify-write.
func (s *Service) UpdateProgress(ctx context.Context, userID string, upd Update) (*models.UserProgress, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	progress, err := s.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	s.updateDailyStreak(progress, now)

	sp := progress.Subject(upd.Subject)
	if sp == nil {
		progress.SubjectProgress = append(progress.SubjectProgress, models.SubjectProgress{
			Subject:           upd.Subject,
			CurrentDifficulty: models.DifficultyEasy,
			QuestionsAnswered: []string{},
		})
		sp = &progress.SubjectProgress[len(progress.SubjectProgress)-1]
	}

	sp.TotalQuestions++
	if upd.IsCorrect {
		sp.CorrectAnswers++
		sp.CorrectAnswersStreak++
	} else {
		sp.CorrectAnswersStreak = 0
	}
	sp.LastAttempted = now

	upsertString(&sp.QuestionsAnswered, upd.QuestionID)
	upsertAnswer(progress, models.AnsweredQuestion{
		QuestionID: upd.QuestionID,
		Subject:    upd.Subject,
		IsCorrect:  upd.IsCorrect,
		AnsweredAt: now,
		TimeSpent:  upd.TimeSpent,
	})

	sp.AverageAccuracy = float64(sp.CorrectAnswers) / float64(sp.TotalQuestions) * 100

	promote(sp)
	recomputeStatistics(progress)

	progress.UpdatedAt = now
	if err := s.store.Save(ctx, progress); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return progress, nil
}

// ResetProgress clears the answered-question history (the global log and each
// subject's seen set) so questions become selectable again. Counters,
// accuracy, streaks and difficulty tiers are left as an audit trail.
func (s *Service) ResetProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	progress, err := s.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress.AnsweredQuestions = []models.AnsweredQuestion{}
	for i := range progress.SubjectProgress {
		progress.SubjectProgress[i].QuestionsAnswered = []string{}
	}

	progress.UpdatedAt = s.now()
	if err := s.store.Save(ctx, progress); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return progress, nil
}

// updateDailyStreak compares calendar days, not timestamps: exactly one day
// elapsed extends the streak, more than one (or no prior activity) resets it
// to 1, and repeat activity on the same day leaves it alone.
func (s *Service) updateDailyStreak(progress *models.UserProgress, now time.Time) {
	if progress.LastActivity == nil {
		progress.CurrentStreak = 1
	} else {
		switch days := daysBetween(*progress.LastActivity, now); {
		case days == 1:
			progress.CurrentStreak++
		case days > 1:
			progress.CurrentStreak = 1
		}
	}
	if progress.CurrentStreak > progress.LongestStreak {
		progress.LongestStreak = progress.CurrentStreak
	}
	t := now
	progress.LastActivity = &t
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(earlier, later time.Time) int {
	from := truncateToDay(earlier)
	to := truncateToDay(later)
	return int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
}

func upsertString(set *[]string, value string) {
	for _, v := range *set {
		if v == value {
			return
		}
	}
	*set = append(*set, value)
}

func upsertAnswer(progress *models.UserProgress, entry models.AnsweredQuestion) {
	for i := range progress.AnsweredQuestions {
		if progress.AnsweredQuestions[i].QuestionID == entry.QuestionID {
			progress.AnsweredQuestions[i] = entry
			return
		}
	}
	progress.AnsweredQuestions = append(progress.AnsweredQuestions, entry)
}

// promote walks the difficulty ladder: three consecutive correct answers
// move easy to medium, five move medium to hard. The streak counter resets
// on promotion and hard is terminal. There is no demotion path.
func promote(sp *models.SubjectProgress) {
	switch {
	case sp.CurrentDifficulty == models.DifficultyEasy && sp.CorrectAnswersStreak >= 3:
		sp.CurrentDifficulty = models.DifficultyMedium
		sp.CorrectAnswersStreak = 0
	case sp.CurrentDifficulty == models.DifficultyMedium && sp.CorrectAnswersStreak >= 5:
		sp.CurrentDifficulty = models.DifficultyHard
		sp.CorrectAnswersStreak = 0
	}
}

func recomputeStatistics(progress *models.UserProgress) {
	stats := models.Statistics{}
	var best *models.SubjectProgress

	for i := range progress.SubjectProgress {
		sp := &progress.SubjectProgress[i]
		stats.TotalQuestions += sp.TotalQuestions
		stats.CorrectAnswers += sp.CorrectAnswers
		if best == nil || sp.AverageAccuracy > best.AverageAccuracy {
			best = sp
		}
	}
	if stats.TotalQuestions > 0 {
		stats.AverageAccuracy = float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100
	}
	if best != nil {
		stats.BestSubject = &models.BestSubject{Subject: best.Subject, Accuracy: best.AverageAccuracy}
	}
	progress.Statistics = stats
}
