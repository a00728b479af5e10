package models

import "time"

// AnsweredQuestion is one entry in the global per-user answer log. The log has
// upsert semantics: re-answering a question replaces its entry.
type AnsweredQuestion struct {
	QuestionID string    `bson:"question_id" json:"question_id"`
	Subject    string    `bson:"subject" json:"subject"`
	IsCorrect  bool      `bson:"is_correct" json:"is_correct"`
	AnsweredAt time.Time `bson:"answered_at" json:"answered_at"`
	TimeSpent  int64     `bson:"time_spent" json:"time_spent"` // milliseconds
}

type SubjectProgress struct {
	Subject              string    `bson:"subject" json:"subject"`
	TotalQuestions       int       `bson:"total_questions" json:"total_questions"`
	CorrectAnswers       int       `bson:"correct_answers" json:"correct_answers"`
	CorrectAnswersStreak int       `bson:"correct_answers_streak" json:"correct_answers_streak"`
	AverageAccuracy      float64   `bson:"average_accuracy" json:"average_accuracy"`
	CurrentDifficulty    string    `bson:"current_difficulty" json:"current_difficulty"`
	QuestionsAnswered    []string  `bson:"questions_answered" json:"questions_answered"`
	LastAttempted        time.Time `bson:"last_attempted" json:"last_attempted"`
}

type BestSubject struct {
	Subject  string  `bson:"subject" json:"subject"`
	Accuracy float64 `bson:"accuracy" json:"accuracy"`
}

type Statistics struct {
	TotalQuestions  int          `bson:"total_questions" json:"total_questions"`
	CorrectAnswers  int          `bson:"correct_answers" json:"correct_answers"`
	AverageAccuracy float64      `bson:"average_accuracy" json:"average_accuracy"`
	BestSubject     *BestSubject `bson:"best_subject,omitempty" json:"best_subject,omitempty"`
}

// UserProgress is the system-of-record for adaptive behavior: one document per
// user holding daily streaks, per-subject aggregates and the global answer log.
type UserProgress struct {
	ID                string             `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"user_id" json:"user_id"`
	CurrentStreak     int                `bson:"current_streak" json:"current_streak"`
	LongestStreak     int                `bson:"longest_streak" json:"longest_streak"`
	LastActivity      *time.Time         `bson:"last_activity,omitempty" json:"last_activity,omitempty"`
	SubjectProgress   []SubjectProgress  `bson:"subject_progress" json:"subject_progress"`
	AnsweredQuestions []AnsweredQuestion `bson:"answered_questions" json:"answered_questions"`
	Statistics        Statistics         `bson:"statistics" json:"statistics"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewUserProgress returns a zero-valued ledger document for a user.
func NewUserProgress(userID string) *UserProgress {
	return &UserProgress{
		UserID:            userID,
		SubjectProgress:   []SubjectProgress{},
		AnsweredQuestions: []AnsweredQuestion{},
	}
}

// Subject returns the progress entry for a subject, or nil when untouched.
func (p *UserProgress) Subject(subject string) *SubjectProgress {
	for i := range p.SubjectProgress {
		if p.SubjectProgress[i].Subject == subject {
			return &p.SubjectProgress[i]
		}
	}
	return nil
}

// AnsweredIDs returns all question ids in the global answer log.
func (p *UserProgress) AnsweredIDs() []string {
	ids := make([]string, 0, len(p.AnsweredQuestions))
	for _, aq := range p.AnsweredQuestions {
		ids = append(ids, aq.QuestionID)
	}
	return ids
}
