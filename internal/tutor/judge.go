package tutor

import (
	"context"

	"tutor-service/internal/llm"
	"tutor-service/internal/models"
)

// AnswerJudge decides whether a student's free-text answer matches the
// question's correct option.
type AnswerJudge interface {
	Judge(ctx context.Context, question *models.Question, answer string) (bool, error)
}

// ExactOrSubstringMatch is the deterministic judge used by explicit answer
// checks: case-insensitive equality or containment of the correct option.
type ExactOrSubstringMatch struct{}

func (ExactOrSubstringMatch) Judge(_ context.Context, question *models.Question, answer string) (bool, error) {
	return question.ValidateAnswer(answer), nil
}

// OracleJudgedMatch asks the model whether the answer is equivalent to the
// correct option, using a separate low-temperature analysis prompt. This is
// an approximate check for conversational answers that paraphrase the option.
type OracleJudgedMatch struct {
	Oracle llm.Oracle
}

func (j OracleJudgedMatch) Judge(ctx context.Context, question *models.Question, answer string) (bool, error) {
	correct := question.CorrectOption()
	if correct == nil {
		return false, nil
	}

	verdict, err := j.Oracle.Complete(ctx, []models.ChatMessage{
		{Role: models.RoleSystem, Content: buildAnalysisPrompt(correct.Text)},
		{Role: models.RoleUser, Content: answer},
	}, analysisTemperature, analysisMaxTokens)
	if err != nil {
		return false, err
	}
	return parseAnalysisVerdict(verdict), nil
}
