package tutor

import (
	"context"
	"errors"
	"testing"
)

func TestExactOrSubstringMatch(t *testing.T) {
	judge := ExactOrSubstringMatch{}
	question := sampleQuestion("q1")

	cases := []struct {
		answer string
		want   bool
	}{
		{"4", true},
		{"I believe the answer is 4", true},
		{"3", false},
		{"four", false},
	}
	for _, tc := range cases {
		got, err := judge.Judge(context.Background(), question, tc.answer)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != tc.want {
			t.Errorf("Judge(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestOracleJudgedMatch(t *testing.T) {
	question := sampleQuestion("q1")

	oracle := &fakeOracle{replies: []string{"true"}}
	judge := OracleJudgedMatch{Oracle: oracle}

	got, err := judge.Judge(context.Background(), question, "it has to be four")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !got {
		t.Error("Expected correct verdict")
	}

	call := oracle.calls[0]
	if call.temperature != 0.1 || call.maxTokens != 50 {
		t.Errorf("Unexpected analysis parameters: %+v", call)
	}
	if len(call.messages) != 2 || call.messages[1].Content != "it has to be four" {
		t.Errorf("Expected system prompt plus the student's answer, got %+v", call.messages)
	}
}

func TestOracleJudgedMatchError(t *testing.T) {
	judge := OracleJudgedMatch{Oracle: &fakeOracle{err: errors.New("upstream down")}}

	got, err := judge.Judge(context.Background(), sampleQuestion("q1"), "4")
	if err == nil {
		t.Fatal("Expected error to surface")
	}
	if got {
		t.Error("Expected false verdict on error")
	}
}

func TestOracleJudgedMatchNoCorrectOption(t *testing.T) {
	question := sampleQuestion("q1")
	question.Options[1].IsCorrect = false
	oracle := &fakeOracle{}

	got, err := OracleJudgedMatch{Oracle: oracle}.Judge(context.Background(), question, "4")
	if err != nil || got {
		t.Errorf("Expected (false, nil) without a correct option, got (%v, %v)", got, err)
	}
	if len(oracle.calls) != 0 {
		t.Error("Expected no oracle call without a correct option")
	}
}
