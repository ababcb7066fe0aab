package grading

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func questionBank(correct map[string]int) map[string]Question {
	out := make(map[string]Question, len(correct))
	for key, idx := range correct {
		out[key] = Question{
			ID:            uuid.New(),
			SkillID:       uuid.New(),
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: idx,
		}
	}
	return out
}

func TestGrade_ViolationShortCircuits(t *testing.T) {
	questions := questionBank(map[string]int{"q1": 0})
	res := Grade(questions,
		map[string]int{"q1": 0}, // perfect accuracy
		map[string]float64{"q1": 1},
		[]ViolationEvent{[]byte(`{"type":"tab_switch"}`)},
	)

	if res.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %s", res.Status)
	}
	if res.Accuracy != 0 || res.SpeedScore != 0 || res.FinalVSPS != 0 {
		t.Fatalf("violation must skip score computation: %+v", res)
	}
}

func TestGrade_NoAnswers(t *testing.T) {
	res := Grade(questionBank(map[string]int{"q1": 0}), nil, nil, nil)
	if res.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %s", res.Status)
	}
	if res.Message != "No answers provided." {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestGrade_SpeedScoreWindow(t *testing.T) {
	questions := questionBank(map[string]int{"q1": 0})
	cases := []struct {
		seconds float64
		want    float64
	}{
		{5, 1.0},
		{12.5, 0.5},
		{20, 0.0},
		{2, 1.0},  // faster than full-credit floor still caps at 1
		{60, 0.0}, // slower than the window floors at 0
	}
	for _, c := range cases {
		res := Grade(questions, map[string]int{"q1": 0}, map[string]float64{"q1": c.seconds}, nil)
		if !almostEqual(res.SpeedScore, c.want) {
			t.Fatalf("avg %vs: expected speed %v, got %v", c.seconds, c.want, res.SpeedScore)
		}
	}
}

func TestGrade_PassThresholdInclusive(t *testing.T) {
	questions := questionBank(map[string]int{
		"q1": 0, "q2": 0, "q3": 0, "q4": 0, "q5": 0,
	})
	timeTaken := map[string]float64{"q1": 5, "q2": 5, "q3": 5, "q4": 5, "q5": 5}

	// 3/5 = 0.6 exactly.
	res := Grade(questions, map[string]int{"q1": 0, "q2": 0, "q3": 0, "q4": 1, "q5": 1}, timeTaken, nil)
	if res.Status != StatusCompleted {
		t.Fatalf("accuracy 0.6 must pass, got %s", res.Status)
	}
	if !almostEqual(res.Accuracy, 0.6) {
		t.Fatalf("expected accuracy 0.6, got %v", res.Accuracy)
	}

	// 2/5 = 0.4 fails.
	res = Grade(questions, map[string]int{"q1": 0, "q2": 0, "q3": 1, "q4": 1, "q5": 1}, timeTaken, nil)
	if res.Status != StatusFailed {
		t.Fatalf("accuracy 0.4 must fail, got %s", res.Status)
	}
}

func TestGrade_JustBelowThresholdFails(t *testing.T) {
	// 59/100 correct.
	questions := make(map[string]Question)
	answers := make(map[string]int)
	timeTaken := make(map[string]float64)
	for i := 0; i < 100; i++ {
		key := uuid.NewString()
		questions[key] = Question{ID: uuid.New(), CorrectOption: 0}
		if i < 59 {
			answers[key] = 0
		} else {
			answers[key] = 1
		}
		timeTaken[key] = 4
	}

	res := Grade(questions, answers, timeTaken, nil)
	if !almostEqual(res.Accuracy, 0.59) {
		t.Fatalf("expected accuracy 0.59, got %v", res.Accuracy)
	}
	if res.Status != StatusFailed {
		t.Fatalf("accuracy 0.59 must fail, got %s", res.Status)
	}
}

func TestGrade_UnknownQuestionIDsStayInDenominator(t *testing.T) {
	questions := questionBank(map[string]int{"q1": 0})
	// q2 never resolves: it cannot score but still counts as answered.
	res := Grade(questions,
		map[string]int{"q1": 0, "q2": 0},
		map[string]float64{"q1": 5, "q2": 300},
		nil,
	)

	if !almostEqual(res.Accuracy, 0.5) {
		t.Fatalf("expected accuracy 0.5, got %v", res.Accuracy)
	}
	// Time for the unknown question is not summed: 5s over 2 answers.
	if !almostEqual(res.SpeedScore, 1.0) {
		t.Fatalf("expected speed 1.0, got %v", res.SpeedScore)
	}
	if res.Status != StatusFailed {
		t.Fatalf("0.5 accuracy must fail, got %s", res.Status)
	}
}

func TestGrade_VSPSMatchesSharedFormula(t *testing.T) {
	questions := questionBank(map[string]int{"q1": 0, "q2": 0})
	res := Grade(questions,
		map[string]int{"q1": 0, "q2": 1},
		map[string]float64{"q1": 12.5, "q2": 12.5},
		nil,
	)

	// accuracy 0.5, speed 0.5, skip 0 -> 0.3 + 0.15
	if !almostEqual(res.FinalVSPS, 0.45) {
		t.Fatalf("expected vsps 0.45, got %v", res.FinalVSPS)
	}
}
