package grading

import (
	"encoding/json"

	"github.com/nihalsingh571/internrecom/internal/domain/scoring"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// PassThreshold is inclusive: accuracy of exactly 0.6 passes.
const PassThreshold = 0.6

// Speed credit window: full credit at <=5s average, none at >=20s, linear in
// between.
const (
	fullCreditSeconds = 5.0
	zeroCreditSeconds = 20.0
)

// ViolationEvent is an opaque proctoring event. Grading only looks at how
// many there are.
type ViolationEvent = json.RawMessage

// Question is the slice of the question bank grading needs; only
// CorrectOption is read.
type Question struct {
	ID            uuid.UUID
	SkillID       uuid.UUID
	Options       []string
	CorrectOption int
}

type Result struct {
	Status     Status
	Accuracy   float64
	SpeedScore float64
	FinalVSPS  float64
	Message    string
}

// Grade scores one submitted attempt. questions maps the answer keys that
// resolved against the question bank; answer keys absent from it stay in the
// answered count but cannot score, and do not fail the request. Any
// violation forces FAILED before any score is computed, no matter how well
// the candidate answered.
func Grade(questions map[string]Question, answers map[string]int, timeTaken map[string]float64, violations []ViolationEvent) Result {
	if len(violations) > 0 {
		return Result{Status: StatusFailed, Message: "Proctoring violation detected."}
	}
	if len(answers) == 0 {
		return Result{Status: StatusFailed, Message: "No answers provided."}
	}

	totalAnswered := len(answers)
	correct := 0
	var totalTime float64
	for key, selected := range answers {
		q, ok := questions[key]
		if !ok {
			continue
		}
		if q.CorrectOption == selected {
			correct++
		}
		totalTime += timeTaken[key]
	}

	accuracy := float64(correct) / float64(totalAnswered)
	avgTime := totalTime / float64(totalAnswered)
	speedScore := scoring.Clamp(1 - (avgTime-fullCreditSeconds)/(zeroCreditSeconds-fullCreditSeconds))

	// skipPenalty stays in the formula at 0 until skip detection lands; the
	// formula must not change when it does.
	const skipPenalty = 0.0

	res := Result{
		Accuracy:   accuracy,
		SpeedScore: speedScore,
		FinalVSPS: scoring.MicroAssessment{
			Accuracy:    accuracy,
			SpeedScore:  speedScore,
			SkipPenalty: skipPenalty,
		}.VSPS(),
	}

	if accuracy >= PassThreshold {
		res.Status = StatusCompleted
		res.Message = "Assessment passed!"
	} else {
		res.Status = StatusFailed
		res.Message = "Assessment failed: low accuracy."
	}
	return res
}
