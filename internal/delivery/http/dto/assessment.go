package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

type StartAssessmentRequest struct {
	Skills []string `json:"skills"`
}

type AssessmentQuestionResponse struct {
	ID      uuid.UUID `json:"id"`
	SkillID uuid.UUID `json:"skill_id"`
	Text    string    `json:"text"`
	Options []string  `json:"options"`
}

type StartAssessmentResponse struct {
	AttemptID uuid.UUID                    `json:"attempt_id"`
	Questions []AssessmentQuestionResponse `json:"questions"`
}

type SubmitAssessmentRequest struct {
	AttemptID     uuid.UUID          `json:"attempt_id"`
	Answers       map[string]int     `json:"answers"`
	TimeTaken     map[string]float64 `json:"time_taken"`
	ProctoringLog []json.RawMessage  `json:"proctoring_log"`
}

type GradeResponse struct {
	Status     string  `json:"status"`
	Accuracy   float64 `json:"accuracy"`
	SpeedScore float64 `json:"speed_score"`
	FinalVSPS  float64 `json:"final_vsps"`
	Message    string  `json:"message"`
}
