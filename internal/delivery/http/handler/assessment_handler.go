package handler

import (
	"errors"
	"strconv"

	"github.com/nihalsingh571/internrecom/internal/delivery/http/dto"
	"github.com/nihalsingh571/internrecom/internal/delivery/http/middleware"
	"github.com/nihalsingh571/internrecom/internal/domain/grading"
	"github.com/nihalsingh571/internrecom/internal/pkg/response"
	"github.com/nihalsingh571/internrecom/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AssessmentHandler struct {
	uc usecase.AssessmentUsecase
}

func NewAssessmentHandler(uc usecase.AssessmentUsecase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/candidates/:candidate_id/assessments")
	grp.Post("/", h.Start)
	grp.Post("/submit", h.Submit)
}

func (h *AssessmentHandler) Start(c fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	var req dto.StartAssessmentRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
		}
	}

	started, err := h.uc.Start(c.Context(), candidateID, usecase.StartAssessmentInput{Skills: req.Skills})
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}

	questions := make([]dto.AssessmentQuestionResponse, 0, len(started.Questions))
	for _, q := range started.Questions {
		questions = append(questions, dto.AssessmentQuestionResponse{
			ID:      q.ID,
			SkillID: q.SkillID,
			Text:    q.Text,
			Options: q.Options,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.StartAssessmentResponse{
		AttemptID: started.AttemptID,
		Questions: questions,
	})
}

func (h *AssessmentHandler) Submit(c fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	var req dto.SubmitAssessmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	violations := make([]grading.ViolationEvent, 0, len(req.ProctoringLog))
	for _, v := range req.ProctoringLog {
		violations = append(violations, grading.ViolationEvent(v))
	}

	res, err := h.uc.Submit(c.Context(), candidateID, usecase.SubmitAssessmentInput{
		AttemptID:     req.AttemptID,
		Answers:       req.Answers,
		TimeTaken:     req.TimeTaken,
		ProctoringLog: violations,
	})
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.GradeResponse{
		Status:     string(res.Status),
		Accuracy:   res.Accuracy,
		SpeedScore: res.SpeedScore,
		FinalVSPS:  res.FinalVSPS,
		Message:    res.Message,
	})
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func mapAssessmentUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid input", nil, err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrNoSkills):
		return middleware.NewAppError(fiber.StatusBadRequest, "Candidate has no skills to assess", nil, err)
	case errors.Is(err, usecase.ErrNoQuestions):
		return middleware.NewAppError(fiber.StatusNotFound, "No questions available for skills", nil, err)
	case errors.Is(err, usecase.ErrAttemptNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Attempt not found", nil, err)
	case errors.Is(err, usecase.ErrAttemptForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Attempt belongs to another candidate", nil, err)
	case errors.Is(err, usecase.ErrAlreadySubmitted):
		return middleware.NewAppError(fiber.StatusConflict, "Assessment already submitted", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
