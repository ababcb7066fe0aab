package handler

import (
	"errors"

	"github.com/nihalsingh571/internrecom/internal/delivery/http/dto"
	"github.com/nihalsingh571/internrecom/internal/delivery/http/middleware"
	"github.com/nihalsingh571/internrecom/internal/pkg/response"
	"github.com/nihalsingh571/internrecom/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/candidates/:candidate_id/recommendations", h.GetRecommendations)
}

func (h *RecommendationHandler) GetRecommendations(c fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	topK := parseQueryInt(c, "top_k", 0)
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)
	if topK < 0 {
		topK = 0
	}

	items, err := h.uc.GetRecommendations(c.Context(), candidateID, usecase.RecommendationParams{
		TopK:   topK,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}

	out := make([]dto.RecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.RecommendationResponse{
			ListingID:        it.ListingID,
			Title:            it.Title,
			Company:          it.Company,
			Location:         it.Location,
			URL:              it.URL,
			RecruiterRating:  it.RecruiterRating,
			CosineSimilarity: it.CosineSimilarity,
			VSPS:             it.VSPS,
			TrustScore:       it.TrustScore,
			FinalScore:       it.FinalScore,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapRecommendationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid input", nil, err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
