package handler

import (
	"github.com/nihalsingh571/internrecom/internal/delivery/http/dto"
	"github.com/nihalsingh571/internrecom/internal/delivery/http/middleware"
	"github.com/nihalsingh571/internrecom/internal/pkg/response"
	"github.com/nihalsingh571/internrecom/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ListingHandler struct {
	uc usecase.ListingUsecase
}

func NewListingHandler(uc usecase.ListingUsecase) *ListingHandler {
	return &ListingHandler{uc: uc}
}

func (h *ListingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/listings", h.Browse)
}

func (h *ListingHandler) Browse(c fiber.Ctx) error {
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	items, err := h.uc.BrowseListings(c.Context(), limit, offset)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	out := make([]dto.ListingResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ListingResponse{
			ID:              it.ID,
			Title:           it.Title,
			Company:         it.Company,
			Location:        it.Location,
			Description:     it.Description,
			URL:             it.URL,
			RecruiterRating: it.RecruiterRating,
			RecencyScore:    it.RecencyScore,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
