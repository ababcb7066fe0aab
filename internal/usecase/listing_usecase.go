package usecase

import (
	"context"

	"github.com/nihalsingh571/internrecom/internal/repository"

	"github.com/google/uuid"
)

type ListingItem struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	RecruiterRating *float64  `json:"recruiter_rating"`
	RecencyScore    float64   `json:"recency_score"`
}

type ListingUsecase interface {
	BrowseListings(ctx context.Context, limit, offset int) ([]ListingItem, error)
}

type Listings struct {
	listings repository.ListingRepository
}

func NewListingUsecase(listings repository.ListingRepository) *Listings {
	return &Listings{listings: listings}
}

func (u *Listings) BrowseListings(ctx context.Context, limit, offset int) ([]ListingItem, error) {
	rows, err := u.listings.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ListingItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, ListingItem{
			ID:              row.ID,
			Title:           row.Title,
			Company:         row.Company,
			Location:        row.Location,
			Description:     row.Description,
			URL:             row.URL,
			RecruiterRating: row.RecruiterRating,
			RecencyScore:    row.RecencyScore,
		})
	}
	return out, nil
}
