package usecase

import (
	"context"
	"errors"

	"github.com/nihalsingh571/internrecom/internal/domain/scoring"
	"github.com/nihalsingh571/internrecom/internal/repository"

	"github.com/google/uuid"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type RecommendationParams struct {
	TopK   int
	Limit  int
	Offset int
}

type RecommendationItem struct {
	ListingID        uuid.UUID `json:"listing_id"`
	Title            string    `json:"title"`
	Company          string    `json:"company"`
	Location         string    `json:"location"`
	URL              string    `json:"url"`
	RecruiterRating  *float64  `json:"recruiter_rating"`
	CosineSimilarity float64   `json:"cosine_similarity"`
	VSPS             float64   `json:"vsps"`
	TrustScore       float64   `json:"trust_score"`
	FinalScore       float64   `json:"final_score"`
}

type RecommendationUsecase interface {
	GetRecommendations(ctx context.Context, candidateID uuid.UUID, params RecommendationParams) ([]RecommendationItem, error)
}

type Recommendation struct {
	candidates repository.CandidateRepository
	listings   repository.ListingRepository
	engine     scoring.RecommendationEngine
	cache      Cache
}

func NewRecommendationUsecase(
	candidates repository.CandidateRepository,
	listings repository.ListingRepository,
	engine scoring.RecommendationEngine,
	cache Cache,
) *Recommendation {
	return &Recommendation{candidates: candidates, listings: listings, engine: engine, cache: cache}
}

func (u *Recommendation) GetRecommendations(ctx context.Context, candidateID uuid.UUID, params RecommendationParams) ([]RecommendationItem, error) {
	if candidateID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	profile, err := u.candidates.GetProfile(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, ErrInternal
	}

	rows, err := u.listings.ListActive(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, ErrInternal
	}
	// An empty listing set is an empty recommendation list, not an error.
	if len(rows) == 0 {
		return []RecommendationItem{}, nil
	}

	key := RecommendationsCacheKey(profile, rows, params.TopK)
	if u.cache != nil {
		var cached []RecommendationItem
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	candidate := scoring.Candidate{
		ID:     profile.ID,
		Skills: profile.SkillNames(),
		Assessment: scoring.MicroAssessment{
			Accuracy:   profile.Accuracy,
			SpeedScore: profile.SpeedScore,
		},
		RecencyScore: profile.RecencyScore,
	}

	listings := make([]scoring.Listing, 0, len(rows))
	byID := make(map[uuid.UUID]repository.Listing, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
		listings = append(listings, scoring.Listing{
			ID:              row.ID,
			Title:           row.Title,
			Description:     row.Description,
			RecruiterRating: row.RecruiterRating,
			RecencyScore:    row.RecencyScore,
		})
	}

	recs := u.engine.Recommend(candidate, listings, params.TopK)

	out := make([]RecommendationItem, 0, len(recs))
	for _, rec := range recs {
		row := byID[rec.Listing.ID]
		out = append(out, RecommendationItem{
			ListingID:        rec.Listing.ID,
			Title:            row.Title,
			Company:          row.Company,
			Location:         row.Location,
			URL:              row.URL,
			RecruiterRating:  rec.Listing.RecruiterRating,
			CosineSimilarity: rec.CosineSimilarity,
			VSPS:             rec.VSPS,
			TrustScore:       rec.TrustScore,
			FinalScore:       rec.FinalScore,
		})
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, out, 0)
	}
	return out, nil
}
