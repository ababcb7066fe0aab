package dto

import "github.com/google/uuid"

type RecommendationResponse struct {
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
