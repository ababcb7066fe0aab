package dto

import "github.com/google/uuid"

type ListingResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	RecruiterRating *float64  `json:"recruiter_rating"`
	RecencyScore    float64   `json:"recency_score"`
}
