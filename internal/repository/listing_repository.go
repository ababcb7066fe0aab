package repository

import (
	"context"

	"github.com/nihalsingh571/internrecom/internal/database"

	"github.com/google/uuid"
)

type Listing struct {
	ID              uuid.UUID
	Title           string
	Company         string
	Location        string
	Description     string
	URL             string
	RecruiterRating *float64
	RecencyScore    float64
}

type ListingRepository interface {
	ListActive(ctx context.Context, limit, offset int) ([]Listing, error)
}

type PostgresListingRepository struct {
	db database.DB
}

func NewPostgresListingRepository(db database.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

func (r *PostgresListingRepository) ListActive(ctx context.Context, limit, offset int) ([]Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, COALESCE(title, ''), COALESCE(company, ''), COALESCE(location, ''),
		        COALESCE(description, ''), COALESCE(url, ''), recruiter_rating, recency_score
		 FROM listings
		 WHERE is_active = true
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Listing, 0)
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ID, &l.Title, &l.Company, &l.Location, &l.Description, &l.URL, &l.RecruiterRating, &l.RecencyScore); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
