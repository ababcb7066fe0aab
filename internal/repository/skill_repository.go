package repository

import (
	"context"
	"strings"

	"github.com/nihalsingh571/internrecom/internal/database"

	"github.com/google/uuid"
)

type Skill struct {
	ID   uuid.UUID
	Name string
}

type SkillRepository interface {
	// FindByNames matches case-insensitively; unknown names are simply not
	// in the result.
	FindByNames(ctx context.Context, names []string) ([]Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) FindByNames(ctx context.Context, names []string) ([]Skill, error) {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		lowered = append(lowered, n)
	}
	if len(lowered) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name FROM skills WHERE lower(name) = ANY($1)`,
		lowered,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0, len(lowered))
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
