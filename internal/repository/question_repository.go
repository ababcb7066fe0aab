package repository

import (
	"context"
	"encoding/json"

	"github.com/nihalsingh571/internrecom/internal/database"
	"github.com/nihalsingh571/internrecom/internal/domain/grading"

	"github.com/google/uuid"
)

type QuestionRow struct {
	ID            uuid.UUID
	SkillID       uuid.UUID
	Text          string
	Options       []string
	CorrectOption int
}

type QuestionRepository interface {
	// FindByIDs resolves question ids to grading questions, keyed by the
	// canonical id string. Ids with no row are simply absent from the map.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[string]grading.Question, error)
	ListBySkillIDs(ctx context.Context, skillIDs []uuid.UUID) ([]QuestionRow, error)
}

type PostgresQuestionRepository struct {
	db database.DB
}

func NewPostgresQuestionRepository(db database.DB) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{db: db}
}

func (r *PostgresQuestionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[string]grading.Question, error) {
	out := make(map[string]grading.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, skill_id, options, correct_option FROM questions WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var q grading.Question
		var optionsRaw []byte
		if err := rows.Scan(&q.ID, &q.SkillID, &optionsRaw, &q.CorrectOption); err != nil {
			return nil, err
		}
		if len(optionsRaw) > 0 {
			if err := json.Unmarshal(optionsRaw, &q.Options); err != nil {
				return nil, err
			}
		}
		out[q.ID.String()] = q
	}
	return out, rows.Err()
}

func (r *PostgresQuestionRepository) ListBySkillIDs(ctx context.Context, skillIDs []uuid.UUID) ([]QuestionRow, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, skill_id, text, options, correct_option FROM questions WHERE skill_id = ANY($1)`,
		skillIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]QuestionRow, 0)
	for rows.Next() {
		var q QuestionRow
		var optionsRaw []byte
		if err := rows.Scan(&q.ID, &q.SkillID, &q.Text, &optionsRaw, &q.CorrectOption); err != nil {
			return nil, err
		}
		if len(optionsRaw) > 0 {
			if err := json.Unmarshal(optionsRaw, &q.Options); err != nil {
				return nil, err
			}
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
