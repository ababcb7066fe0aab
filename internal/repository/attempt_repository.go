package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nihalsingh571/internrecom/internal/database"
	"github.com/nihalsingh571/internrecom/internal/domain/grading"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")
)

type Attempt struct {
	ID             uuid.UUID
	CandidateID    uuid.UUID
	Status         grading.Status
	Score          float64
	SpeedScore     float64
	ViolationCount int
	FinalVSPS      *float64
	StartedAt      time.Time
	EndedAt        *time.Time
}

type AssessedSkill struct {
	SkillID uuid.UUID
	Name    string
}

type FinalizeAttempt struct {
	ID             uuid.UUID
	Status         grading.Status
	Score          float64
	SpeedScore     float64
	ViolationCount int
	ViolationLog   []byte
	FinalVSPS      *float64
	EndedAt        time.Time
}

type AttemptRepository interface {
	Create(ctx context.Context, candidateID uuid.UUID, skillIDs []uuid.UUID) (Attempt, error)
	FindByID(ctx context.Context, id uuid.UUID) (Attempt, error)
	AssessedSkills(ctx context.Context, attemptID uuid.UUID) ([]AssessedSkill, error)
	// Finalize moves a PENDING attempt to its terminal status. The update is
	// conditional on the row still being PENDING; a lost race returns
	// ErrAttemptAlreadySubmitted.
	Finalize(ctx context.Context, in FinalizeAttempt) error
}

type PostgresAttemptRepository struct {
	db database.DB
}

func NewPostgresAttemptRepository(db database.DB) *PostgresAttemptRepository {
	return &PostgresAttemptRepository{db: db}
}

func (r *PostgresAttemptRepository) Create(ctx context.Context, candidateID uuid.UUID, skillIDs []uuid.UUID) (Attempt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Attempt{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	a := Attempt{
		ID:          uuid.New(),
		CandidateID: candidateID,
		Status:      grading.StatusPending,
		StartedAt:   time.Now().UTC(),
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO assessment_attempts (id, candidate_id, status, started_at) VALUES ($1, $2, $3, $4)`,
		a.ID, a.CandidateID, string(a.Status), a.StartedAt,
	)
	if err != nil {
		return Attempt{}, err
	}

	for _, sid := range skillIDs {
		if sid == uuid.Nil {
			continue
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO attempt_skills (attempt_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			a.ID, sid,
		)
		if err != nil {
			return Attempt{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (r *PostgresAttemptRepository) FindByID(ctx context.Context, id uuid.UUID) (Attempt, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, candidate_id, status, score, speed_score, violation_count, final_vsps, started_at, ended_at
		 FROM assessment_attempts WHERE id = $1`,
		id,
	)

	var a Attempt
	var status string
	err := row.Scan(&a.ID, &a.CandidateID, &status, &a.Score, &a.SpeedScore, &a.ViolationCount, &a.FinalVSPS, &a.StartedAt, &a.EndedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	a.Status = grading.Status(status)
	return a, nil
}

func (r *PostgresAttemptRepository) AssessedSkills(ctx context.Context, attemptID uuid.UUID) ([]AssessedSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.name
		 FROM attempt_skills ats
		 JOIN skills s ON s.id = ats.skill_id
		 WHERE ats.attempt_id = $1`,
		attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AssessedSkill, 0)
	for rows.Next() {
		var s AssessedSkill
		if err := rows.Scan(&s.SkillID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresAttemptRepository) Finalize(ctx context.Context, in FinalizeAttempt) error {
	log := in.ViolationLog
	if len(log) == 0 {
		log = []byte(`[]`)
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE assessment_attempts
		 SET status = $2, score = $3, speed_score = $4, violation_count = $5,
		     violation_log = $6, final_vsps = $7, ended_at = $8
		 WHERE id = $1 AND status = 'PENDING'`,
		in.ID, string(in.Status), in.Score, in.SpeedScore, in.ViolationCount,
		log, in.FinalVSPS, in.EndedAt,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAttemptAlreadySubmitted
	}
	return nil
}
