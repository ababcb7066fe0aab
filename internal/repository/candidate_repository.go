package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/nihalsingh571/internrecom/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type SkillStatus string

const (
	SkillVerified SkillStatus = "verified"
	SkillPending  SkillStatus = "pending"
)

// SkillEntry is the tagged form every skill takes once it crosses the
// storage boundary. Entries persisted as plain name strings are upgraded at
// read time with status pending; only a graded attempt marks them verified.
type SkillEntry struct {
	Name   string      `json:"name"`
	Status SkillStatus `json:"status"`
}

type CandidateProfile struct {
	ID           uuid.UUID
	Skills       []SkillEntry
	Accuracy     float64
	SpeedScore   float64
	VSPS         float64
	RecencyScore float64
}

func (p CandidateProfile) SkillNames() []string {
	out := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		out = append(out, s.Name)
	}
	return out
}

type AssessmentResult struct {
	Accuracy   float64
	SpeedScore float64
	VSPS       float64
	Skills     []SkillEntry
}

type CandidateRepository interface {
	GetProfile(ctx context.Context, id uuid.UUID) (CandidateProfile, error)
	SaveAssessmentResult(ctx context.Context, id uuid.UUID, in AssessmentResult) error
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetProfile(ctx context.Context, id uuid.UUID) (CandidateProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, skills, assessment_accuracy, assessment_speed_score, vsps_score, recency_score
		 FROM candidates WHERE id = $1`,
		id,
	)

	var p CandidateProfile
	var skillsRaw []byte
	err := row.Scan(&p.ID, &skillsRaw, &p.Accuracy, &p.SpeedScore, &p.VSPS, &p.RecencyScore)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return CandidateProfile{}, ErrCandidateNotFound
		}
		return CandidateProfile{}, err
	}

	p.Skills, err = decodeSkillEntries(skillsRaw)
	if err != nil {
		return CandidateProfile{}, err
	}
	return p, nil
}

func (r *PostgresCandidateRepository) SaveAssessmentResult(ctx context.Context, id uuid.UUID, in AssessmentResult) error {
	skills := in.Skills
	if skills == nil {
		skills = []SkillEntry{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE candidates
		 SET assessment_accuracy = $2, assessment_speed_score = $3, vsps_score = $4,
		     skills = $5, updated_at = $6
		 WHERE id = $1`,
		id, in.Accuracy, in.SpeedScore, in.VSPS, b, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

// decodeSkillEntries upgrades the mixed legacy representation (plain strings
// alongside objects) into tagged entries, preserving order. Whether legacy
// plain names should instead arrive verified is an open product question;
// pending is the conservative reading, since nothing attests to them.
func decodeSkillEntries(raw []byte) ([]SkillEntry, error) {
	out := []SkillEntry{}
	if len(raw) == 0 {
		return out, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			out = append(out, SkillEntry{Name: name, Status: SkillPending})
			continue
		}

		var entry SkillEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			return nil, err
		}
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			continue
		}
		if entry.Status != SkillVerified {
			entry.Status = SkillPending
		}
		out = append(out, entry)
	}
	return out, nil
}
