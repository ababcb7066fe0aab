package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/nihalsingh571/internrecom/internal/domain/grading"
	"github.com/nihalsingh571/internrecom/internal/repository"
	"github.com/nihalsingh571/internrecom/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrInternal         = errors.New("internal error")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoSkills         = errors.New("no skills on profile")
	ErrNoQuestions      = errors.New("no questions available for skills")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptForbidden = errors.New("attempt not owned by candidate")
	ErrAlreadySubmitted = errors.New("assessment already submitted")
)

const questionsPerAttempt = 5

const submitLockTTL = 30 * time.Second

type StartAssessmentInput struct {
	// Skills overrides the profile skills when non-empty.
	Skills []string
}

type AssessmentQuestion struct {
	ID      uuid.UUID
	SkillID uuid.UUID
	Text    string
	Options []string
}

type StartedAssessment struct {
	AttemptID uuid.UUID
	Questions []AssessmentQuestion
}

type SubmitAssessmentInput struct {
	AttemptID     uuid.UUID
	Answers       map[string]int
	TimeTaken     map[string]float64
	ProctoringLog []grading.ViolationEvent
}

type AssessmentUsecase interface {
	Start(ctx context.Context, candidateID uuid.UUID, in StartAssessmentInput) (StartedAssessment, error)
	Submit(ctx context.Context, candidateID uuid.UUID, in SubmitAssessmentInput) (grading.Result, error)
}

type Assessment struct {
	attempts   repository.AttemptRepository
	questions  repository.QuestionRepository
	candidates repository.CandidateRepository
	skills     repository.SkillRepository
	cache      Cache
}

func NewAssessmentUsecase(
	attempts repository.AttemptRepository,
	questions repository.QuestionRepository,
	candidates repository.CandidateRepository,
	skills repository.SkillRepository,
	cache Cache,
) *Assessment {
	return &Assessment{
		attempts:   attempts,
		questions:  questions,
		candidates: candidates,
		skills:     skills,
		cache:      cache,
	}
}

func (u *Assessment) Start(ctx context.Context, candidateID uuid.UUID, in StartAssessmentInput) (StartedAssessment, error) {
	if candidateID == uuid.Nil {
		return StartedAssessment{}, ErrInvalidInput
	}

	profile, err := u.candidates.GetProfile(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return StartedAssessment{}, ErrCandidateNotFound
		}
		return StartedAssessment{}, ErrInternal
	}

	names := in.Skills
	if len(names) == 0 {
		names = profile.SkillNames()
	}
	if len(names) == 0 {
		return StartedAssessment{}, ErrNoSkills
	}

	matched, err := u.skills.FindByNames(ctx, names)
	if err != nil {
		return StartedAssessment{}, ErrInternal
	}
	if len(matched) == 0 {
		return StartedAssessment{}, ErrNoQuestions
	}

	skillIDs := make([]uuid.UUID, 0, len(matched))
	for _, s := range matched {
		skillIDs = append(skillIDs, s.ID)
	}

	pool, err := u.questions.ListBySkillIDs(ctx, skillIDs)
	if err != nil {
		return StartedAssessment{}, ErrInternal
	}
	if len(pool) == 0 {
		return StartedAssessment{}, ErrNoQuestions
	}

	selected := pickRandomQuestions(pool, questionsPerAttempt)

	attempt, err := u.attempts.Create(ctx, candidateID, skillIDs)
	if err != nil {
		return StartedAssessment{}, ErrInternal
	}

	out := StartedAssessment{AttemptID: attempt.ID}
	for _, q := range selected {
		// The correct option index never leaves the server.
		out.Questions = append(out.Questions, AssessmentQuestion{
			ID:      q.ID,
			SkillID: q.SkillID,
			Text:    q.Text,
			Options: q.Options,
		})
	}
	return out, nil
}

func (u *Assessment) Submit(ctx context.Context, candidateID uuid.UUID, in SubmitAssessmentInput) (grading.Result, error) {
	if candidateID == uuid.Nil || in.AttemptID == uuid.Nil {
		return grading.Result{}, ErrInvalidInput
	}

	attempt, err := u.attempts.FindByID(ctx, in.AttemptID)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return grading.Result{}, ErrAttemptNotFound
		}
		return grading.Result{}, ErrInternal
	}
	if attempt.CandidateID != candidateID {
		return grading.Result{}, ErrAttemptForbidden
	}
	if attempt.Status != grading.StatusPending {
		return grading.Result{}, ErrAlreadySubmitted
	}

	if u.cache != nil {
		ok, err := u.cache.SetIfNotExists(ctx, "assessments:submit:"+in.AttemptID.String(), "1", submitLockTTL)
		if err == nil && !ok {
			return grading.Result{}, ErrAlreadySubmitted
		}
	}

	questions, err := u.resolveAnsweredQuestions(ctx, in.Answers)
	if err != nil {
		return grading.Result{}, ErrInternal
	}

	res := grading.Grade(questions, in.Answers, in.TimeTaken, in.ProctoringLog)

	logRaw, err := json.Marshal(in.ProctoringLog)
	if err != nil {
		return grading.Result{}, ErrInternal
	}

	fin := repository.FinalizeAttempt{
		ID:             in.AttemptID,
		Status:         res.Status,
		Score:          res.Accuracy,
		SpeedScore:     res.SpeedScore,
		ViolationCount: len(in.ProctoringLog),
		ViolationLog:   logRaw,
		EndedAt:        time.Now().UTC(),
	}
	if res.Status == grading.StatusCompleted {
		vsps := res.FinalVSPS
		fin.FinalVSPS = &vsps
	}

	if err := u.attempts.Finalize(ctx, fin); err != nil {
		if errors.Is(err, repository.ErrAttemptAlreadySubmitted) {
			// Lost the race; the recorded result stands untouched.
			return grading.Result{}, ErrAlreadySubmitted
		}
		return grading.Result{}, ErrInternal
	}

	if res.Status == grading.StatusCompleted {
		if err := u.verifyAssessedSkills(ctx, candidateID, in.AttemptID, res); err != nil {
			return grading.Result{}, err
		}
	}

	ws.NotifyAssessmentGraded(candidateID, string(res.Status), res.FinalVSPS)
	return res, nil
}

func (u *Assessment) resolveAnsweredQuestions(ctx context.Context, answers map[string]int) (map[string]grading.Question, error) {
	ids := make([]uuid.UUID, 0, len(answers))
	keyByID := make(map[string]string, len(answers))
	for key := range answers {
		// Keys that do not parse stay unresolved and count against the
		// candidate, same as ids missing from the bank.
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		keyByID[id.String()] = key
	}

	found, err := u.questions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]grading.Question, len(found))
	for canonical, q := range found {
		if key, ok := keyByID[canonical]; ok {
			out[key] = q
		}
	}
	return out, nil
}

func (u *Assessment) verifyAssessedSkills(ctx context.Context, candidateID, attemptID uuid.UUID, res grading.Result) error {
	assessed, err := u.attempts.AssessedSkills(ctx, attemptID)
	if err != nil {
		return ErrInternal
	}
	assessedNames := make(map[string]bool, len(assessed))
	for _, s := range assessed {
		assessedNames[s.Name] = true
	}

	profile, err := u.candidates.GetProfile(ctx, candidateID)
	if err != nil {
		return ErrInternal
	}

	skills := make([]repository.SkillEntry, 0, len(profile.Skills))
	for _, entry := range profile.Skills {
		if assessedNames[entry.Name] {
			entry.Status = repository.SkillVerified
		}
		skills = append(skills, entry)
	}

	err = u.candidates.SaveAssessmentResult(ctx, candidateID, repository.AssessmentResult{
		Accuracy:   res.Accuracy,
		SpeedScore: res.SpeedScore,
		VSPS:       res.FinalVSPS,
		Skills:     skills,
	})
	if err != nil {
		return ErrInternal
	}
	return nil
}

func pickRandomQuestions(pool []repository.QuestionRow, n int) []repository.QuestionRow {
	if len(pool) <= n {
		return pool
	}
	shuffled := make([]repository.QuestionRow, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
