package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nihalsingh571/internrecom/internal/domain/grading"
	"github.com/nihalsingh571/internrecom/internal/repository"

	"github.com/google/uuid"
)

type mockAttemptRepo struct {
	created   *repository.Attempt
	createErr error

	attempt     repository.Attempt
	findErr     error
	assessed    []repository.AssessedSkill
	assessedErr error

	finalized   *repository.FinalizeAttempt
	finalizeErr error
}

func (m *mockAttemptRepo) Create(ctx context.Context, candidateID uuid.UUID, skillIDs []uuid.UUID) (repository.Attempt, error) {
	if m.createErr != nil {
		return repository.Attempt{}, m.createErr
	}
	a := repository.Attempt{ID: uuid.New(), CandidateID: candidateID, Status: grading.StatusPending}
	m.created = &a
	return a, nil
}

func (m *mockAttemptRepo) FindByID(ctx context.Context, id uuid.UUID) (repository.Attempt, error) {
	if m.findErr != nil {
		return repository.Attempt{}, m.findErr
	}
	return m.attempt, nil
}

func (m *mockAttemptRepo) AssessedSkills(ctx context.Context, attemptID uuid.UUID) ([]repository.AssessedSkill, error) {
	return m.assessed, m.assessedErr
}

func (m *mockAttemptRepo) Finalize(ctx context.Context, in repository.FinalizeAttempt) error {
	if m.finalizeErr != nil {
		return m.finalizeErr
	}
	m.finalized = &in
	return nil
}

type mockQuestionRepo struct {
	byID       map[string]grading.Question
	bySkill    []repository.QuestionRow
	findErr    error
	bySkillErr error
}

func (m *mockQuestionRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[string]grading.Question, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := map[string]grading.Question{}
	for _, id := range ids {
		if q, ok := m.byID[id.String()]; ok {
			out[id.String()] = q
		}
	}
	return out, nil
}

func (m *mockQuestionRepo) ListBySkillIDs(ctx context.Context, skillIDs []uuid.UUID) ([]repository.QuestionRow, error) {
	return m.bySkill, m.bySkillErr
}

type mockCandidateRepo struct {
	profile    repository.CandidateProfile
	profileErr error

	saved   *repository.AssessmentResult
	saveErr error
}

func (m *mockCandidateRepo) GetProfile(ctx context.Context, id uuid.UUID) (repository.CandidateProfile, error) {
	if m.profileErr != nil {
		return repository.CandidateProfile{}, m.profileErr
	}
	return m.profile, nil
}

func (m *mockCandidateRepo) SaveAssessmentResult(ctx context.Context, id uuid.UUID, in repository.AssessmentResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &in
	return nil
}

type mockSkillRepo struct {
	skills []repository.Skill
	err    error
}

func (m *mockSkillRepo) FindByNames(ctx context.Context, names []string) ([]repository.Skill, error) {
	return m.skills, m.err
}

type mockCache struct {
	store map[string][]byte

	setNXOK  bool
	setNXErr error

	setJSONCalls int
}

func newMockCache() *mockCache {
	return &mockCache{store: map[string][]byte{}, setNXOK: true}
}

func (m *mockCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, ok := m.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.setJSONCalls++
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = b
	return nil
}

func (m *mockCache) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return m.setNXOK, m.setNXErr
}

func pendingQuestions(skillID uuid.UUID, n int) []repository.QuestionRow {
	out := make([]repository.QuestionRow, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, repository.QuestionRow{
			ID:            uuid.New(),
			SkillID:       skillID,
			Text:          "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: 1,
		})
	}
	return out
}

func TestAssessmentStart(t *testing.T) {
	candidateID := uuid.New()
	skillID := uuid.New()

	attempts := &mockAttemptRepo{}
	questions := &mockQuestionRepo{bySkill: pendingQuestions(skillID, 12)}
	candidates := &mockCandidateRepo{profile: repository.CandidateProfile{
		ID:     candidateID,
		Skills: []repository.SkillEntry{{Name: "Python", Status: repository.SkillPending}},
	}}
	skills := &mockSkillRepo{skills: []repository.Skill{{ID: skillID, Name: "Python"}}}

	uc := NewAssessmentUsecase(attempts, questions, candidates, skills, newMockCache())

	started, err := uc.Start(context.Background(), candidateID, StartAssessmentInput{})
	if err != nil {
		t.Fatalf("start error: %v", err)
	}
	if started.AttemptID == uuid.Nil {
		t.Fatalf("expected attempt id")
	}
	if len(started.Questions) != questionsPerAttempt {
		t.Fatalf("expected %d questions, got %d", questionsPerAttempt, len(started.Questions))
	}
	if attempts.created == nil {
		t.Fatalf("expected attempt persisted")
	}
}

func TestAssessmentStartErrors(t *testing.T) {
	candidateID := uuid.New()

	t.Run("nil candidate", func(t *testing.T) {
		uc := NewAssessmentUsecase(&mockAttemptRepo{}, &mockQuestionRepo{}, &mockCandidateRepo{}, &mockSkillRepo{}, nil)
		if _, err := uc.Start(context.Background(), uuid.Nil, StartAssessmentInput{}); err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown candidate", func(t *testing.T) {
		candidates := &mockCandidateRepo{profileErr: repository.ErrCandidateNotFound}
		uc := NewAssessmentUsecase(&mockAttemptRepo{}, &mockQuestionRepo{}, candidates, &mockSkillRepo{}, nil)
		if _, err := uc.Start(context.Background(), candidateID, StartAssessmentInput{}); err != ErrCandidateNotFound {
			t.Fatalf("expected ErrCandidateNotFound, got %v", err)
		}
	})

	t.Run("no skills", func(t *testing.T) {
		candidates := &mockCandidateRepo{profile: repository.CandidateProfile{ID: candidateID}}
		uc := NewAssessmentUsecase(&mockAttemptRepo{}, &mockQuestionRepo{}, candidates, &mockSkillRepo{}, nil)
		if _, err := uc.Start(context.Background(), candidateID, StartAssessmentInput{}); err != ErrNoSkills {
			t.Fatalf("expected ErrNoSkills, got %v", err)
		}
	})

	t.Run("no matching skills", func(t *testing.T) {
		candidates := &mockCandidateRepo{profile: repository.CandidateProfile{
			ID:     candidateID,
			Skills: []repository.SkillEntry{{Name: "COBOL", Status: repository.SkillPending}},
		}}
		uc := NewAssessmentUsecase(&mockAttemptRepo{}, &mockQuestionRepo{}, candidates, &mockSkillRepo{}, nil)
		if _, err := uc.Start(context.Background(), candidateID, StartAssessmentInput{}); err != ErrNoQuestions {
			t.Fatalf("expected ErrNoQuestions, got %v", err)
		}
	})

	t.Run("no questions for skills", func(t *testing.T) {
		skillID := uuid.New()
		candidates := &mockCandidateRepo{profile: repository.CandidateProfile{
			ID:     candidateID,
			Skills: []repository.SkillEntry{{Name: "Python", Status: repository.SkillPending}},
		}}
		skills := &mockSkillRepo{skills: []repository.Skill{{ID: skillID, Name: "Python"}}}
		uc := NewAssessmentUsecase(&mockAttemptRepo{}, &mockQuestionRepo{}, candidates, skills, nil)
		if _, err := uc.Start(context.Background(), candidateID, StartAssessmentInput{}); err != ErrNoQuestions {
			t.Fatalf("expected ErrNoQuestions, got %v", err)
		}
	})
}

func TestAssessmentSubmitCompleted(t *testing.T) {
	candidateID := uuid.New()
	attemptID := uuid.New()
	skillID := uuid.New()

	q1 := uuid.New()
	q2 := uuid.New()

	attempts := &mockAttemptRepo{
		attempt:  repository.Attempt{ID: attemptID, CandidateID: candidateID, Status: grading.StatusPending},
		assessed: []repository.AssessedSkill{{SkillID: skillID, Name: "Python"}},
	}
	questions := &mockQuestionRepo{byID: map[string]grading.Question{
		q1.String(): {ID: q1, SkillID: skillID, CorrectOption: 0},
		q2.String(): {ID: q2, SkillID: skillID, CorrectOption: 2},
	}}
	candidates := &mockCandidateRepo{profile: repository.CandidateProfile{
		ID: candidateID,
		Skills: []repository.SkillEntry{
			{Name: "Python", Status: repository.SkillPending},
			{Name: "React", Status: repository.SkillPending},
		},
	}}

	uc := NewAssessmentUsecase(attempts, questions, candidates, &mockSkillRepo{}, newMockCache())

	res, err := uc.Submit(context.Background(), candidateID, SubmitAssessmentInput{
		AttemptID: attemptID,
		Answers:   map[string]int{q1.String(): 0, q2.String(): 2},
		TimeTaken: map[string]float64{q1.String(): 4, q2.String(): 6},
	})
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if res.Status != grading.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", res.Status)
	}
	if res.Accuracy != 1.0 {
		t.Fatalf("expected accuracy 1.0, got %v", res.Accuracy)
	}

	if attempts.finalized == nil {
		t.Fatalf("expected attempt finalized")
	}
	if attempts.finalized.FinalVSPS == nil {
		t.Fatalf("expected final vsps recorded on completed attempt")
	}

	if candidates.saved == nil {
		t.Fatalf("expected assessment result saved")
	}
	var python, react repository.SkillEntry
	for _, s := range candidates.saved.Skills {
		switch s.Name {
		case "Python":
			python = s
		case "React":
			react = s
		}
	}
	if python.Status != repository.SkillVerified {
		t.Fatalf("expected assessed skill verified, got %s", python.Status)
	}
	if react.Status != repository.SkillPending {
		t.Fatalf("expected unassessed skill untouched, got %s", react.Status)
	}
}

func TestAssessmentSubmitViolation(t *testing.T) {
	candidateID := uuid.New()
	attemptID := uuid.New()

	attempts := &mockAttemptRepo{
		attempt: repository.Attempt{ID: attemptID, CandidateID: candidateID, Status: grading.StatusPending},
	}
	candidates := &mockCandidateRepo{}

	uc := NewAssessmentUsecase(attempts, &mockQuestionRepo{}, candidates, &mockSkillRepo{}, newMockCache())

	res, err := uc.Submit(context.Background(), candidateID, SubmitAssessmentInput{
		AttemptID:     attemptID,
		Answers:       map[string]int{uuid.NewString(): 0},
		ProctoringLog: []grading.ViolationEvent{grading.ViolationEvent(`{"type":"tab_switch"}`)},
	})
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if res.Status != grading.StatusFailed {
		t.Fatalf("expected FAILED, got %s", res.Status)
	}
	if attempts.finalized == nil {
		t.Fatalf("expected attempt finalized")
	}
	if attempts.finalized.FinalVSPS != nil {
		t.Fatalf("expected no final vsps on failed attempt")
	}
	if attempts.finalized.ViolationCount != 1 {
		t.Fatalf("expected violation count 1, got %d", attempts.finalized.ViolationCount)
	}
	if candidates.saved != nil {
		t.Fatalf("failed attempt must not touch the profile")
	}
}

func TestAssessmentSubmitGuards(t *testing.T) {
	candidateID := uuid.New()
	attemptID := uuid.New()

	t.Run("attempt not found", func(t *testing.T) {
		attempts := &mockAttemptRepo{findErr: repository.ErrAttemptNotFound}
		uc := NewAssessmentUsecase(attempts, &mockQuestionRepo{}, &mockCandidateRepo{}, &mockSkillRepo{}, nil)
		_, err := uc.Submit(context.Background(), candidateID, SubmitAssessmentInput{AttemptID: attemptID})
		if err != ErrAttemptNotFound {
			t.Fatalf("expected ErrAttemptNotFound, got %v", err)
		}
	})

	t.Run("attempt owned by someone else", func(t *testing.T) {
		attempts := &mockAttemptRepo{
			attempt: repository.Attempt{ID: attemptID, CandidateID: uuid.New(), Status: grading.StatusPending},
		}
		uc := NewAssessmentUsecase(attempts, &mockQuestionRepo{}, &mockCandidateRepo{}, &mockSkillRepo{}, nil)
		_, err := uc.Submit(context.Background(), candidateID, SubmitAssessmentInput{AttemptID: attemptID})
		if err != ErrAttemptForbidden {
			t.Fatalf("expected ErrAttemptForbidden, got %v", err)
		}
	})

	t.Run("already graded", func(t *testing.T) {
		attempts := &mockAttemptRepo{
			attempt: repository.Attempt{ID: attemptID, CandidateID: candidateID, Status: grading.StatusCompleted},
		}
		uc := NewAssessmentUsecase(attempts, &mockQuestionRepo{}, &mockCandidateRepo{}, &mockSkillRepo{}, nil)
		_, err := uc.Submit(context.Background(), candidateID, SubmitAssessmentInput{AttemptID: attemptID})
		if err != ErrAlreadySubmitted {
			t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
		}
	})

	t.Run("submit lock held", func(t *testing.T) {
		attempts := &mockAttemptRepo{
			attempt: repository.Attempt{ID: attemptID, CandidateID: candidateID, Status: grading.StatusPending},
		}
		cache := newMockCache()
		cache.setNXOK = false
		uc := NewAssessmentUsecase(attempts, &mockQuestionRepo{}, &mockCandidateRepo{}, &mockSkillRepo{}, cache)
		_, err := uc.Submit(context.Background(), candidateID, SubmitAssessmentInput{AttemptID: attemptID})
		if err != ErrAlreadySubmitted {
			t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
		}
	})

	t.Run("lost finalize race", func(t *testing.T) {
		attempts := &mockAttemptRepo{
			attempt:     repository.Attempt{ID: attemptID, CandidateID: candidateID, Status: grading.StatusPending},
			finalizeErr: repository.ErrAttemptAlreadySubmitted,
		}
		uc := NewAssessmentUsecase(attempts, &mockQuestionRepo{}, &mockCandidateRepo{}, &mockSkillRepo{}, newMockCache())
		_, err := uc.Submit(context.Background(), candidateID, SubmitAssessmentInput{
			AttemptID: attemptID,
			Answers:   map[string]int{uuid.NewString(): 0},
		})
		if err != ErrAlreadySubmitted {
			t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
		}
	})
}

func TestAssessmentSubmitUnknownAnswerKeys(t *testing.T) {
	candidateID := uuid.New()
	attemptID := uuid.New()
	skillID := uuid.New()
	q1 := uuid.New()

	attempts := &mockAttemptRepo{
		attempt:  repository.Attempt{ID: attemptID, CandidateID: candidateID, Status: grading.StatusPending},
		assessed: []repository.AssessedSkill{{SkillID: skillID, Name: "Python"}},
	}
	questions := &mockQuestionRepo{byID: map[string]grading.Question{
		q1.String(): {ID: q1, SkillID: skillID, CorrectOption: 0},
	}}
	candidates := &mockCandidateRepo{profile: repository.CandidateProfile{
		ID:     candidateID,
		Skills: []repository.SkillEntry{{Name: "Python", Status: repository.SkillPending}},
	}}

	uc := NewAssessmentUsecase(attempts, questions, candidates, &mockSkillRepo{}, newMockCache())

	// One resolvable answer, one unparseable key. The stray key dilutes
	// accuracy to 0.5; 0.5 < 0.6 fails.
	res, err := uc.Submit(context.Background(), candidateID, SubmitAssessmentInput{
		AttemptID: attemptID,
		Answers:   map[string]int{q1.String(): 0, "not-a-uuid": 3},
		TimeTaken: map[string]float64{q1.String(): 4},
	})
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if res.Status != grading.StatusFailed {
		t.Fatalf("expected FAILED, got %s", res.Status)
	}
	if res.Accuracy != 0.5 {
		t.Fatalf("expected accuracy 0.5, got %v", res.Accuracy)
	}
}
