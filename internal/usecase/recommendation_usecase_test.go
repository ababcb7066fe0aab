package usecase

import (
	"context"
	"testing"

	"github.com/nihalsingh571/internrecom/internal/domain/scoring"
	"github.com/nihalsingh571/internrecom/internal/repository"

	"github.com/google/uuid"
)

type mockListingRepo struct {
	items []repository.Listing
	err   error
	calls int
}

func (m *mockListingRepo) ListActive(ctx context.Context, limit, offset int) ([]repository.Listing, error) {
	m.calls++
	return m.items, m.err
}

func testEngine() scoring.RecommendationEngine {
	return scoring.NewRecommendationEngine(scoring.DefaultTrustCalculator())
}

func strongProfile(id uuid.UUID) repository.CandidateProfile {
	return repository.CandidateProfile{
		ID: id,
		Skills: []repository.SkillEntry{
			{Name: "python", Status: repository.SkillVerified},
			{Name: "django", Status: repository.SkillVerified},
		},
		Accuracy:     0.9,
		SpeedScore:   0.8,
		RecencyScore: 1.0,
	}
}

func TestGetRecommendationsRanking(t *testing.T) {
	candidateID := uuid.New()
	rating := 1.0

	backend := repository.Listing{
		ID:              uuid.New(),
		Title:           "Backend Intern",
		Company:         "Acme",
		Description:     "python django backend internship",
		RecruiterRating: &rating,
		RecencyScore:    1.0,
	}
	frontend := repository.Listing{
		ID:           uuid.New(),
		Title:        "Frontend Intern",
		Company:      "Pixel",
		Description:  "react javascript frontend internship",
		RecencyScore: 1.0,
	}

	candidates := &mockCandidateRepo{profile: strongProfile(candidateID)}
	listings := &mockListingRepo{items: []repository.Listing{frontend, backend}}

	uc := NewRecommendationUsecase(candidates, listings, testEngine(), nil)

	out, err := uc.GetRecommendations(context.Background(), candidateID, RecommendationParams{})
	if err != nil {
		t.Fatalf("recommendations error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(out))
	}
	if out[0].ListingID != backend.ID {
		t.Fatalf("expected skill-matching listing ranked first, got %s", out[0].Title)
	}
	if out[0].FinalScore <= out[1].FinalScore {
		t.Fatalf("expected strictly better score first: %v vs %v", out[0].FinalScore, out[1].FinalScore)
	}
	for _, item := range out {
		if item.FinalScore < 0 || item.FinalScore > 1 {
			t.Fatalf("final score outside unit interval: %v", item.FinalScore)
		}
	}
}

func TestGetRecommendationsTopK(t *testing.T) {
	candidateID := uuid.New()
	items := make([]repository.Listing, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, repository.Listing{
			ID:           uuid.New(),
			Title:        "Intern",
			Description:  "python internship role",
			RecencyScore: 1.0,
		})
	}

	candidates := &mockCandidateRepo{profile: strongProfile(candidateID)}
	listings := &mockListingRepo{items: items}
	uc := NewRecommendationUsecase(candidates, listings, testEngine(), nil)

	out, err := uc.GetRecommendations(context.Background(), candidateID, RecommendationParams{TopK: 2})
	if err != nil {
		t.Fatalf("recommendations error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected top_k=2 to truncate, got %d", len(out))
	}
}

func TestGetRecommendationsEmptyListings(t *testing.T) {
	candidateID := uuid.New()
	candidates := &mockCandidateRepo{profile: strongProfile(candidateID)}
	uc := NewRecommendationUsecase(candidates, &mockListingRepo{}, testEngine(), nil)

	out, err := uc.GetRecommendations(context.Background(), candidateID, RecommendationParams{})
	if err != nil {
		t.Fatalf("recommendations error: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", out)
	}
}

func TestGetRecommendationsErrors(t *testing.T) {
	t.Run("nil candidate id", func(t *testing.T) {
		uc := NewRecommendationUsecase(&mockCandidateRepo{}, &mockListingRepo{}, testEngine(), nil)
		if _, err := uc.GetRecommendations(context.Background(), uuid.Nil, RecommendationParams{}); err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown candidate", func(t *testing.T) {
		candidates := &mockCandidateRepo{profileErr: repository.ErrCandidateNotFound}
		uc := NewRecommendationUsecase(candidates, &mockListingRepo{}, testEngine(), nil)
		if _, err := uc.GetRecommendations(context.Background(), uuid.New(), RecommendationParams{}); err != ErrCandidateNotFound {
			t.Fatalf("expected ErrCandidateNotFound, got %v", err)
		}
	})
}

func TestGetRecommendationsCaching(t *testing.T) {
	candidateID := uuid.New()
	listing := repository.Listing{
		ID:           uuid.New(),
		Title:        "Backend Intern",
		Description:  "python django internship",
		RecencyScore: 1.0,
	}

	candidates := &mockCandidateRepo{profile: strongProfile(candidateID)}
	listings := &mockListingRepo{items: []repository.Listing{listing}}
	cache := newMockCache()

	uc := NewRecommendationUsecase(candidates, listings, testEngine(), cache)

	first, err := uc.GetRecommendations(context.Background(), candidateID, RecommendationParams{})
	if err != nil {
		t.Fatalf("first call error: %v", err)
	}
	if cache.setJSONCalls != 1 {
		t.Fatalf("expected result cached once, got %d writes", cache.setJSONCalls)
	}

	second, err := uc.GetRecommendations(context.Background(), candidateID, RecommendationParams{})
	if err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if cache.setJSONCalls != 1 {
		t.Fatalf("cache hit must not rewrite the entry")
	}
	if len(second) != len(first) || second[0].ListingID != first[0].ListingID {
		t.Fatalf("cached result mismatch")
	}
}

func TestRecommendationsCacheKeyChangesWithInputs(t *testing.T) {
	profile := strongProfile(uuid.New())
	listing := repository.Listing{ID: uuid.New(), RecencyScore: 1.0}

	base := RecommendationsCacheKey(profile, []repository.Listing{listing}, 0)

	if got := RecommendationsCacheKey(profile, []repository.Listing{listing}, 3); got == base {
		t.Fatalf("top_k must change the key")
	}

	bumped := profile
	bumped.Accuracy = 0.95
	if got := RecommendationsCacheKey(bumped, []repository.Listing{listing}, 0); got == base {
		t.Fatalf("assessment change must change the key")
	}

	other := listing
	other.RecencyScore = 0.5
	if got := RecommendationsCacheKey(profile, []repository.Listing{other}, 0); got == base {
		t.Fatalf("listing change must change the key")
	}
}
