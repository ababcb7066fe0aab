package scoring

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

type Candidate struct {
	ID           uuid.UUID
	Skills       []string
	Assessment   MicroAssessment
	RecencyScore float64
}

// SkillsAsText joins the skill names into the query document for the text
// index. Order does not affect scoring.
func (c Candidate) SkillsAsText() string {
	return strings.Join(c.Skills, " ")
}

type Listing struct {
	ID              uuid.UUID
	Title           string
	Description     string
	RecruiterRating *float64
	RecencyScore    float64
}

// VectorText is the listing's document for the text index.
func (l Listing) VectorText() string {
	return l.Title + " " + l.Description
}

type Recommendation struct {
	Listing          Listing
	CosineSimilarity float64
	VSPS             float64
	TrustScore       float64
	FinalScore       float64
}

// RecommendationEngine combines text similarity, VSPS and trust into a
// ranked list. Immutable after construction and safe for concurrent use; all
// per-call state lives in Recommend.
type RecommendationEngine struct {
	trust TrustCalculator
}

func NewRecommendationEngine(trust TrustCalculator) RecommendationEngine {
	return RecommendationEngine{trust: trust}
}

// Recommend scores every listing for the candidate and returns them sorted
// by final score descending; ties keep their input order. topK <= 0 returns
// all listings. The inputs are not mutated.
func (e RecommendationEngine) Recommend(candidate Candidate, listings []Listing, topK int) []Recommendation {
	if len(listings) == 0 {
		return []Recommendation{}
	}

	vsps := candidate.Assessment.VSPS()
	recency := Clamp(candidate.RecencyScore)

	docs := make([]string, 0, len(listings))
	for _, l := range listings {
		docs = append(docs, l.VectorText())
	}
	similarities := BuildTextSimilarityIndex(candidate.SkillsAsText(), docs).Similarities()

	out := make([]Recommendation, 0, len(listings))
	for i, l := range listings {
		cos := similarities[i]
		// The raw accuracy field feeds trust, not the normalized copy.
		trust := e.trust.ComputeTrust(candidate.Assessment.Accuracy, recency, l.RecruiterRating)
		out = append(out, Recommendation{
			Listing:          l,
			CosineSimilarity: cos,
			VSPS:             vsps,
			TrustScore:       trust,
			FinalScore:       Clamp(cos * vsps * trust),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
