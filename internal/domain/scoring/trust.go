package scoring

// TrustCalculator blends candidate accuracy, optional recruiter rating and
// profile recency into a [0,1] trust score. Immutable after construction and
// safe for concurrent use.
type TrustCalculator struct {
	confidenceFactor float64
}

// NewTrustCalculator builds a calculator with the given recruiter-rating
// confidence factor, clamped to [0,1] at construction.
func NewTrustCalculator(confidenceFactor float64) TrustCalculator {
	return TrustCalculator{confidenceFactor: Clamp(confidenceFactor)}
}

// DefaultTrustCalculator trusts recruiter ratings fully.
func DefaultTrustCalculator() TrustCalculator {
	return NewTrustCalculator(1.0)
}

// ComputeTrust returns the trust score for a candidate/listing pair.
//
// With a recruiter rating:
//
//	trust = 0.4*accuracy + 0.4*clamp(rating*confidence) + 0.2*recency
//
// Without one:
//
//	trust = 0.7*accuracy + 0.3*recency
//
// Inputs are clamped before combining and the result is clamped again.
func (t TrustCalculator) ComputeTrust(accuracy, recency float64, recruiterRating *float64) float64 {
	acc := Clamp(accuracy)
	rec := Clamp(recency)

	var trust float64
	if recruiterRating != nil {
		adjustedRR := Clamp(Clamp(*recruiterRating) * t.confidenceFactor)
		trust = 0.4*acc + 0.4*adjustedRR + 0.2*rec
	} else {
		trust = 0.7*acc + 0.3*rec
	}

	return Clamp(trust)
}
