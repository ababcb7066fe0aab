package scoring

// MicroAssessment holds a candidate's timed micro-assessment sub-scores.
// All fields are nominally in [0,1] but are never trusted as pre-clamped;
// every derived value clamps its inputs first.
type MicroAssessment struct {
	Accuracy    float64
	SpeedScore  float64
	SkipPenalty float64
}

// Normalized returns a copy with every field clamped to [0,1]. The receiver
// is never mutated.
func (m MicroAssessment) Normalized() MicroAssessment {
	return MicroAssessment{
		Accuracy:    Clamp(m.Accuracy),
		SpeedScore:  Clamp(m.SpeedScore),
		SkipPenalty: Clamp(m.SkipPenalty),
	}
}

// VSPS computes the Verified Skill Performance Score:
//
//	VSPS = 0.6*accuracy + 0.3*speed_score - 0.1*skip_penalty
//
// computed over the normalized copy and clamped to [0,1]. This is the single
// VSPS implementation; grading and recommendation both go through it.
func (m MicroAssessment) VSPS() float64 {
	n := m.Normalized()
	return Clamp(0.6*n.Accuracy + 0.3*n.SpeedScore - 0.1*n.SkipPenalty)
}

// Clamp bounds v into [0,1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
