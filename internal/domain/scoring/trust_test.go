package scoring

import "testing"

func ratingPtr(v float64) *float64 { return &v }

func TestComputeTrust_WithoutRecruiterRating(t *testing.T) {
	calc := DefaultTrustCalculator()
	if got := calc.ComputeTrust(1, 1, nil); !almostEqual(got, 1.0) {
		t.Fatalf("expected 1.0, got %v", got)
	}
	if got := calc.ComputeTrust(0.5, 1, nil); !almostEqual(got, 0.7*0.5+0.3) {
		t.Fatalf("unexpected trust: %v", got)
	}
}

func TestComputeTrust_WithRecruiterRating(t *testing.T) {
	calc := NewTrustCalculator(1.0)
	// 0.4*1 + 0.4*0.5 + 0.2*1
	if got := calc.ComputeTrust(1, 1, ratingPtr(0.5)); !almostEqual(got, 0.8) {
		t.Fatalf("expected 0.8, got %v", got)
	}
}

func TestComputeTrust_ConfidenceFactorDiscountsRating(t *testing.T) {
	calc := NewTrustCalculator(0.5)
	if got := calc.ComputeTrust(0, 0, ratingPtr(1)); !almostEqual(got, 0.4*0.5) {
		t.Fatalf("expected 0.2, got %v", got)
	}
}

func TestComputeTrust_ClampsHostileInputs(t *testing.T) {
	calc := NewTrustCalculator(7) // clamped to 1 at construction
	got := calc.ComputeTrust(12, -3, ratingPtr(99))
	if got < 0 || got > 1 {
		t.Fatalf("trust out of range: %v", got)
	}
	// accuracy and rating clamp to 1, recency to 0.
	if !almostEqual(got, 0.4+0.4) {
		t.Fatalf("expected 0.8, got %v", got)
	}
}
