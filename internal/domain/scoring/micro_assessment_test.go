package scoring

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMicroAssessment_VSPS_KnownValue(t *testing.T) {
	m := MicroAssessment{Accuracy: 0.9, SpeedScore: 0.8, SkipPenalty: 0.1}
	// 0.54 + 0.24 - 0.01
	if got := m.VSPS(); !almostEqual(got, 0.77) {
		t.Fatalf("expected 0.77, got %v", got)
	}
}

func TestMicroAssessment_VSPS_AlwaysInUnitInterval(t *testing.T) {
	cases := []MicroAssessment{
		{Accuracy: 0, SpeedScore: 0, SkipPenalty: 0},
		{Accuracy: 1, SpeedScore: 1, SkipPenalty: 0},
		{Accuracy: 1, SpeedScore: 1, SkipPenalty: 1},
		{Accuracy: 0, SpeedScore: 0, SkipPenalty: 1},
		{Accuracy: -5, SpeedScore: -1, SkipPenalty: -3},
		{Accuracy: 7, SpeedScore: 42, SkipPenalty: -2},
		{Accuracy: 0.33, SpeedScore: 0.51, SkipPenalty: 0.97},
	}
	for _, m := range cases {
		got := m.VSPS()
		if got < 0 || got > 1 {
			t.Fatalf("vsps out of range for %+v: %v", m, got)
		}
	}
}

func TestMicroAssessment_Normalized_ClampsCopy(t *testing.T) {
	m := MicroAssessment{Accuracy: 1.7, SpeedScore: -0.3, SkipPenalty: 0.5}
	n := m.Normalized()

	if !almostEqual(n.Accuracy, 1) || !almostEqual(n.SpeedScore, 0) || !almostEqual(n.SkipPenalty, 0.5) {
		t.Fatalf("unexpected normalized copy: %+v", n)
	}
	// Original must be untouched.
	if !almostEqual(m.Accuracy, 1.7) || !almostEqual(m.SpeedScore, -0.3) {
		t.Fatalf("receiver mutated: %+v", m)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-0.1) != 0 {
		t.Fatalf("expected 0")
	}
	if Clamp(1.1) != 1 {
		t.Fatalf("expected 1")
	}
	if !almostEqual(Clamp(0.42), 0.42) {
		t.Fatalf("expected passthrough")
	}
}
