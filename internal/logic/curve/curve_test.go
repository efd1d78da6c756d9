package curve

import (
	"math"
	"testing"

	"github.com/cjeanneret/SumoGo/internal/config"
)

func newTestCurve() config.CurveConfig {
	return config.CurveConfig{
		DeadZone:  10,
		FineBreak: 90,
		StickMax:  127,
		OutMin:    20,
		OutMid:    70,
		OutMax:    127,
	}
}

func TestShape_DeadZone(t *testing.T) {
	s := NewShaper(newTestCurve())

	cases := []int{0, 1, 5, 9, 10, -1, -5, -10}
	for _, raw := range cases {
		if got := s.Shape(raw); got != 0 {
			t.Errorf("Shape(%d) = %v, want 0 (inside dead zone)", raw, got)
		}
	}
}

func TestShape_SegmentEndpoints(t *testing.T) {
	s := NewShaper(newTestCurve())

	cases := []struct {
		name string
		raw  int
		want float64
	}{
		{"fine_break", 90, 70},
		{"stick_max", 127, 127},
		{"negative_fine_break", -90, -70},
		{"negative_stick_max", -127, -127},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Shape(tc.raw)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Shape(%d) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestShape_FineSegmentInterpolation(t *testing.T) {
	s := NewShaper(newTestCurve())

	// Midpoint of [10, 90] should land on the midpoint of [20, 70].
	got := s.Shape(50)
	want := 45.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Shape(50) = %v, want %v", got, want)
	}
}

func TestShape_SignPreserved(t *testing.T) {
	s := NewShaper(newTestCurve())

	for raw := 11; raw <= 127; raw += 7 {
		pos := s.Shape(raw)
		neg := s.Shape(-raw)
		if pos <= 0 {
			t.Errorf("Shape(%d) = %v, want positive", raw, pos)
		}
		if neg != -pos {
			t.Errorf("Shape(-%d) = %v, want %v", raw, neg, -pos)
		}
	}
}

func TestShape_Monotonic(t *testing.T) {
	s := NewShaper(newTestCurve())

	prev := 0.0
	for raw := 0; raw <= 127; raw++ {
		got := s.Shape(raw)
		if got < prev {
			t.Fatalf("Shape not monotonic: Shape(%d) = %v < Shape(%d) = %v", raw, got, raw-1, prev)
		}
		prev = got
	}
}

func TestShape_ClampsAboveStickMax(t *testing.T) {
	s := NewShaper(newTestCurve())

	if got := s.Shape(200); got != 127 {
		t.Errorf("Shape(200) = %v, want 127 (clamped)", got)
	}
	if got := s.Shape(-200); got != -127 {
		t.Errorf("Shape(-200) = %v, want -127 (clamped)", got)
	}
}

func TestShape_DegenerateCoarseSegment(t *testing.T) {
	// fine_break == stick_max collapses the coarse segment to a point;
	// inputs above it must resolve to the upper bound, not divide by zero.
	cfg := config.CurveConfig{
		DeadZone:  10,
		FineBreak: 90,
		StickMax:  90,
		OutMin:    20,
		OutMid:    70,
		OutMax:    127,
	}
	s := NewShaper(cfg)

	got := s.Shape(95)
	if got != 127 {
		t.Errorf("Shape(95) on collapsed segment = %v, want 127 (upper bound)", got)
	}
}

func TestNormalized_FullDeflection(t *testing.T) {
	s := NewShaper(newTestCurve())

	if got := s.Normalized(127); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Normalized(127) = %v, want 1.0", got)
	}
	if got := s.Normalized(-127); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("Normalized(-127) = %v, want -1.0", got)
	}
	if got := s.Normalized(0); got != 0 {
		t.Errorf("Normalized(0) = %v, want 0", got)
	}
}

func TestLerp_ZeroWidthReturnsUpperBound(t *testing.T) {
	if got := lerp(5, 5, 5, 10, 20); got != 20 {
		t.Errorf("lerp on zero-width range = %v, want 20", got)
	}
}
