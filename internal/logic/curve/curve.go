package curve

import (
	"math"

	"github.com/cjeanneret/SumoGo/internal/config"
)

// epsilon below which an interpolation input range counts as collapsed.
const epsilon = 1e-3

// Shaper maps a raw signed stick value to a calibrated magnitude through
// a 3-segment piecewise-linear curve: dead zone, fine segment, coarse
// segment. Sign is preserved; the curve operates on the magnitude.
type Shaper struct {
	zone float64
	fine float64
	max  float64

	outMin float64
	outMid float64
	outMax float64
}

// NewShaper creates a shaper from one curve calibration.
func NewShaper(cfg config.CurveConfig) *Shaper {
	return &Shaper{
		zone:   float64(cfg.DeadZone),
		fine:   float64(cfg.FineBreak),
		max:    float64(cfg.StickMax),
		outMin: cfg.OutMin,
		outMid: cfg.OutMid,
		outMax: cfg.OutMax,
	}
}

// Shape returns the calibrated magnitude (in stick units) for a raw value.
// Magnitudes at or below the dead zone give 0; the fine segment maps
// [zone, fine] to [outMin, outMid]; the coarse segment maps [fine, max]
// to [outMid, outMax]. Inputs beyond max clamp to outMax.
func (s *Shaper) Shape(raw int) float64 {
	mag := math.Abs(float64(raw))
	sign := 1.0
	if raw < 0 {
		sign = -1.0
	}

	switch {
	case mag <= s.zone:
		return 0
	case mag <= s.fine:
		return sign * lerp(mag, s.zone, s.fine, s.outMin, s.outMid)
	default:
		if mag > s.max {
			mag = s.max
		}
		return sign * lerp(mag, s.fine, s.max, s.outMid, s.outMax)
	}
}

// Normalized returns Shape(raw) scaled by the stick maximum, giving a
// value in about [-1, 1] suitable for the mixer.
func (s *Shaper) Normalized(raw int) float64 {
	return s.Shape(raw) / s.max
}

// StickMax returns the calibrated full-deflection stick value.
func (s *Shaper) StickMax() float64 {
	return s.max
}

// lerp maps x from [x0, x1] to [y0, y1]. A collapsed input range (width
// under epsilon) resolves to the upper output bound instead of dividing
// by zero.
func lerp(x, x0, x1, y0, y1 float64) float64 {
	if x1-x0 < epsilon {
		return y1
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}
