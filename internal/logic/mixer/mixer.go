package mixer

import (
	"math"

	"github.com/cjeanneret/SumoGo/internal/config"
	"github.com/cjeanneret/SumoGo/internal/hw/motor"
	"github.com/cjeanneret/SumoGo/internal/logic/curve"
)

// Mixer turns the two analog axes into a wheel command. It only drives
// the robot while no discrete action occupies the scheduler.
type Mixer struct {
	speed    *curve.Shaper
	rotation *curve.Shaper

	rotLead  float64
	rotTrail float64

	ratioClamp bool
}

// NewMixer builds the mixer from configuration. Clamp behavior follows
// drive.clamp_mode; lead/trail weights compensate mechanical asymmetry
// so a commanded pure rotation keeps the robot in place.
func NewMixer(cfg *config.Config) *Mixer {
	return &Mixer{
		speed:      curve.NewShaper(cfg.SpeedCurve),
		rotation:   curve.NewShaper(cfg.RotationCurve),
		rotLead:    cfg.Drive.RotLead,
		rotTrail:   cfg.Drive.RotTrail,
		ratioClamp: cfg.Drive.ClampMode == config.ClampRatio,
	}
}

// Mix combines the shaped speed and rotation axes into a wheel command.
// Positive rotation turns right: the left wheel leads, the right trails.
func (m *Mixer) Mix(speedAxis, rotationAxis int) motor.WheelCommand {
	speed := m.speed.Normalized(speedAxis)
	rotation := m.rotation.Normalized(rotationAxis)

	rotLeft := rotation
	rotRight := -rotation
	if rotation >= 0 {
		rotLeft *= m.rotLead
		rotRight *= m.rotTrail
	} else {
		rotLeft *= m.rotTrail
		rotRight *= m.rotLead
	}

	cmd := motor.WheelCommand{
		Left:  speed + rotLeft,
		Right: speed + rotRight,
	}

	if m.ratioClamp {
		return clampRatio(cmd)
	}
	return cmd.Clamp()
}

// Derived returns the normalized speed and rotation for one tick,
// for diagnostics only.
func (m *Mixer) Derived(speedAxis, rotationAxis int) (speed, rotation float64) {
	return m.speed.Normalized(speedAxis), m.rotation.Normalized(rotationAxis)
}

// clampRatio rescales both wheels by the same factor when either exceeds
// full throttle, preserving their ratio and thus the intended turn radius.
func clampRatio(cmd motor.WheelCommand) motor.WheelCommand {
	peak := math.Max(math.Abs(cmd.Left), math.Abs(cmd.Right))
	if peak <= 1 {
		return cmd
	}
	return motor.WheelCommand{
		Left:  cmd.Left / peak,
		Right: cmd.Right / peak,
	}
}
