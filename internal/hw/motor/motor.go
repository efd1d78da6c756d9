package motor

import (
	"github.com/cjeanneret/SumoGo/internal/debug"
	"github.com/cjeanneret/SumoGo/internal/hw/gpio"
)

// DutyCycleMax is the PWM cycle length; duty values are 0..255.
const DutyCycleMax = 256

// WheelCommand is a pair of normalized wheel speeds in [-1, 1].
// Sign is direction, magnitude is throttle.
type WheelCommand struct {
	Left  float64
	Right float64
}

// Clamp returns the command with both wheels hard-clamped to [-1, 1].
func (w WheelCommand) Clamp() WheelCommand {
	return WheelCommand{Left: clamp1(w.Left), Right: clamp1(w.Right)}
}

// IsZero reports whether both wheels are stopped.
func (w WheelCommand) IsZero() bool {
	return w.Left == 0 && w.Right == 0
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Config holds the hardware configuration for one drive motor.
type Config struct {
	DirPin   int  // direction line
	PwmPin   int  // hardware PWM line
	Reversed bool // flip direction for mirrored mounting
}

// Motor drives a single DC motor through a direction pin and a PWM pin
// (classic H-bridge DIR+PWM wiring).
type Motor struct {
	gpio gpio.Driver
	cfg  Config
}

// NewMotor creates a motor controller and puts the outputs in a safe state.
func NewMotor(g gpio.Driver, cfg Config) *Motor {
	_ = g.SetupPin(cfg.DirPin, gpio.Output)
	_ = g.SetupPWM(cfg.PwmPin)

	m := &Motor{gpio: g, cfg: cfg}
	_ = m.Apply(0)
	return m
}

// Apply sets the motor to a normalized speed in [-1, 1].
// Out-of-range values are hard-clamped, never rejected.
func (m *Motor) Apply(speed float64) error {
	speed = clamp1(speed)

	forward := speed >= 0
	if m.cfg.Reversed {
		forward = !forward
	}

	dirLevel := gpio.Low
	if forward {
		dirLevel = gpio.High
	}
	if err := m.gpio.WritePin(m.cfg.DirPin, dirLevel); err != nil {
		return err
	}

	mag := speed
	if mag < 0 {
		mag = -mag
	}
	duty := uint32(mag * 255)

	debug.Trace("Motor: pin=%d speed=%.3f duty=%d", m.cfg.PwmPin, speed, duty)
	return m.gpio.WritePWM(m.cfg.PwmPin, duty, DutyCycleMax)
}

// Drive pairs the left and right motors and applies wheel commands.
// It's the motor output collaborator of the tick controller.
type Drive struct {
	left  *Motor
	right *Motor
}

// NewDrive creates the differential drive from two motors.
func NewDrive(left, right *Motor) *Drive {
	return &Drive{left: left, right: right}
}

// Apply sends a wheel command to both motors. The command is clamped
// before conversion so the duty cycle can never exceed 255.
func (d *Drive) Apply(cmd WheelCommand) error {
	cmd = cmd.Clamp()
	if err := d.left.Apply(cmd.Left); err != nil {
		return err
	}
	return d.right.Apply(cmd.Right)
}

// Stop zeroes both motors immediately.
func (d *Drive) Stop() error {
	return d.Apply(WheelCommand{})
}
