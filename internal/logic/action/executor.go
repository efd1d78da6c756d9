package action

import (
	"time"

	"github.com/cjeanneret/SumoGo/internal/config"
	"github.com/cjeanneret/SumoGo/internal/hw/motor"
)

// Executor maps the running action to a concrete wheel command. Spins
// use the same lead/trail split as the mixer's rotation blending so an
// action spin and a full-stick analog spin load the drivetrain the same
// way.
type Executor struct {
	dashSpeed float64
	spinSpeed float64
	rotLead   float64
	rotTrail  float64

	spinActive time.Duration
	coast      bool
}

// NewExecutor creates an executor from configuration.
func NewExecutor(cfg *config.Config) *Executor {
	return &Executor{
		dashSpeed:  cfg.Actions.DashSpeed,
		spinSpeed:  cfg.Actions.SpinSpeed,
		rotLead:    cfg.Drive.RotLead,
		rotTrail:   cfg.Drive.RotTrail,
		spinActive: cfg.SpinActive(),
		coast:      cfg.Actions.SpinMode == config.SpinCoast,
	}
}

// Execute returns the wheel command for the running action at the given
// age. Dashes drive both wheels at the dash speed. Spins are two-phase
// in coast mode: energized for the active phase, then (0,0) while the
// scheduler waits out the rest of the cooldown. In energized mode the
// spin command holds for the full cooldown.
func (e *Executor) Execute(current Action, elapsed time.Duration) motor.WheelCommand {
	switch current {
	case DashForward:
		return motor.WheelCommand{Left: e.dashSpeed, Right: e.dashSpeed}
	case DashBackward:
		return motor.WheelCommand{Left: -e.dashSpeed, Right: -e.dashSpeed}
	case SpinRight:
		if e.coasting(elapsed) {
			return motor.WheelCommand{}
		}
		return motor.WheelCommand{
			Left:  e.rotLead * e.spinSpeed,
			Right: -e.rotTrail * e.spinSpeed,
		}
	case SpinLeft:
		if e.coasting(elapsed) {
			return motor.WheelCommand{}
		}
		return motor.WheelCommand{
			Left:  -e.rotTrail * e.spinSpeed,
			Right: e.rotLead * e.spinSpeed,
		}
	default:
		return motor.WheelCommand{}
	}
}

func (e *Executor) coasting(elapsed time.Duration) bool {
	return e.coast && elapsed >= e.spinActive
}
