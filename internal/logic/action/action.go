package action

import (
	"fmt"

	"github.com/cjeanneret/SumoGo/internal/hw/gamepad"
)

// Action identifies a discrete timed maneuver. Identity alone selects
// behavior and cooldown; actions carry no payload.
type Action int

const (
	Neutral Action = iota
	DashForward
	DashBackward
	SpinRight
	SpinLeft
)

func (a Action) String() string {
	switch a {
	case Neutral:
		return "neutral"
	case DashForward:
		return "dash_forward"
	case DashBackward:
		return "dash_backward"
	case SpinRight:
		return "spin_right"
	case SpinLeft:
		return "spin_left"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// IsDash reports whether a is a straight-line burst.
func (a Action) IsDash() bool {
	return a == DashForward || a == DashBackward
}

// IsSpin reports whether a is an in-place rotation.
func (a Action) IsSpin() bool {
	return a == SpinRight || a == SpinLeft
}

// Parse maps an action name (as produced by String) back to an Action.
func Parse(name string) (Action, error) {
	switch name {
	case "neutral":
		return Neutral, nil
	case "dash_forward":
		return DashForward, nil
	case "dash_backward":
		return DashBackward, nil
	case "spin_right":
		return SpinRight, nil
	case "spin_left":
		return SpinLeft, nil
	default:
		return Neutral, fmt.Errorf("unknown action: %q", name)
	}
}

// FromSnapshot picks the requested action from the controller buttons.
// When several buttons are held in the same tick, only the highest
// priority one counts: dash-forward > dash-backward > spin-right >
// spin-left. The backward dash is ignored when the deployment omits it.
func FromSnapshot(snap gamepad.Snapshot, allowDashBack bool) Action {
	switch {
	case snap.Dash:
		return DashForward
	case snap.DashBack && allowDashBack:
		return DashBackward
	case snap.SpinRight:
		return SpinRight
	case snap.SpinLeft:
		return SpinLeft
	default:
		return Neutral
	}
}
