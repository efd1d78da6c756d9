package action

import (
	"testing"

	"github.com/cjeanneret/SumoGo/internal/hw/gamepad"
)

func TestFromSnapshot_Priority(t *testing.T) {
	cases := []struct {
		name string
		snap gamepad.Snapshot
		want Action
	}{
		{"no_buttons", gamepad.Snapshot{}, Neutral},
		{"dash_only", gamepad.Snapshot{Dash: true}, DashForward},
		{"dash_back_only", gamepad.Snapshot{DashBack: true}, DashBackward},
		{"spin_right_only", gamepad.Snapshot{SpinRight: true}, SpinRight},
		{"spin_left_only", gamepad.Snapshot{SpinLeft: true}, SpinLeft},
		{"dash_beats_everything", gamepad.Snapshot{Dash: true, DashBack: true, SpinRight: true, SpinLeft: true}, DashForward},
		{"dash_back_beats_spins", gamepad.Snapshot{DashBack: true, SpinRight: true, SpinLeft: true}, DashBackward},
		{"spin_right_beats_spin_left", gamepad.Snapshot{SpinRight: true, SpinLeft: true}, SpinRight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromSnapshot(tc.snap, true)
			if got != tc.want {
				t.Errorf("FromSnapshot = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFromSnapshot_DashBackDisabled(t *testing.T) {
	snap := gamepad.Snapshot{DashBack: true, SpinRight: true}
	if got := FromSnapshot(snap, false); got != SpinRight {
		t.Errorf("disabled dash-back should fall through to spin-right, got %v", got)
	}

	snap = gamepad.Snapshot{DashBack: true}
	if got := FromSnapshot(snap, false); got != Neutral {
		t.Errorf("disabled dash-back alone should give Neutral, got %v", got)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, a := range []Action{Neutral, DashForward, DashBackward, SpinRight, SpinLeft} {
		got, err := Parse(a.String())
		if err != nil {
			t.Errorf("Parse(%q): %v", a.String(), err)
			continue
		}
		if got != a {
			t.Errorf("Parse(%q) = %v, want %v", a.String(), got, a)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	if _, err := Parse("barrel_roll"); err == nil {
		t.Error("expected error for unknown action name, got nil")
	}
}

func TestActionKinds(t *testing.T) {
	if !DashForward.IsDash() || !DashBackward.IsDash() {
		t.Error("dashes should report IsDash")
	}
	if !SpinRight.IsSpin() || !SpinLeft.IsSpin() {
		t.Error("spins should report IsSpin")
	}
	if Neutral.IsDash() || Neutral.IsSpin() {
		t.Error("Neutral is neither dash nor spin")
	}
	if DashForward.IsSpin() || SpinLeft.IsDash() {
		t.Error("kind predicates should not overlap")
	}
}
