package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalYAML = `
left_motor:
  dir_pin: 17
  pwm_pin: 12
right_motor:
  dir_pin: 27
  pwm_pin: 13
  reversed: true
`

func TestLoad_MinimalAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Drive.TickMs != 20 {
		t.Errorf("TickMs = %d, want default 20", cfg.Drive.TickMs)
	}
	if cfg.Drive.ClampMode != ClampRatio {
		t.Errorf("ClampMode = %q, want default %q", cfg.Drive.ClampMode, ClampRatio)
	}
	if cfg.Drive.RotLead != 1.0 || cfg.Drive.RotTrail != 1.0 {
		t.Errorf("lead/trail = %v/%v, want 1.0/1.0", cfg.Drive.RotLead, cfg.Drive.RotTrail)
	}
	if cfg.Actions.DashMs != 300 || cfg.Actions.SpinMs != 300 {
		t.Errorf("cooldowns = %d/%d, want 300/300", cfg.Actions.DashMs, cfg.Actions.SpinMs)
	}
	if cfg.Actions.DebounceMs != 200 {
		t.Errorf("DebounceMs = %d, want 200", cfg.Actions.DebounceMs)
	}
	if cfg.Actions.SpinActiveMs != 100 {
		t.Errorf("SpinActiveMs = %d, want 100", cfg.Actions.SpinActiveMs)
	}
	if cfg.Actions.SpinMode != SpinCoast {
		t.Errorf("SpinMode = %q, want default %q", cfg.Actions.SpinMode, SpinCoast)
	}
	if cfg.Gamepad.ReconnectCooldownMs != 3000 {
		t.Errorf("ReconnectCooldownMs = %d, want 3000", cfg.Gamepad.ReconnectCooldownMs)
	}
	if cfg.SpeedCurve.StickMax != 127 {
		t.Errorf("SpeedCurve.StickMax = %d, want 127", cfg.SpeedCurve.StickMax)
	}
	if !cfg.DashBackEnabled() {
		t.Error("dash-back should be enabled by default")
	}
	if cfg.LeftMotor.DirPin != 17 || !cfg.RightMotor.Reversed {
		t.Error("motor wiring not loaded")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "drive: [not a map")); err == nil {
		t.Error("expected error for malformed yaml, got nil")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			"bad_clamp_mode",
			minimalYAML + "drive:\n  clamp_mode: sideways\n",
			"clamp_mode",
		},
		{
			"bad_spin_mode",
			minimalYAML + "actions:\n  spin_mode: reverse\n",
			"spin_mode",
		},
		{
			"dash_speed_over_one",
			minimalYAML + "actions:\n  dash_speed: 1.5\n",
			"dash_speed",
		},
		{
			"spin_active_exceeds_cooldown",
			minimalYAML + "actions:\n  spin_ms: 200\n  spin_active_ms: 250\n",
			"spin_active_ms",
		},
		{
			"unordered_curve",
			minimalYAML + "speed_curve:\n  dead_zone: 95\n  fine_break: 90\n",
			"dead_zone",
		},
		{
			"fine_break_over_stick_max",
			minimalYAML + "speed_curve:\n  fine_break: 200\n  stick_max: 127\n",
			"fine_break",
		},
		{
			"unordered_out_values",
			minimalYAML + "rotation_curve:\n  out_min: 80\n  out_mid: 60\n  out_max: 110\n",
			"out_min",
		},
		{
			"out_max_over_stick_max",
			minimalYAML + "rotation_curve:\n  out_max: 300\n",
			"out_max",
		},
		{
			"rot_lead_out_of_range",
			minimalYAML + "drive:\n  rot_lead: 5\n",
			"rot_lead",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_DashBackDisabled(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML+"actions:\n  enable_dash_back: false\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DashBackEnabled() {
		t.Error("enable_dash_back: false should disable the backward dash")
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	cases := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"TickInterval", cfg.TickInterval(), 20 * time.Millisecond},
		{"DashCooldown", cfg.DashCooldown(), 300 * time.Millisecond},
		{"SpinCooldown", cfg.SpinCooldown(), 300 * time.Millisecond},
		{"Debounce", cfg.Debounce(), 200 * time.Millisecond},
		{"SpinActive", cfg.SpinActive(), 100 * time.Millisecond},
		{"ReconnectCooldown", cfg.ReconnectCooldown(), 3 * time.Second},
		{"StaleAfter", cfg.StaleAfter(), 500 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
			}
		})
	}
}

func TestLoad_ExplicitValuesKept(t *testing.T) {
	yaml := minimalYAML + `
drive:
  tick_ms: 10
  clamp_mode: independent
  rot_trail: 0.85
actions:
  spin_mode: energized
  dash_ms: 450
`
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Drive.TickMs != 10 {
		t.Errorf("TickMs = %d, want 10", cfg.Drive.TickMs)
	}
	if cfg.Drive.ClampMode != ClampIndependent {
		t.Errorf("ClampMode = %q, want independent", cfg.Drive.ClampMode)
	}
	if cfg.Drive.RotTrail != 0.85 {
		t.Errorf("RotTrail = %v, want 0.85", cfg.Drive.RotTrail)
	}
	if cfg.Actions.SpinMode != SpinEnergized {
		t.Errorf("SpinMode = %q, want energized", cfg.Actions.SpinMode)
	}
	if cfg.Actions.DashMs != 450 {
		t.Errorf("DashMs = %d, want 450", cfg.Actions.DashMs)
	}
}
