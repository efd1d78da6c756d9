package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Clamp modes for the motion mixer.
const (
	ClampRatio       = "ratio"       // rescale both wheels together, preserving their ratio
	ClampIndependent = "independent" // clamp each wheel to [-1,1] on its own
)

// Spin execution modes.
const (
	SpinCoast     = "coast"     // energized active phase, then coast until the cooldown expires
	SpinEnergized = "energized" // energized for the full cooldown
)

// MotorConfig holds the wiring of one drive motor.
type MotorConfig struct {
	DirPin   int  `yaml:"dir_pin"`  // direction line (BCM)
	PwmPin   int  `yaml:"pwm_pin"`  // PWM line (BCM), must be a hardware PWM pin
	Reversed bool `yaml:"reversed"` // flip direction (motor mounted mirrored)
}

// GamepadConfig describes the MQTT gamepad link.
// The driver station publishes controller frames as JSON on Topic.
type GamepadConfig struct {
	Broker              string `yaml:"broker"`    // e.g., "tcp://192.168.1.10:1883"
	ClientID            string `yaml:"client_id"` // MQTT client id
	Topic               string `yaml:"topic"`     // controller frame topic
	Username            string `yaml:"username"`
	Password            string `yaml:"password"`
	StaleAfterMs        int    `yaml:"stale_after_ms"`        // frame older than this = link dead
	ReconnectCooldownMs int    `yaml:"reconnect_cooldown_ms"` // min delay between reconnect attempts
}

// CurveConfig defines one 3-segment response curve.
// Raw stick magnitudes at or below DeadZone map to 0; (DeadZone, FineBreak]
// maps linearly to [OutMin, OutMid]; (FineBreak, StickMax] to [OutMid, OutMax].
// Out values are in stick units; the mixer normalizes by StickMax.
type CurveConfig struct {
	DeadZone  int     `yaml:"dead_zone"`
	FineBreak int     `yaml:"fine_break"`
	StickMax  int     `yaml:"stick_max"`
	OutMin    float64 `yaml:"out_min"`
	OutMid    float64 `yaml:"out_mid"`
	OutMax    float64 `yaml:"out_max"`
}

// DriveConfig contains the mixing and tick parameters.
type DriveConfig struct {
	TickMs    int     `yaml:"tick_ms"`    // control loop period
	ClampMode string  `yaml:"clamp_mode"` // "ratio" or "independent"
	RotLead   float64 `yaml:"rot_lead"`   // weight on the wheel leading a turn
	RotTrail  float64 `yaml:"rot_trail"`  // weight on the trailing wheel
}

// ActionsConfig tunes the discrete action system.
type ActionsConfig struct {
	DashMs         int     `yaml:"dash_ms"`          // dash cooldown
	SpinMs         int     `yaml:"spin_ms"`          // spin cooldown
	DebounceMs     int     `yaml:"debounce_ms"`      // min age before re-queueing the same action
	SpinActiveMs   int     `yaml:"spin_active_ms"`   // energized phase of a spin
	DashSpeed      float64 `yaml:"dash_speed"`       // wheel magnitude during a dash (0..1]
	SpinSpeed      float64 `yaml:"spin_speed"`       // wheel magnitude during a spin (0..1]
	SpinMode       string  `yaml:"spin_mode"`        // "coast" or "energized"
	EnableDashBack *bool   `yaml:"enable_dash_back"` // nil = enabled
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel  int  `yaml:"debug_level"`  // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO    bool `yaml:"mock_gpio"`    // use mock GPIO (true=dev/test, false=real Raspberry Pi)
	MockGamepad bool `yaml:"mock_gamepad"` // use a mock gamepad link instead of MQTT
}

// Config aggregates all firmware configuration.
type Config struct {
	Gamepad       GamepadConfig  `yaml:"gamepad"`
	LeftMotor     MotorConfig    `yaml:"left_motor"`
	RightMotor    MotorConfig    `yaml:"right_motor"`
	Drive         DriveConfig    `yaml:"drive"`
	SpeedCurve    CurveConfig    `yaml:"speed_curve"`
	RotationCurve CurveConfig    `yaml:"rotation_curve"`
	Actions       ActionsConfig  `yaml:"actions"`
	Defaults      DefaultsConfig `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields with their documented defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Gamepad.Broker == "" {
		cfg.Gamepad.Broker = "tcp://127.0.0.1:1883"
	}
	if cfg.Gamepad.ClientID == "" {
		cfg.Gamepad.ClientID = "sumogo"
	}
	if cfg.Gamepad.Topic == "" {
		cfg.Gamepad.Topic = "sumogo/gamepad"
	}
	if cfg.Gamepad.StaleAfterMs <= 0 {
		cfg.Gamepad.StaleAfterMs = 500
	}
	if cfg.Gamepad.ReconnectCooldownMs <= 0 {
		cfg.Gamepad.ReconnectCooldownMs = 3000
	}

	if cfg.Drive.TickMs <= 0 {
		cfg.Drive.TickMs = 20
	}
	if cfg.Drive.ClampMode == "" {
		cfg.Drive.ClampMode = ClampRatio
	}
	if cfg.Drive.RotLead == 0 {
		cfg.Drive.RotLead = 1.0
	}
	if cfg.Drive.RotTrail == 0 {
		cfg.Drive.RotTrail = 1.0
	}

	applyCurveDefaults(&cfg.SpeedCurve, 20, 70, 127)
	applyCurveDefaults(&cfg.RotationCurve, 15, 60, 110)

	if cfg.Actions.DashMs <= 0 {
		cfg.Actions.DashMs = 300
	}
	if cfg.Actions.SpinMs <= 0 {
		cfg.Actions.SpinMs = 300
	}
	if cfg.Actions.DebounceMs <= 0 {
		cfg.Actions.DebounceMs = 200
	}
	if cfg.Actions.SpinActiveMs <= 0 {
		cfg.Actions.SpinActiveMs = 100
	}
	if cfg.Actions.DashSpeed == 0 {
		cfg.Actions.DashSpeed = 1.0
	}
	if cfg.Actions.SpinSpeed == 0 {
		cfg.Actions.SpinSpeed = 1.0
	}
	if cfg.Actions.SpinMode == "" {
		cfg.Actions.SpinMode = SpinCoast
	}
}

func applyCurveDefaults(c *CurveConfig, outMin, outMid, outMax float64) {
	if c.StickMax <= 0 {
		c.StickMax = 127
	}
	if c.DeadZone <= 0 {
		c.DeadZone = 10
	}
	if c.FineBreak <= 0 {
		c.FineBreak = 90
	}
	if c.OutMin == 0 {
		c.OutMin = outMin
	}
	if c.OutMid == 0 {
		c.OutMid = outMid
	}
	if c.OutMax == 0 {
		c.OutMax = outMax
	}
}

// Validate checks cross-field consistency. Defaults must be applied first.
func Validate(cfg *Config) error {
	if err := validateCurve("speed_curve", &cfg.SpeedCurve); err != nil {
		return err
	}
	if err := validateCurve("rotation_curve", &cfg.RotationCurve); err != nil {
		return err
	}

	switch cfg.Drive.ClampMode {
	case ClampRatio, ClampIndependent:
	default:
		return fmt.Errorf("drive.clamp_mode must be %q or %q, got %q", ClampRatio, ClampIndependent, cfg.Drive.ClampMode)
	}
	if cfg.Drive.RotLead < 0 || cfg.Drive.RotLead > 2 {
		return fmt.Errorf("drive.rot_lead must be between 0 and 2, got %.2f", cfg.Drive.RotLead)
	}
	if cfg.Drive.RotTrail < 0 || cfg.Drive.RotTrail > 2 {
		return fmt.Errorf("drive.rot_trail must be between 0 and 2, got %.2f", cfg.Drive.RotTrail)
	}

	switch cfg.Actions.SpinMode {
	case SpinCoast, SpinEnergized:
	default:
		return fmt.Errorf("actions.spin_mode must be %q or %q, got %q", SpinCoast, SpinEnergized, cfg.Actions.SpinMode)
	}
	if cfg.Actions.DashSpeed < 0 || cfg.Actions.DashSpeed > 1 {
		return fmt.Errorf("actions.dash_speed must be between 0 and 1, got %.2f", cfg.Actions.DashSpeed)
	}
	if cfg.Actions.SpinSpeed < 0 || cfg.Actions.SpinSpeed > 1 {
		return fmt.Errorf("actions.spin_speed must be between 0 and 1, got %.2f", cfg.Actions.SpinSpeed)
	}
	if cfg.Actions.SpinActiveMs > cfg.Actions.SpinMs {
		return fmt.Errorf("actions.spin_active_ms (%d) must not exceed actions.spin_ms (%d)", cfg.Actions.SpinActiveMs, cfg.Actions.SpinMs)
	}

	return nil
}

func validateCurve(name string, c *CurveConfig) error {
	if c.DeadZone >= c.FineBreak {
		return fmt.Errorf("%s: dead_zone (%d) must be below fine_break (%d)", name, c.DeadZone, c.FineBreak)
	}
	if c.FineBreak > c.StickMax {
		return fmt.Errorf("%s: fine_break (%d) must not exceed stick_max (%d)", name, c.FineBreak, c.StickMax)
	}
	if c.OutMin < 0 || c.OutMin > c.OutMid || c.OutMid > c.OutMax {
		return fmt.Errorf("%s: out values must satisfy 0 <= out_min <= out_mid <= out_max, got %.1f/%.1f/%.1f", name, c.OutMin, c.OutMid, c.OutMax)
	}
	if c.OutMax > float64(c.StickMax) {
		return fmt.Errorf("%s: out_max (%.1f) must not exceed stick_max (%d)", name, c.OutMax, c.StickMax)
	}
	return nil
}

// DashBackEnabled reports whether the backward dash button is honored.
// Deployments without a reverse dash set enable_dash_back: false.
func (c *Config) DashBackEnabled() bool {
	return c.Actions.EnableDashBack == nil || *c.Actions.EnableDashBack
}

// TickInterval returns the control loop period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Drive.TickMs) * time.Millisecond
}

// DashCooldown returns the duration a dash occupies the current slot.
func (c *Config) DashCooldown() time.Duration {
	return time.Duration(c.Actions.DashMs) * time.Millisecond
}

// SpinCooldown returns the duration a spin occupies the current slot.
func (c *Config) SpinCooldown() time.Duration {
	return time.Duration(c.Actions.SpinMs) * time.Millisecond
}

// Debounce returns the minimum age before the running action can be re-queued.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Actions.DebounceMs) * time.Millisecond
}

// SpinActive returns the energized phase duration of a spin.
func (c *Config) SpinActive() time.Duration {
	return time.Duration(c.Actions.SpinActiveMs) * time.Millisecond
}

// ReconnectCooldown returns the minimum delay between gamepad reconnect attempts.
func (c *Config) ReconnectCooldown() time.Duration {
	return time.Duration(c.Gamepad.ReconnectCooldownMs) * time.Millisecond
}

// StaleAfter returns the controller frame age beyond which the link counts as dead.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.Gamepad.StaleAfterMs) * time.Millisecond
}
