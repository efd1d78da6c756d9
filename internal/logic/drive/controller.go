package drive

import (
	"context"
	"time"

	"github.com/cjeanneret/SumoGo/internal/config"
	"github.com/cjeanneret/SumoGo/internal/debug"
	"github.com/cjeanneret/SumoGo/internal/hw/gamepad"
	"github.com/cjeanneret/SumoGo/internal/hw/motor"
	"github.com/cjeanneret/SumoGo/internal/logic/action"
	"github.com/cjeanneret/SumoGo/internal/logic/mixer"
)

// Output is the motor output collaborator: it receives one clamped
// wheel command per tick.
type Output interface {
	Apply(cmd motor.WheelCommand) error
	Stop() error
}

// Controller is the per-tick orchestrator: sample input, advance the
// action queue, execute the running action or fall back to analog
// mixing, forward the command to the motors. It owns the single action
// slot (through the scheduler) and all per-tick state.
type Controller struct {
	cfg  *config.Config
	link gamepad.Link
	out  Output

	sched *action.Scheduler
	exec  *action.Executor
	mix   *mixer.Mixer

	allowDashBack bool
	lastReconnect time.Time

	// remote carries action requests from outside the tick loop (web
	// console). The tick drains it so the scheduler stays single-owner.
	remote chan action.Action
}

// NewController wires the control loop from configuration.
func NewController(cfg *config.Config, link gamepad.Link, out Output) *Controller {
	return &Controller{
		cfg:           cfg,
		link:          link,
		out:           out,
		sched:         action.NewScheduler(cfg),
		exec:          action.NewExecutor(cfg),
		mix:           mixer.NewMixer(cfg),
		allowDashBack: cfg.DashBackEnabled(),
		remote:        make(chan action.Action, 1),
	}
}

// Tick runs one control cycle at the given time.
func (c *Controller) Tick(now time.Time) error {
	if !c.link.Connected() {
		return c.tickDisconnected(now)
	}

	snap := c.link.Snapshot()

	requested := action.FromSnapshot(snap, c.allowDashBack)
	if requested == action.Neutral {
		requested = c.takeRemote()
	}
	if requested != action.Neutral {
		if c.sched.Enqueue(requested, now) {
			debug.Live("Queued action: %s", requested)
		}
	}

	if c.sched.Advance(now) {
		// A spin just finished: zero the wheels before whatever runs next.
		if err := c.out.Apply(motor.WheelCommand{}); err != nil {
			return err
		}
	}

	var cmd motor.WheelCommand
	if current := c.sched.Current(); current != action.Neutral {
		cmd = c.exec.Execute(current, c.sched.Elapsed(now))
	} else {
		cmd = c.mix.Mix(snap.SpeedAxis, snap.RotationAxis)
	}

	if debug.IsEnabled(debug.LevelVerbose) {
		speed, rotation := c.mix.Derived(snap.SpeedAxis, snap.RotationAxis)
		debug.Tick(snap.SpeedAxis, snap.RotationAxis, speed, rotation)
	}
	if debug.IsEnabled(debug.LevelLive) {
		debug.ActionState(c.sched.Current().String(), c.sched.Next().String(),
			c.sched.Remaining(now).Milliseconds())
		debug.Command(cmd.Left, cmd.Right)
	}

	return c.out.Apply(cmd)
}

// tickDisconnected stops the robot and retries the link, rate-limited
// by the reconnect cooldown (independent of the action cooldowns).
func (c *Controller) tickDisconnected(now time.Time) error {
	if err := c.out.Stop(); err != nil {
		return err
	}
	if now.Sub(c.lastReconnect) >= c.cfg.ReconnectCooldown() {
		c.lastReconnect = now
		if err := c.link.Reconnect(); err != nil {
			debug.Error(err)
		}
	}
	return nil
}

// Run drives the tick loop at the configured interval until ctx is
// cancelled, then stops the motors.
func (c *Controller) Run(ctx context.Context) error {
	debug.Info("Control loop running every %v", c.cfg.TickInterval())

	ticker := time.NewTicker(c.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			debug.Info("Control loop stopping")
			return c.out.Stop()
		case now := <-ticker.C:
			if err := c.Tick(now); err != nil {
				// A failed tick leaves no lasting state; log and keep driving.
				debug.Error(err)
			}
		}
	}
}

// Request queues an action request from outside the tick loop (e.g. the
// web console). It reports whether the request was taken; admission is
// still decided by the scheduler on the next tick.
func (c *Controller) Request(a action.Action) bool {
	if a == action.Neutral {
		return false
	}
	select {
	case c.remote <- a:
		return true
	default:
		return false
	}
}

// Status exposes the scheduler occupancy for diagnostics.
func (c *Controller) Status() action.QueueState {
	return c.sched.Status()
}

func (c *Controller) takeRemote() action.Action {
	select {
	case a := <-c.remote:
		return a
	default:
		return action.Neutral
	}
}
