package action

import (
	"time"

	"github.com/cjeanneret/SumoGo/internal/config"
)

// QueueState describes the scheduler occupancy.
type QueueState int

const (
	Idle    QueueState = iota // no action running, analog mixing drives
	Running                   // an action runs, room to queue one more
	Full                      // an action runs and one is queued
)

// Slot is the single piece of mutable state in the whole control loop:
// the running action, the one queued behind it, and when the running one
// started. Next is only ever promoted into Current, never executed
// directly.
type Slot struct {
	Current   Action
	Next      Action
	StartedAt time.Time
}

// Scheduler governs the two-slot action queue: promotion on cooldown
// expiry, one-deep queueing with debounce, and the status the tick
// controller uses to choose between executor and mixer. All methods take
// the tick time explicitly; the scheduler never reads the clock.
type Scheduler struct {
	slot Slot

	dashCooldown time.Duration
	spinCooldown time.Duration
	debounce     time.Duration
}

// NewScheduler creates an idle scheduler (Neutral/Neutral).
func NewScheduler(cfg *config.Config) *Scheduler {
	return &Scheduler{
		dashCooldown: cfg.DashCooldown(),
		spinCooldown: cfg.SpinCooldown(),
		debounce:     cfg.Debounce(),
	}
}

// Cooldown returns how long a occupies the current slot. Neutral has none.
func (s *Scheduler) Cooldown(a Action) time.Duration {
	switch {
	case a.IsDash():
		return s.dashCooldown
	case a.IsSpin():
		return s.spinCooldown
	default:
		return 0
	}
}

// Advance evaluates the queue transitions for one tick, before the
// current action executes. It returns true when a finishing spin demands
// an immediate zero command so the wheels never carry a stale spin value
// into the next action.
func (s *Scheduler) Advance(now time.Time) (stopMotors bool) {
	if s.slot.Current != Neutral {
		if now.Sub(s.slot.StartedAt) < s.Cooldown(s.slot.Current) {
			return false
		}
		stopMotors = s.slot.Current.IsSpin()
		s.slot.Current = s.slot.Next
		s.slot.Next = Neutral
		if s.slot.Current != Neutral {
			s.slot.StartedAt = now
		}
		return stopMotors
	}

	if s.slot.Next != Neutral {
		s.slot.Current = s.slot.Next
		s.slot.Next = Neutral
		s.slot.StartedAt = now
	}
	return false
}

// Enqueue admits a requested action into the queue. A request is
// accepted when it differs from the running action, or matches it but
// the debounce window has elapsed — a held button re-arms once its run
// is old enough instead of re-queueing on every tick. Returns whether
// the request was accepted; Neutral and queue-full requests never are.
func (s *Scheduler) Enqueue(requested Action, now time.Time) bool {
	if requested == Neutral || s.Status() == Full {
		return false
	}
	if requested == s.slot.Current && now.Sub(s.slot.StartedAt) < s.debounce {
		return false
	}
	s.slot.Next = requested
	return true
}

// Status returns the queue occupancy.
func (s *Scheduler) Status() QueueState {
	switch {
	case s.slot.Current == Neutral:
		return Idle
	case s.slot.Next == Neutral:
		return Running
	default:
		return Full
	}
}

// Current returns the running action.
func (s *Scheduler) Current() Action {
	return s.slot.Current
}

// Next returns the queued action.
func (s *Scheduler) Next() Action {
	return s.slot.Next
}

// Elapsed returns how long the current action has been running.
func (s *Scheduler) Elapsed(now time.Time) time.Duration {
	if s.slot.Current == Neutral {
		return 0
	}
	return now.Sub(s.slot.StartedAt)
}

// Remaining returns the cooldown left on the current action.
func (s *Scheduler) Remaining(now time.Time) time.Duration {
	if s.slot.Current == Neutral {
		return 0
	}
	remaining := s.Cooldown(s.slot.Current) - now.Sub(s.slot.StartedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
