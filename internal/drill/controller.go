// Package drill implements the timed turn/session state machine.
//
// The Controller is passive: every command takes the current time and
// delayed transitions sit in a queue until Advance is called with a time at
// or past their deadline. Drivers call Advance at NextDeadline, tests pass a
// virtual clock. A Controller has a single writer and is not safe for
// concurrent use.
package drill

import (
	"time"

	"github.com/verte-zerg/hdgdrill/internal/heading"
	"github.com/verte-zerg/hdgdrill/internal/model"
)

// Timings are the fixed dwell durations of the turn cycle.
// ShiftDelay must be shorter than ResultWindow so a shift lands while the
// result is still displayed.
type Timings struct {
	StartDelay    time.Duration
	ResultWindow  time.Duration
	ShiftDelay    time.Duration
	FlashDuration time.Duration
}

// DefaultTimings returns the standard cycle durations.
func DefaultTimings() Timings {
	return Timings{
		StartDelay:    1000 * time.Millisecond,
		ResultWindow:  2000 * time.Millisecond,
		ShiftDelay:    1500 * time.Millisecond,
		FlashDuration: 500 * time.Millisecond,
	}
}

func (t Timings) applyDefaults() Timings {
	d := DefaultTimings()
	if t.StartDelay <= 0 {
		t.StartDelay = d.StartDelay
	}
	if t.ResultWindow <= 0 {
		t.ResultWindow = d.ResultWindow
	}
	if t.ShiftDelay <= 0 {
		t.ShiftDelay = d.ShiftDelay
	}
	if t.FlashDuration <= 0 {
		t.FlashDuration = d.FlashDuration
	}
	if t.ShiftDelay >= t.ResultWindow {
		t.ShiftDelay = t.ResultWindow * 3 / 4
	}
	return t
}

// Controller owns the heading, turn and session state of one trainee.
type Controller struct {
	engine  *heading.Engine
	timings Timings

	pending model.Config
	active  model.Config

	state    model.GameState
	heading  int
	turn     model.Turn
	hasTurn  bool
	running  bool
	flashing bool

	lastShift     int
	session       model.Session
	turnStartedAt time.Time

	sched schedule
}

// New returns an idle controller with the given settings.
func New(engine *heading.Engine, cfg model.Config, timings Timings) *Controller {
	c := &Controller{
		engine:  engine,
		timings: timings.applyDefaults(),
		pending: cfg,
		active:  cfg,
	}
	c.heading = heading.Round(float64(cfg.InitialHeading), cfg.RoundToNearest)
	return c
}

// SetConfig stores settings for the next Start. A running session keeps the
// settings it was started with.
func (c *Controller) SetConfig(cfg model.Config) {
	c.pending = cfg
}

// Config returns the settings the next session will use.
func (c *Controller) Config() model.Config {
	return c.pending
}

// Timings returns the normalized cycle durations.
func (c *Controller) Timings() Timings {
	return c.timings
}

// Start begins a fresh session. It reports false when a session is already
// running.
func (c *Controller) Start(now time.Time) bool {
	if c.running {
		return false
	}
	c.sched.cancel()
	c.active = c.pending
	c.session = model.Session{StartedAt: now}
	c.heading = heading.Round(float64(c.active.InitialHeading), c.active.RoundToNearest)
	c.hasTurn = false
	c.flashing = false
	c.lastShift = 0
	c.running = true
	c.state = model.Ready
	c.sched.add(actionBeginTurn, now.Add(c.timings.StartDelay))
	return true
}

// Pause stops the session and abandons every scheduled transition. Statistics
// stay visible until the next Start.
func (c *Controller) Pause(now time.Time) {
	c.stop(now)
}

// Reset stops the session, zeroes statistics and restores the initial heading.
func (c *Controller) Reset(now time.Time) {
	c.stop(now)
	c.session = model.Session{}
	c.hasTurn = false
	c.lastShift = 0
	c.heading = heading.Round(float64(c.pending.InitialHeading), c.pending.RoundToNearest)
}

func (c *Controller) stop(now time.Time) {
	if c.running {
		c.session.Wall = now.Sub(c.session.StartedAt)
	}
	c.running = false
	c.flashing = false
	c.state = model.Idle
	c.sched.cancel()
}

// Acknowledge records that the trainee computed the heading. Outside a running
// ShowingAngle state it does nothing and returns nil.
func (c *Controller) Acknowledge(now time.Time) []model.Event {
	if !c.running || c.state != model.ShowingAngle {
		return nil
	}
	from := c.heading
	c.heading = heading.Round(float64(heading.ApplyTurn(from, c.turn)), c.active.RoundToNearest)

	elapsed := now.Sub(c.turnStartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	c.session.TurnCount++
	c.session.TotalElapsed += elapsed
	c.session.AverageTurn = c.session.TotalElapsed / time.Duration(c.session.TurnCount)
	c.session.Wall = now.Sub(c.session.StartedAt)

	if c.active.ShiftAfterTurns > 0 && c.session.TurnCount%c.active.ShiftAfterTurns == 0 {
		c.sched.add(actionApplyShift, now.Add(c.timings.ShiftDelay))
	}
	c.sched.add(actionBeginTurn, now.Add(c.timings.ResultWindow))
	c.state = model.ShowingResult

	return []model.Event{{
		Type:        model.EventTurnCompleted,
		At:          now,
		Turn:        c.turn,
		FromHeading: from,
		ToHeading:   c.heading,
		Elapsed:     elapsed,
		TurnCount:   c.session.TurnCount,
	}}
}

// Advance fires, in order, every scheduled transition due at or before now.
func (c *Controller) Advance(now time.Time) []model.Event {
	var events []model.Event
	for {
		t, ok := c.sched.pop(now)
		if !ok {
			break
		}
		if ev, ok := c.fire(t); ok {
			events = append(events, ev)
		}
	}
	c.Tick(now)
	return events
}

// Tick refreshes the live session clock. It never changes state.
func (c *Controller) Tick(now time.Time) {
	if c.running && !now.Before(c.session.StartedAt) {
		c.session.Wall = now.Sub(c.session.StartedAt)
	}
}

func (c *Controller) fire(t timer) (model.Event, bool) {
	if !c.running {
		return model.Event{}, false
	}
	switch t.action {
	case actionBeginTurn:
		c.turn = c.engine.GenerateTurn(c.active)
		c.hasTurn = true
		c.turnStartedAt = t.due
		c.state = model.ShowingDirection
		c.sched.add(actionRevealAngle, t.due.Add(c.active.Delay()))
		return model.Event{
			Type:        model.EventTurnShown,
			At:          t.due,
			Turn:        c.turn,
			FromHeading: c.heading,
			ToHeading:   c.heading,
			TurnCount:   c.session.TurnCount,
		}, true
	case actionRevealAngle:
		if c.state != model.ShowingDirection {
			return model.Event{}, false
		}
		c.state = model.ShowingAngle
		return model.Event{
			Type:        model.EventAngleRevealed,
			At:          t.due,
			Turn:        c.turn,
			FromHeading: c.heading,
			ToHeading:   c.heading,
			TurnCount:   c.session.TurnCount,
		}, true
	case actionApplyShift:
		from := c.heading
		c.heading, c.lastShift = c.engine.Shift(from, c.active.ShiftAmount, c.active.RoundToNearest)
		c.flashing = true
		c.sched.add(actionEndFlash, t.due.Add(c.timings.FlashDuration))
		return model.Event{
			Type:        model.EventShiftApplied,
			At:          t.due,
			FromHeading: from,
			ToHeading:   c.heading,
			TurnCount:   c.session.TurnCount,
		}, true
	case actionEndFlash:
		c.flashing = false
		return model.Event{
			Type:        model.EventFlashEnded,
			At:          t.due,
			FromHeading: c.heading,
			ToHeading:   c.heading,
			TurnCount:   c.session.TurnCount,
		}, true
	}
	return model.Event{}, false
}

// NextDeadline returns the due time of the earliest scheduled transition.
func (c *Controller) NextDeadline() (time.Time, bool) {
	return c.sched.next()
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot() model.Snapshot {
	next, _ := c.sched.next()
	return model.Snapshot{
		State:        c.state,
		Heading:      c.heading,
		Turn:         c.turn,
		HasTurn:      c.hasTurn,
		Session:      c.session,
		Running:      c.running,
		Flashing:     c.flashing,
		LastShift:    c.lastShift,
		NextDeadline: next,
	}
}
