// Package timer implements the countdown state machine: mode, remaining
// time and the running flag, plus the 1 Hz tick schedule that drives them.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zenfocus/internal/clock"
	"zenfocus/internal/model"
)

// State is a snapshot of the timer. Owned exclusively by the Engine.
type State struct {
	Mode             model.TimerMode
	RemainingSeconds int
	IsRunning        bool
}

// Completion is emitted when a countdown reaches zero, before the engine
// auto-switches to the next mode.
type Completion struct {
	Mode            model.TimerMode
	DurationSeconds int
}

// Recorder receives completed focus sessions. Satisfied by ledger.Ledger.
type Recorder interface {
	Record(session model.Session)
}

// Engine is the timer state machine. All operations are pure state
// transitions; nothing here can fail. Session recording is handed to the
// Recorder and its persistence outcome never blocks or rolls back a
// transition.
type Engine struct {
	clk      clock.Clock
	recorder Recorder
	log      *zap.Logger

	mu       sync.Mutex
	settings model.Settings
	state    State

	completions chan Completion
	rescheduleC chan struct{}
}

func NewEngine(clk clock.Clock, recorder Recorder, settings model.Settings, log *zap.Logger) *Engine {
	return &Engine{
		clk:      clk,
		recorder: recorder,
		log:      log,
		settings: settings,
		state: State{
			Mode:             model.ModeFocus,
			RemainingSeconds: settings.DurationSeconds(model.ModeFocus),
			IsRunning:        false,
		},
		completions: make(chan Completion, 8),
		rescheduleC: make(chan struct{}, 1),
	}
}

// Completions emits one event per finished countdown.
func (e *Engine) Completions() <-chan Completion {
	return e.completions
}

// State returns a snapshot of the current timer state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Settings returns the configuration the engine is currently counting with.
func (e *Engine) Settings() model.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// SwitchMode abandons whatever is in progress: it stops the timer and
// resets the countdown for newMode. No session is recorded; switching away
// from an unfinished focus period is abandonment, not completion.
func (e *Engine) SwitchMode(newMode model.TimerMode) {
	if !model.ValidMode(newMode) {
		return
	}
	e.mu.Lock()
	e.switchModeLocked(newMode)
	e.mu.Unlock()
	e.reschedule()
}

// ToggleRunning flips the running flag. No restrictions; toggling at zero
// remaining is allowed but transient since completion fires on its own.
func (e *Engine) ToggleRunning() {
	e.mu.Lock()
	e.state.IsRunning = !e.state.IsRunning
	e.mu.Unlock()
	e.reschedule()
}

// Reset stops the timer and restores the configured duration for the
// current mode. Never records a session.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.switchModeLocked(e.state.Mode)
	e.mu.Unlock()
	e.reschedule()
}

// ApplySettings installs new durations. When idle the countdown re-derives
// from the new duration for the current mode immediately; a running
// countdown is left alone.
func (e *Engine) ApplySettings(settings model.Settings) {
	if !settings.Validate() {
		return
	}
	e.mu.Lock()
	e.settings = settings
	if !e.state.IsRunning {
		e.state.RemainingSeconds = settings.DurationSeconds(e.state.Mode)
	}
	e.mu.Unlock()
	e.reschedule()
}

// Tick advances the countdown by one second. It is a no-op unless the
// timer is running with time remaining, so a tick that was already queued
// when the mode changed cannot decrement the new mode's countdown.
func (e *Engine) Tick() {
	e.mu.Lock()

	if !e.state.IsRunning || e.state.RemainingSeconds <= 0 {
		e.mu.Unlock()
		return
	}

	e.state.RemainingSeconds--
	if e.state.RemainingSeconds > 0 {
		e.mu.Unlock()
		return
	}

	e.completeLocked()
	e.mu.Unlock()
}

// Run owns the tick schedule: one tick per second while the context lives.
// Any state-changing operation restarts the ticker, so a tick scheduled
// under the previous mode or settings is cancelled rather than delivered.
func (e *Engine) Run(ctx context.Context) {
	ticker := e.clk.NewTicker(time.Second)
	defer func() { ticker.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.rescheduleC:
			ticker.Stop()
			ticker = e.clk.NewTicker(time.Second)
		case <-ticker.C():
			e.Tick()
		}
	}
}

// completeLocked finishes the current countdown: stop, emit the completion,
// record a focus session (before the mode switch, so history observers see
// the entry first), then auto-switch. The next mode never auto-starts.
func (e *Engine) completeLocked() {
	finished := e.state.Mode
	duration := e.settings.DurationSeconds(finished)

	e.state.IsRunning = false

	select {
	case e.completions <- Completion{Mode: finished, DurationSeconds: duration}:
	default:
	}

	if finished == model.ModeFocus {
		session := model.Session{
			ID:          uuid.NewString(),
			Mode:        model.ModeFocus,
			Duration:    duration,
			CompletedAt: e.clk.Now().UnixMilli(),
		}
		e.recorder.Record(session)
		e.log.Info("focus session complete", zap.Int("duration", duration))
		e.switchModeLocked(model.ModeShortBreak)
		return
	}

	e.log.Info("break complete", zap.String("mode", string(finished)))
	e.switchModeLocked(model.ModeFocus)
}

func (e *Engine) switchModeLocked(mode model.TimerMode) {
	e.state.Mode = mode
	e.state.IsRunning = false
	e.state.RemainingSeconds = e.settings.DurationSeconds(mode)
}

func (e *Engine) reschedule() {
	select {
	case e.rescheduleC <- struct{}{}:
	default:
	}
}
