package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zenfocus/internal/clock"
	"zenfocus/internal/model"
)

type fakeRecorder struct {
	sessions []model.Session
}

func (r *fakeRecorder) Record(session model.Session) {
	r.sessions = append(r.sessions, session)
}

func testSettings() model.Settings {
	return model.Settings{
		FocusDuration:      25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		DailyGoalHours:     4,
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeRecorder, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))
	recorder := &fakeRecorder{}
	engine := NewEngine(clk, recorder, testSettings(), zap.NewNop())
	return engine, recorder, clk
}

func TestInitialState(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	state := engine.State()
	assert.Equal(t, model.ModeFocus, state.Mode)
	assert.Equal(t, 25*60, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
}

func TestTickDecrementsByOne(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	engine.ToggleRunning()

	for i := 1; i <= 10; i++ {
		engine.Tick()
		assert.Equal(t, 25*60-i, engine.State().RemainingSeconds)
	}
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	engine.Tick()
	assert.Equal(t, 25*60, engine.State().RemainingSeconds)
}

func TestFocusCompletionRecordsSessionAndSwitchesToShortBreak(t *testing.T) {
	engine, recorder, _ := newTestEngine(t)
	engine.ToggleRunning()

	for i := 0; i < 25*60; i++ {
		engine.Tick()
	}

	require.Len(t, recorder.sessions, 1)
	session := recorder.sessions[0]
	assert.Equal(t, model.ModeFocus, session.Mode)
	assert.Equal(t, 1500, session.Duration)
	assert.NotEmpty(t, session.ID)

	state := engine.State()
	assert.Equal(t, model.ModeShortBreak, state.Mode)
	assert.Equal(t, 300, state.RemainingSeconds)
	assert.False(t, state.IsRunning)

	select {
	case completion := <-engine.Completions():
		assert.Equal(t, model.ModeFocus, completion.Mode)
		assert.Equal(t, 1500, completion.DurationSeconds)
	default:
		t.Fatal("expected a completion event")
	}
}

func TestBreakCompletionSwitchesToFocusWithoutRecording(t *testing.T) {
	engine, recorder, _ := newTestEngine(t)
	engine.SwitchMode(model.ModeShortBreak)
	engine.ToggleRunning()

	for i := 0; i < 5*60; i++ {
		engine.Tick()
	}

	assert.Empty(t, recorder.sessions)

	state := engine.State()
	assert.Equal(t, model.ModeFocus, state.Mode)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
}

func TestSessionTimestampUsesClock(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))
	recorder := &fakeRecorder{}
	engine := NewEngine(clk, recorder, testSettings(), zap.NewNop())
	engine.ToggleRunning()

	for i := 0; i < 25*60; i++ {
		engine.Tick()
	}

	require.Len(t, recorder.sessions, 1)
	assert.Equal(t, clk.Now().UnixMilli(), recorder.sessions[0].CompletedAt)
}

func TestSwitchModeAbandonsWithoutRecording(t *testing.T) {
	engine, recorder, _ := newTestEngine(t)
	engine.ToggleRunning()
	for i := 0; i < 100; i++ {
		engine.Tick()
	}

	engine.SwitchMode(model.ModeLongBreak)

	assert.Empty(t, recorder.sessions)
	state := engine.State()
	assert.Equal(t, model.ModeLongBreak, state.Mode)
	assert.Equal(t, 15*60, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
}

func TestResetRestoresConfiguredDuration(t *testing.T) {
	engine, recorder, _ := newTestEngine(t)
	engine.ToggleRunning()
	for i := 0; i < 42; i++ {
		engine.Tick()
	}

	engine.Reset()

	assert.Empty(t, recorder.sessions)
	state := engine.State()
	assert.Equal(t, model.ModeFocus, state.Mode)
	assert.Equal(t, 25*60, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
}

func TestStaleTickCannotTouchNewMode(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	engine.ToggleRunning()
	engine.SwitchMode(model.ModeShortBreak)

	// A tick queued before the switch arrives late; the switch left the
	// timer paused, so it must not decrement the break countdown.
	engine.Tick()
	assert.Equal(t, 300, engine.State().RemainingSeconds)
}

func TestApplySettingsWhileIdleRederivesRemaining(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	settings := testSettings()
	settings.FocusDuration = 50
	engine.ApplySettings(settings)

	assert.Equal(t, 50*60, engine.State().RemainingSeconds)
}

func TestApplySettingsWhileRunningLeavesCountdownAlone(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	engine.ToggleRunning()
	engine.Tick()

	settings := testSettings()
	settings.FocusDuration = 50
	engine.ApplySettings(settings)

	assert.Equal(t, 25*60-1, engine.State().RemainingSeconds)

	// The new duration applies on the next reset.
	engine.Reset()
	assert.Equal(t, 50*60, engine.State().RemainingSeconds)
}

func TestApplySettingsRejectsNonPositiveValues(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	engine.ApplySettings(model.Settings{FocusDuration: 0, ShortBreakDuration: 5, LongBreakDuration: 15, DailyGoalHours: 4})

	assert.Equal(t, testSettings(), engine.Settings())
}

func TestRemainingNeverGoesNegative(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	engine.ToggleRunning()

	for i := 0; i < 25*60+50; i++ {
		engine.Tick()
	}

	assert.GreaterOrEqual(t, engine.State().RemainingSeconds, 0)
}
