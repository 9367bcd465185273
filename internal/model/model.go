package model

// TimerMode identifies which countdown the timer is running.
type TimerMode string

const (
	ModeFocus      TimerMode = "focus"
	ModeShortBreak TimerMode = "shortBreak"
	ModeLongBreak  TimerMode = "longBreak"
)

// ValidMode reports whether mode is one of the three timer modes.
func ValidMode(mode TimerMode) bool {
	return mode == ModeFocus || mode == ModeShortBreak || mode == ModeLongBreak
}

// Theme ids known to the client. The server stores whatever string it is
// given; only the client constrains the choice.
const (
	ThemeNature  = "nature"
	ThemeLofi    = "lofi"
	ThemeTech    = "tech"
	ThemeVintage = "vintage"
)

// Settings holds the user-tunable timer durations (minutes) and the daily
// focus goal (hours). All four values must be positive.
type Settings struct {
	FocusDuration      int     `json:"focusDuration"`
	ShortBreakDuration int     `json:"shortBreakDuration"`
	LongBreakDuration  int     `json:"longBreakDuration"`
	DailyGoalHours     float64 `json:"dailyGoalHours"`
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{
		FocusDuration:      25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		DailyGoalHours:     4,
	}
}

// Validate reports whether every field is positive.
func (s Settings) Validate() bool {
	return s.FocusDuration > 0 &&
		s.ShortBreakDuration > 0 &&
		s.LongBreakDuration > 0 &&
		s.DailyGoalHours > 0
}

// DurationSeconds returns the configured countdown length for mode.
func (s Settings) DurationSeconds(mode TimerMode) int {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakDuration * 60
	case ModeLongBreak:
		return s.LongBreakDuration * 60
	default:
		return s.FocusDuration * 60
	}
}

// Session is one completed countdown. Duration is the configured duration
// for the mode at record time, in seconds, not measured wall time.
// CompletedAt is epoch milliseconds. Sessions are immutable once recorded.
type Session struct {
	ID          string    `json:"id"`
	Mode        TimerMode `json:"mode"`
	Duration    int       `json:"duration"`
	CompletedAt int64     `json:"completedAt"`
}

// Task is a to-do list entry. CreatedAt is epoch milliseconds.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}
