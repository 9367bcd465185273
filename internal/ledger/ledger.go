// Package ledger keeps the append-only history of completed sessions and
// derives the daily-goal aggregates from it.
package ledger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"zenfocus/internal/gateway"
	"zenfocus/internal/model"
)

// Ledger owns the in-memory history for the lifetime of the process. The
// in-memory view is the source of truth; durable writes are optimistic and
// their failures never remove an entry.
type Ledger struct {
	gw  *gateway.Gateway
	log *zap.Logger

	mu      sync.RWMutex
	entries []model.Session
}

func New(gw *gateway.Gateway, log *zap.Logger) *Ledger {
	return &Ledger{gw: gw, log: log}
}

// Load seeds the history from the persistence gateway. Entries arrive in
// chronological ascending order and are kept that way.
func (l *Ledger) Load(ctx context.Context) {
	sessions := l.gw.GetSessions(ctx)
	l.mu.Lock()
	l.entries = sessions
	l.mu.Unlock()
}

// Record appends the session to the in-memory history immediately, then
// hands it to the gateway for durable local + best-effort remote storage.
// The optimistic entry stays regardless of what the gateway does.
func (l *Ledger) Record(session model.Session) {
	l.mu.Lock()
	l.entries = append(l.entries, session)
	l.mu.Unlock()

	l.log.Debug("session recorded",
		zap.String("mode", string(session.Mode)),
		zap.Int("duration", session.Duration))
	l.gw.AppendSession(session)
}

// Entries returns a copy of the history in chronological order.
func (l *Ledger) Entries() []model.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := make([]model.Session, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// DailyFocusSeconds sums the duration of focus sessions completed at or
// after local midnight of now.
func (l *Ledger) DailyFocusSeconds(now time.Time) int {
	start := startOfDay(now)
	startMillis := start.UnixMilli()

	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0
	for _, entry := range l.entries {
		if entry.Mode == model.ModeFocus && entry.CompletedAt >= startMillis {
			total += entry.Duration
		}
	}
	return total
}

// ProgressPercent reports progress toward the daily goal, clamped to
// [0, 100]. A zero or negative goal yields 0 rather than dividing by zero.
func (l *Ledger) ProgressPercent(goalHours float64, now time.Time) float64 {
	if goalHours <= 0 {
		return 0
	}
	percent := 100 * float64(l.DailyFocusSeconds(now)) / (goalHours * 3600)
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}

func startOfDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
