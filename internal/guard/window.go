package guard

import (
	"time"

	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/pkg/utils"
)

// WindowManager performs the lazy daily and monthly counter resets. Calendar
// boundaries are taken in a single configured location for every tenant.
type WindowManager struct {
	loc *time.Location
}

func NewWindowManager(loc *time.Location) *WindowManager {
	if loc == nil {
		loc = time.UTC
	}
	return &WindowManager{loc: loc}
}

func (w *WindowManager) Location() *time.Location {
	return w.loc
}

// Normalize zeroes counters whose window has rolled over since the last reset.
// It is idempotent within a window. A clock that moved backwards never
// triggers a reset, so reset timestamps only move forward.
func (w *WindowManager) Normalize(t *domain.Tenant, now time.Time) domain.WindowReset {
	reset := domain.WindowReset{
		At:         now,
		DayStart:   utils.StartOfDay(now, w.loc),
		MonthStart: utils.StartOfMonth(now, w.loc),
	}

	u := &t.Usage
	if u.LastDailyResetAt == nil || utils.DayKey(*u.LastDailyResetAt, w.loc) < utils.DayKey(now, w.loc) {
		u.ResetDaily(now)
		reset.Daily = true
	}
	if u.LastMonthlyResetAt == nil || utils.MonthKey(*u.LastMonthlyResetAt, w.loc) < utils.MonthKey(now, w.loc) {
		u.ResetMonthly(now)
		reset.Monthly = true
	}
	return reset
}

// UntilDailyReset is the time left before the next local midnight.
func (w *WindowManager) UntilDailyReset(now time.Time) time.Duration {
	next := utils.StartOfDay(now, w.loc).AddDate(0, 0, 1)
	return next.Sub(now)
}
