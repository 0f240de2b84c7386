package utils

import (
	"fmt"
	"time"
)

// ParseUserTime parses a time string that can be either RFC3339 or YYYY-MM-DD format.
// For YYYY-MM-DD format, if isEndTime is true, it will set the time to end of day (23:59:59).
func ParseUserTime(timeStr string, isEndTime bool) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse("2006-01-02", timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format, expected RFC3339 or YYYY-MM-DD, got %s", timeStr)
	}

	if isEndTime {
		t = t.Add(24*time.Hour - time.Second)
	}

	return t, nil
}

// DayKey returns yyyymmdd of t in loc, so calendar days compare as integers.
func DayKey(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return y*10000 + int(m)*100 + d
}

// MonthKey returns yyyymm of t in loc.
func MonthKey(t time.Time, loc *time.Location) int {
	y, m, _ := t.In(loc).Date()
	return y*100 + int(m)
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// StartOfMonth returns local midnight of the first day of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	y, m, _ := t.In(loc).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, loc)
}
