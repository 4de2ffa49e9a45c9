package timewindow

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cutoff is a wall-clock boundary (hour and minute, 24h).
type Cutoff struct {
	Hour   int
	Minute int
}

func (c Cutoff) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Default cutoffs: morning <= 08:00, evening >= 19:00.
var (
	DefaultMorning = Cutoff{Hour: 8, Minute: 0}
	DefaultEvening = Cutoff{Hour: 19, Minute: 0}
)

// Config carries the morning/evening cutoffs used by the accrual and claim
// computation engines.
type Config struct {
	Morning Cutoff
	Evening Cutoff
}

// FromEnv reads MORNING_CUTOFF_HOUR/MINUTE and EVENING_CUTOFF_HOUR/MINUTE,
// falling back to the defaults for anything unset or unparseable.
func FromEnv() Config {
	return Config{
		Morning: Cutoff{
			Hour:   envInt("MORNING_CUTOFF_HOUR", DefaultMorning.Hour, 0, 23),
			Minute: envInt("MORNING_CUTOFF_MINUTE", DefaultMorning.Minute, 0, 59),
		},
		Evening: Cutoff{
			Hour:   envInt("EVENING_CUTOFF_HOUR", DefaultEvening.Hour, 0, 23),
			Minute: envInt("EVENING_CUTOFF_MINUTE", DefaultEvening.Minute, 0, 59),
		},
	}
}

func envInt(key string, fallback, min, max int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return fallback
	}
	return v
}

// IsAtOrBefore reports whether t's hour/minute is at or before the cutoff.
// Exactly the cutoff minute still qualifies.
func IsAtOrBefore(t time.Time, c Cutoff) bool {
	return t.Hour() < c.Hour || (t.Hour() == c.Hour && t.Minute() <= c.Minute)
}

// IsAtOrAfter reports whether t's hour/minute is at or after the cutoff.
// Exactly the cutoff minute still qualifies.
func IsAtOrAfter(t time.Time, c Cutoff) bool {
	return t.Hour() > c.Hour || (t.Hour() == c.Hour && t.Minute() >= c.Minute)
}

// BusinessDate is the UTC calendar day used as the crediting key. Attendance
// timestamps and credit-event dates must both derive from it so the two
// ledgers never drift apart.
func BusinessDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a business date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MonthStart returns the first instant of the given month in UTC.
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the first instant of the following month, so month
// queries can use a half-open [start, end) range.
func MonthEnd(year int, month time.Month) time.Time {
	return MonthStart(year, month).AddDate(0, 1, 0)
}

// ValidMonth reports whether year/month form a plausible query range.
func ValidMonth(year, month int) bool {
	return year >= 2000 && year <= 9999 && month >= 1 && month <= 12
}

// Clock supplies "now" to the engines; injectable for tests.
type Clock func() time.Time

// UTCNow is the production clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}
