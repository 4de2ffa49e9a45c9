package timewindow_test

import (
	"testing"
	"time"

	"go-incentive/internal/timewindow"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestIsAtOrBefore(t *testing.T) {
	morning := timewindow.Cutoff{Hour: 8, Minute: 0}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"well before", at(7, 45), true},
		{"exactly on the cutoff", at(8, 0), true},
		{"one minute past", at(8, 1), false},
		{"same minute later second", at(8, 0).Add(59 * time.Second), true},
		{"midnight", at(0, 0), true},
		{"late morning", at(9, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timewindow.IsAtOrBefore(tt.t, morning))
		})
	}
}

func TestIsAtOrAfter(t *testing.T) {
	evening := timewindow.Cutoff{Hour: 19, Minute: 0}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"well after", at(19, 5), true},
		{"exactly on the cutoff", at(19, 0), true},
		{"one minute early", at(18, 59), false},
		{"afternoon", at(18, 0), false},
		{"just before midnight", at(23, 59), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timewindow.IsAtOrAfter(tt.t, evening))
		})
	}
}

func TestCustomCutoffBoundaries(t *testing.T) {
	c := timewindow.Cutoff{Hour: 9, Minute: 30}

	assert.True(t, timewindow.IsAtOrBefore(at(9, 30), c))
	assert.False(t, timewindow.IsAtOrBefore(at(9, 31), c))
	assert.True(t, timewindow.IsAtOrAfter(at(9, 30), c))
	assert.False(t, timewindow.IsAtOrAfter(at(9, 29), c))
}

func TestBusinessDate(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	local := time.Date(2025, time.March, 11, 2, 30, 0, 0, loc) // 2025-03-10 19:30 UTC

	got := timewindow.BusinessDate(local)
	assert.Equal(t, "2025-03-10", timewindow.FormatDate(got))
	assert.Equal(t, time.UTC, got.Location())
	assert.Zero(t, got.Hour())
}

func TestMonthRange(t *testing.T) {
	start := timewindow.MonthStart(2025, time.January)
	end := timewindow.MonthEnd(2025, time.January)

	assert.Equal(t, "2025-01-01", timewindow.FormatDate(start))
	assert.Equal(t, "2025-02-01", timewindow.FormatDate(end))

	// December rolls into the next year.
	assert.Equal(t, "2026-01-01", timewindow.FormatDate(timewindow.MonthEnd(2025, time.December)))
}

func TestValidMonth(t *testing.T) {
	assert.True(t, timewindow.ValidMonth(2025, 1))
	assert.True(t, timewindow.ValidMonth(2025, 12))
	assert.False(t, timewindow.ValidMonth(2025, 0))
	assert.False(t, timewindow.ValidMonth(2025, 13))
	assert.False(t, timewindow.ValidMonth(199, 6))
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MORNING_CUTOFF_HOUR", "")
	t.Setenv("MORNING_CUTOFF_MINUTE", "")
	t.Setenv("EVENING_CUTOFF_HOUR", "")
	t.Setenv("EVENING_CUTOFF_MINUTE", "")

	cfg := timewindow.FromEnv()
	assert.Equal(t, timewindow.DefaultMorning, cfg.Morning)
	assert.Equal(t, timewindow.DefaultEvening, cfg.Evening)
}

func TestFromEnvOverridesAndBadValues(t *testing.T) {
	t.Setenv("MORNING_CUTOFF_HOUR", "9")
	t.Setenv("MORNING_CUTOFF_MINUTE", "15")
	t.Setenv("EVENING_CUTOFF_HOUR", "not-a-number")
	t.Setenv("EVENING_CUTOFF_MINUTE", "75")

	cfg := timewindow.FromEnv()
	assert.Equal(t, timewindow.Cutoff{Hour: 9, Minute: 15}, cfg.Morning)
	assert.Equal(t, timewindow.DefaultEvening, cfg.Evening)
}
