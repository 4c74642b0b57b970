package timefmt_test

import (
	"testing"
	"time"

	"github.com/Alexander-D-Karpov/concord-client/internal/timefmt"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func ago(d time.Duration) time.Time {
	return now.Add(-d)
}

func TestFormatTimestamp(t *testing.T) {
	f := timefmt.Fixed(now)

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{name: "now", ts: now, want: "14:30"},
		{name: "earlier today", ts: time.Date(2024, time.March, 15, 0, 5, 0, 0, time.UTC), want: "00:05"},
		{name: "yesterday", ts: time.Date(2024, time.March, 14, 9, 5, 0, 0, time.UTC), want: "Yesterday at 09:05"},
		{name: "two days ago", ts: time.Date(2024, time.March, 13, 9, 5, 0, 0, time.UTC), want: "13 Mar 2024 at 09:05"},
		{name: "prior year", ts: time.Date(2023, time.December, 31, 8, 0, 0, 0, time.UTC), want: "31 Dec 2023 at 08:00"},
		{name: "september abbreviation", ts: time.Date(2023, time.September, 5, 18, 45, 0, 0, time.UTC), want: "05 Sept 2023 at 18:45"},
		{name: "same day last year", ts: time.Date(2023, time.March, 15, 14, 30, 0, 0, time.UTC), want: "15 Mar 2023 at 14:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatTimestamp(tt.ts))
		})
	}
}

func TestFormatTimestampYesterdayAcrossYear(t *testing.T) {
	newYear := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	f := timefmt.Fixed(newYear)

	got := f.FormatTimestamp(time.Date(2023, time.December, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "31 Dec 2023 at 23:59", got)
}

func TestFormatTimestampUsesLocation(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	f := &timefmt.Formatter{Now: func() time.Time { return now }, Location: zone}

	assert.Equal(t, "17:30", f.FormatTimestamp(now))
}

func TestTimeSince(t *testing.T) {
	f := timefmt.Fixed(now)

	tests := []struct {
		name        string
		ts          time.Time
		showSeconds bool
		want        string
	}{
		{name: "seconds shown", ts: ago(30 * time.Second), showSeconds: true, want: "30 seconds ago"},
		{name: "seconds hidden", ts: ago(30 * time.Second), want: "few seconds ago"},
		{name: "minutes", ts: ago(5*time.Minute + 10*time.Second), want: "5 minutes ago"},
		{name: "hours", ts: ago(3*time.Hour + 59*time.Minute), want: "3 hours ago"},
		{name: "exactly one day", ts: ago(24 * time.Hour), want: "24 hours ago"},
		{name: "older falls back to timestamp", ts: ago(48 * time.Hour), want: "13 Mar 2024 at 14:30"},
		{name: "future uses distance", ts: now.Add(2 * time.Minute), want: "2 minutes ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.TimeSince(tt.ts, tt.showSeconds))
		})
	}
}

func TestTimeElapsed(t *testing.T) {
	f := timefmt.Fixed(now)

	assert.Equal(t, "01:30", f.TimeElapsed(ago(90*time.Second), false, 1, nil))
	assert.Equal(t, "00:00", f.TimeElapsed(now, false, 1, nil))
	assert.Equal(t, "01:02:05", f.TimeElapsed(ago(3725*time.Second), false, 1, nil))
	assert.Equal(t, "1:02:05", f.TimeElapsed(ago(3725*time.Second), true, 1, nil))
	assert.Equal(t, "1:30", f.TimeElapsed(ago(90*time.Second+999*time.Millisecond), true, 1, nil))
}

func TestTimeElapsedTreatsEpochSeekAsUnset(t *testing.T) {
	f := timefmt.Fixed(now)
	start := ago(100 * time.Second)
	epoch := time.UnixMilli(0)
	zero := time.Time{}

	want := f.TimeElapsed(start, false, 2, nil)
	assert.Equal(t, "01:40", want)
	assert.Equal(t, want, f.TimeElapsed(start, false, 2, &epoch))
	assert.Equal(t, want, f.TimeElapsed(start, false, 2, &zero))
}

func TestTimeElapsedWithSpeedAndSeek(t *testing.T) {
	f := timefmt.Fixed(now)
	start := ago(100 * time.Second)
	seek := start.Add(40 * time.Second)

	// 40s at normal speed, then 60s at double speed.
	assert.Equal(t, "02:40", f.TimeElapsed(start, false, 2, &seek))

	zero := time.Time{}
	assert.Equal(t, "01:40", f.TimeElapsed(start, false, 2, &zero))
}

func TestMillisecondsToHhMmSs(t *testing.T) {
	assert.Equal(t, "01:02:05", timefmt.MillisecondsToHhMmSs(3725000, false))
	assert.Equal(t, "1:05", timefmt.MillisecondsToHhMmSs(65000, true))
	assert.Equal(t, "00:00", timefmt.MillisecondsToHhMmSs(999, false))
	assert.Equal(t, "10:00:00", timefmt.MillisecondsToHhMmSs(36000000, false))
}

func TestMillisecondsToReadable(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{ms: 5400000, want: "1h 30m"},
		{ms: 3661000, want: "1h 1m 1s"},
		{ms: 45000, want: "45s"},
		{ms: 7200000, want: "2h"},
		{ms: 0, want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, timefmt.MillisecondsToReadable(tt.ms), "ms=%d", tt.ms)
	}
}

func TestCalculateTimeElapsedForActivityStatus(t *testing.T) {
	f := timefmt.Fixed(now)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{name: "days and hours", elapsed: 2*24*time.Hour + 3*time.Hour + 10*time.Minute, want: "2d 3h"},
		{name: "hours and minutes", elapsed: time.Hour + 5*time.Minute, want: "1h 5m"},
		{name: "single minute", elapsed: 60 * time.Second, want: "1 minute"},
		{name: "minutes", elapsed: 125 * time.Second, want: "2 minutes"},
		{name: "single second", elapsed: time.Second, want: "1 second"},
		{name: "zero seconds", elapsed: 0, want: "0 second"},
		{name: "rounded seconds", elapsed: 44*time.Second + 600*time.Millisecond, want: "45 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.CalculateTimeElapsedForActivityStatus(ago(tt.elapsed), false, 1, nil))
		})
	}

	assert.Equal(t, "1:30", f.CalculateTimeElapsedForActivityStatus(ago(90*time.Second), true, 1, nil))
}

func TestTimeSinceMentions(t *testing.T) {
	f := timefmt.Fixed(now)

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{name: "seconds", ts: ago(30 * time.Second), want: "30 seconds ago"},
		{name: "future", ts: now.Add(90 * time.Second), want: "In 1 minutes 30 seconds"},
		{name: "hours", ts: ago(2*time.Hour + 5*time.Minute), want: "2 hours 5 minutes ago"},
		{name: "days", ts: ago(3*24*time.Hour + 4*time.Hour), want: "3 days 4 hours ago"},
		{name: "weeks", ts: ago(10 * 24 * time.Hour), want: "1 weeks 3 days ago"},
		{name: "months", ts: ago(60 * 24 * time.Hour), want: "1 months 0 weeks ago"},
		{name: "years", ts: ago(2*31556926*time.Second + time.Hour), want: "2 years ago"},
		{name: "one minute", ts: ago(60 * time.Second), want: "1 minutes 0 seconds ago"},
		{name: "one hour", ts: ago(3600 * time.Second), want: "1 hours 0 minutes ago"},
		{name: "one day", ts: ago(86400 * time.Second), want: "24 hours 0 minutes ago"},
		{name: "one week", ts: ago(604800 * time.Second), want: "7 days 0 hours ago"},
		{name: "one month", ts: ago(2629743 * time.Second), want: "4 weeks 2 days ago"},
		{name: "one year", ts: ago(31556926 * time.Second), want: "12 months 0 weeks ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.TimeSinceMentions(tt.ts))
		})
	}
}

func TestDaysAgo(t *testing.T) {
	f := timefmt.Fixed(now)
	day := 24 * time.Hour

	assert.Equal(t, "today", f.DaysAgo(now))
	assert.Equal(t, "yesterday", f.DaysAgo(ago(day)))
	assert.Equal(t, "tomorrow", f.DaysAgo(now.Add(day)))
	assert.Equal(t, "3 days ago", f.DaysAgo(ago(3*day)))
	assert.Equal(t, "in 2 days", f.DaysAgo(now.Add(2*day)))
}
