// Package timefmt renders message timestamps, playback positions and
// activity durations the way the chat client displays them.
package timefmt

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * 60
	secondsPerDay    = 24 * secondsPerHour
	secondsPerWeek   = 7 * secondsPerDay
	secondsPerMonth  = 2629743
	secondsPerYear   = 31556926
)

// en-GB abbreviations; September is "Sept" in that locale.
var shortMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sept", "Oct", "Nov", "Dec",
}

type Formatter struct {
	Now      func() time.Time
	Location *time.Location
}

func New() *Formatter {
	return &Formatter{
		Now:      time.Now,
		Location: time.Local,
	}
}

// Fixed returns a formatter frozen at now, in now's location.
func Fixed(now time.Time) *Formatter {
	return &Formatter{
		Now:      func() time.Time { return now },
		Location: now.Location(),
	}
}

func (f *Formatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f *Formatter) now() time.Time {
	if f.Now == nil {
		return time.Now().In(f.location())
	}
	return f.Now().In(f.location())
}

// elapsedSeconds is now - ts in fractional seconds, at millisecond precision.
func (f *Formatter) elapsedSeconds(ts time.Time) float64 {
	return float64(f.now().UnixMilli()-ts.UnixMilli()) / 1000
}

func (f *Formatter) FormatTimestamp(ts time.Time) string {
	now := f.now()
	date := ts.In(f.location())
	clock := fmt.Sprintf("%02d:%02d", date.Hour(), date.Minute())

	sameYear := now.Year() == date.Year()
	if sameYear && sameDay(now, date) {
		return clock
	}
	if sameYear && sameDay(now.AddDate(0, 0, -1), date) {
		return "Yesterday at " + clock
	}
	return fmt.Sprintf("%02d %s %d at %s", date.Day(), shortMonths[date.Month()-1], date.Year(), clock)
}

func (f *Formatter) TimeSince(ts time.Time, showSeconds bool) string {
	secondsPast := math.Abs(f.elapsedSeconds(ts))
	switch {
	case secondsPast < secondsPerMinute:
		if showSeconds {
			return fmt.Sprintf("%d seconds ago", int64(secondsPast))
		}
		return "few seconds ago"
	case secondsPast < secondsPerHour:
		return fmt.Sprintf("%d minutes ago", int64(secondsPast/secondsPerMinute))
	case secondsPast <= secondsPerDay:
		return fmt.Sprintf("%d hours ago", int64(secondsPast/secondsPerHour))
	}
	return f.FormatTimestamp(ts)
}

// TimeElapsed renders the time since ts as [HH:]MM:SS. When updatedAt is set the
// position is treated as media playing at speed since the seek at updatedAt.
func (f *Formatter) TimeElapsed(ts time.Time, onlyPadSeconds bool, speed float64, updatedAt *time.Time) string {
	seconds := f.elapsedSeconds(ts)

	// An unset seek may arrive as the zero time or as the Unix epoch.
	if updatedAt != nil && !updatedAt.IsZero() && updatedAt.UnixMilli() != 0 {
		seeked := float64(updatedAt.UnixMilli()-ts.UnixMilli()) / 1000
		seekedSpeed := -(seeked - seeked*speed)
		seconds = seconds*speed - seekedSpeed
	}

	return clockString(int64(math.Floor(seconds)), onlyPadSeconds)
}

func (f *Formatter) CalculateTimeElapsedForActivityStatus(start time.Time, music bool, speed float64, updatedAt *time.Time) string {
	if music {
		return f.TimeElapsed(start, true, speed, updatedAt)
	}
	return activityDuration(f.elapsedSeconds(start))
}

func (f *Formatter) TimeSinceMentions(ts time.Time) string {
	raw := f.elapsedSeconds(ts)
	secondsPast := math.Abs(raw)
	s := int64(secondsPast)

	text := func(value string) string {
		if raw < 0 {
			return "In " + value
		}
		return value + " ago"
	}

	switch {
	case secondsPast < secondsPerMinute:
		return text(fmt.Sprintf("%d seconds", s))
	case secondsPast < secondsPerHour:
		return text(fmt.Sprintf("%d minutes %d seconds", s/secondsPerMinute, s%60))
	case secondsPast <= secondsPerDay:
		return text(fmt.Sprintf("%d hours %d minutes", s/secondsPerHour, (s/secondsPerMinute)%60))
	case secondsPast <= secondsPerWeek:
		return text(fmt.Sprintf("%d days %d hours", s/secondsPerDay, (s/secondsPerHour)%24))
	case secondsPast <= secondsPerMonth:
		return text(fmt.Sprintf("%d weeks %d days", s/secondsPerWeek, (s/secondsPerDay)%7))
	case secondsPast <= secondsPerYear:
		return text(fmt.Sprintf("%d months %d weeks", s/secondsPerMonth, (s/secondsPerWeek)%4))
	}
	return text(fmt.Sprintf("%d years", s/secondsPerYear))
}

// DaysAgo phrases the rounded day distance to ts: "today", "yesterday",
// "tomorrow", "3 days ago", "in 2 days".
func (f *Formatter) DaysAgo(ts time.Time) string {
	const msPerDay = 1000 * secondsPerDay
	days := int64(jsRound(float64(ts.UnixMilli()-f.now().UnixMilli()) / msPerDay))

	switch {
	case days == 0:
		return "today"
	case days == -1:
		return "yesterday"
	case days == 1:
		return "tomorrow"
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	}
	return fmt.Sprintf("in %d days", days)
}

func MillisecondsToHhMmSs(ms int64, onlyPadSeconds bool) string {
	return clockString(floorDiv(ms, 1000), onlyPadSeconds)
}

func MillisecondsToReadable(ms int64) string {
	hours, minutes, seconds := split(floorDiv(ms, 1000))

	var parts []string
	if hours != 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes != 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds != 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

func clockString(total int64, onlyPadSeconds bool) string {
	width := 2
	if onlyPadSeconds {
		width = 1
	}

	hours, minutes, seconds := split(total)

	var b strings.Builder
	if hours != 0 {
		fmt.Fprintf(&b, "%0*d:", width, hours)
	}
	fmt.Fprintf(&b, "%0*d:%02d", width, minutes, seconds)
	return b.String()
}

func split(total int64) (hours, minutes, seconds int64) {
	hours = floorDiv(total, secondsPerHour)
	minutes = floorDiv(total-hours*secondsPerHour, secondsPerMinute)
	seconds = total - hours*secondsPerHour - minutes*secondsPerMinute
	return hours, minutes, seconds
}

func activityDuration(total float64) string {
	days := math.Floor(total / secondsPerDay)
	total = math.Mod(total, secondsPerDay)
	hours := math.Floor(total / secondsPerHour)
	total = math.Mod(total, secondsPerHour)
	minutes := math.Floor(total / secondsPerMinute)
	seconds := int64(jsRound(math.Mod(total, secondsPerMinute)))

	switch {
	case days != 0:
		return fmt.Sprintf("%dd %dh", int64(days), int64(hours))
	case hours != 0:
		return fmt.Sprintf("%dh %dm", int64(hours), int64(minutes))
	case minutes != 0:
		return fmt.Sprintf("%d %s", int64(minutes), plural("minute", int64(minutes)))
	}
	return fmt.Sprintf("%d %s", seconds, plural("second", seconds))
}

func plural(unit string, n int64) string {
	if n <= 1 {
		return unit
	}
	return unit + "s"
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// jsRound rounds half up, toward positive infinity.
func jsRound(x float64) float64 {
	return math.Floor(x + 0.5)
}
