package timefmt

import "time"

var Default = New()

func FormatTimestamp(ts time.Time) string {
	return Default.FormatTimestamp(ts)
}

func TimeSince(ts time.Time, showSeconds bool) string {
	return Default.TimeSince(ts, showSeconds)
}

func TimeElapsed(ts time.Time, onlyPadSeconds bool, speed float64, updatedAt *time.Time) string {
	return Default.TimeElapsed(ts, onlyPadSeconds, speed, updatedAt)
}

func CalculateTimeElapsedForActivityStatus(start time.Time, music bool, speed float64, updatedAt *time.Time) string {
	return Default.CalculateTimeElapsedForActivityStatus(start, music, speed, updatedAt)
}

func TimeSinceMentions(ts time.Time) string {
	return Default.TimeSinceMentions(ts)
}

func DaysAgo(ts time.Time) string {
	return Default.DaysAgo(ts)
}
