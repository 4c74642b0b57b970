package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/Alexander-D-Karpov/concord-client/internal/timefmt"
)

func handleFormat(w io.Writer, args []string, music bool, speed float64, duration int64) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one unix-ms timestamp")
	}
	ms, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", args[0], err)
	}

	return printFormats(w, timefmt.Default, time.UnixMilli(ms), music, speed, duration)
}

func printFormats(w io.Writer, f *timefmt.Formatter, ts time.Time, music bool, speed float64, duration int64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"timestamp", f.FormatTimestamp(ts)},
		{"since", f.TimeSince(ts, true)},
		{"mentions", f.TimeSinceMentions(ts)},
		{"days", f.DaysAgo(ts)},
		{"elapsed", f.TimeElapsed(ts, false, speed, nil)},
		{"activity", f.CalculateTimeElapsedForActivityStatus(ts, music, speed, nil)},
	}
	if duration > 0 {
		rows = append(rows,
			[2]string{"clock", timefmt.MillisecondsToHhMmSs(duration, false)},
			[2]string{"readable", timefmt.MillisecondsToReadable(duration)},
		)
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
