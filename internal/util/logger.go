package util

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Log logs a message if verbose is true.
func Log(verbose bool, format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// ProgressLogger tracks and prints progress over a known number of events.
// It is not safe for concurrent use.
type ProgressLogger struct {
	totalEvents    uint64
	prefix         string
	loggedEvents   uint64
	logStep        uint64
	nextEventToLog uint64
	enabled        bool
	out            io.Writer
	startTime      time.Time
}

// NewProgressLogger creates a new progress logger writing to stderr.
func NewProgressLogger(totalEvents uint64, prefix string, enable bool) *ProgressLogger {
	return NewProgressLoggerTo(os.Stderr, totalEvents, prefix, enable)
}

// NewProgressLoggerTo creates a progress logger writing to out.
func NewProgressLoggerTo(out io.Writer, totalEvents uint64, prefix string, enable bool) *ProgressLogger {
	pl := &ProgressLogger{
		totalEvents: totalEvents,
		prefix:      prefix,
		enabled:     enable,
		out:         out,
		startTime:   time.Now(),
	}

	percFraction := uint64(20) // 5% steps
	if totalEvents >= 100_000_000 {
		percFraction = 100
	}
	pl.logStep = (totalEvents + percFraction - 1) / percFraction
	if pl.logStep == 0 {
		pl.logStep = 1
	}
	pl.nextEventToLog = pl.logStep
	return pl
}

// Log counts one event and prints when the next step is reached.
func (pl *ProgressLogger) Log() {
	pl.loggedEvents++
	if !pl.enabled || pl.loggedEvents < pl.nextEventToLog {
		return
	}
	pl.print()
	pl.nextEventToLog += pl.logStep
}

// Events returns the number of events counted so far.
func (pl *ProgressLogger) Events() uint64 {
	return pl.loggedEvents
}

// Finalize prints the final count and elapsed time.
func (pl *ProgressLogger) Finalize() {
	if !pl.enabled {
		return
	}
	fmt.Fprintf(pl.out, "%s%d/%d done (%.2fs)\n", pl.prefix, pl.loggedEvents, pl.totalEvents,
		time.Since(pl.startTime).Seconds())
}

func (pl *ProgressLogger) print() {
	perc := uint64(100)
	if pl.totalEvents > 0 {
		perc = (100 * pl.loggedEvents) / pl.totalEvents
	}
	fmt.Fprintf(pl.out, "%s%d%%\n", pl.prefix, perc)
}
