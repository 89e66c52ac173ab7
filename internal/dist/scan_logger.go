package dist

import (
	"sync"
	"time"

	"ascigo/internal/util"
)

// ScanLogger reports progress of a cost scan. It is safe for concurrent use.
type ScanLogger struct {
	name     string
	total    uint64
	step     uint64
	enabled  bool
	callback func(done, total uint64)

	mu          sync.Mutex
	done        uint64
	units       uint64
	lastLogged  uint64
	timer       time.Time
	lastLogTime time.Time
}

// NewScanLogger creates a logger for a scan over total steps. Log lines are
// written when enabled; callback, if set, sees every step.
func NewScanLogger(name string, total uint64, enabled bool, callback func(done, total uint64)) *ScanLogger {
	sl := &ScanLogger{
		name:     name,
		total:    total,
		enabled:  enabled,
		callback: callback,
		step:     1,
	}
	if total > 20 {
		sl.step = total / 20
	}
	return sl
}

// Init starts the timer and logs the start message.
func (sl *ScanLogger) Init() {
	sl.timer = time.Now()
	sl.lastLogTime = sl.timer
	util.Log(sl.enabled, "%s start (%d steps)", sl.name, sl.total)
}

// Update records one finished step that produced units non-empty constraints.
func (sl *ScanLogger) Update(units int) {
	sl.mu.Lock()
	sl.done++
	sl.units += uint64(units)
	done := sl.done
	if sl.enabled {
		now := time.Now()
		if done-sl.lastLogged >= sl.step && now.Sub(sl.lastLogTime) > 100*time.Millisecond {
			sl.print(now)
		}
	}
	sl.mu.Unlock()

	if sl.callback != nil {
		sl.callback(done, sl.total)
	}
}

// Finalize logs the end message and summary.
func (sl *ScanLogger) Finalize() {
	if !sl.enabled {
		return
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	util.Log(true, "%s end: %d non-empty constraints in %.2fs", sl.name, sl.units, time.Since(sl.timer).Seconds())
}

func (sl *ScanLogger) print(now time.Time) {
	perc := 0.0
	if sl.total > 0 {
		perc = float64(sl.done*100) / float64(sl.total)
	}
	util.Log(true, "  %s: %d/%d steps (%.1f%%), %d non-empty constraints", sl.name, sl.done, sl.total, perc, sl.units)
	sl.lastLogged = sl.done
	sl.lastLogTime = now
}
