package shellscript

import (
	"fmt"
	"strings"
	"time"
)

// ScriptTimer is the timer name used when none is given.
const ScriptTimer = "script"

// Timer measures the wall time between Start and Stop.
// The zero value is a timer that has not been started.
type Timer struct {
	start time.Time
	end   time.Time
	now   func() time.Time
}

// NewTimer returns a timer that has not been started.
func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// Start records the start time and clears any previous stop time.
func (t *Timer) Start() {
	t.start = t.clock()
	t.end = time.Time{}
}

// Stop records the end time. It does nothing on a timer that was never started.
func (t *Timer) Stop() {
	if t.start.IsZero() {
		return
	}
	t.end = t.clock()
}

// Elapsed returns the time between Start and Stop.
// It is zero until both have been called.
func (t *Timer) Elapsed() time.Duration {
	if t.start.IsZero() || t.end.IsZero() {
		return 0
	}
	return t.end.Sub(t.start)
}

func (t *Timer) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

// FormatTime renders d as "H hours M minutes S.SS seconds".
// Hours appear only above one hour and minutes only above one minute, so
// exactly 3600s reads "60 minutes 0.00 seconds".
func FormatTime(d time.Duration) string {
	total := d.Seconds()

	var b strings.Builder
	if total > 3600 {
		hours := int64(total / 3600)
		total -= float64(hours * 3600)
		fmt.Fprintf(&b, "%d hours ", hours)
	}
	if total > 60 {
		minutes := int64(total / 60)
		total -= float64(minutes * 60)
		fmt.Fprintf(&b, "%d minutes ", minutes)
	}
	fmt.Fprintf(&b, "%.2f seconds", total)
	return b.String()
}

// StartTimer starts (or restarts) the named timer. An empty name means ScriptTimer.
func (r *Resolver) StartTimer(name string) {
	name = timerName(name)
	r.Debug(fmt.Sprintf("StartTimer(%s) called", name), 1)

	if r.timers == nil {
		r.timers = make(map[string]*Timer)
	}
	t, ok := r.timers[name]
	if !ok {
		t = &Timer{now: r.now}
		r.timers[name] = t
	}
	t.Start()
}

// StopTimer stops the named timer. Unknown timers are ignored.
func (r *Resolver) StopTimer(name string) {
	name = timerName(name)
	r.Debug(fmt.Sprintf("StopTimer(%s) called", name), 1)

	if t, ok := r.timers[name]; ok {
		t.Stop()
	}
}

// Elapsed returns the stopped duration of the named timer, or zero when it
// was never started or has not been stopped.
func (r *Resolver) Elapsed(name string) time.Duration {
	name = timerName(name)
	t, ok := r.timers[name]
	if !ok {
		r.Debug(fmt.Sprintf("timer (%s) was never started", name), 2)
		return 0
	}
	d := t.Elapsed()
	r.Debug(fmt.Sprintf("Elapsed(%s) = %s", name, d), 1)
	return d
}

func timerName(name string) string {
	if name == "" {
		return ScriptTimer
	}
	return name
}
