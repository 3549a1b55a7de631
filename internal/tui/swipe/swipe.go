// Package swipe turns mouse drag events into discrete triage decisions.
//
// A drag commits only when it travels far enough horizontally AND is
// released while still moving fast enough in the same direction. Velocity
// is measured over a short sliding window of recent samples, so dragging a
// card out and pausing before release does not count as a fling.
package swipe

import "time"

// velocityWindow bounds how far back samples count toward release velocity.
const velocityWindow = 100 * time.Millisecond

// maxSamples caps the sample buffer. The time window keeps it small
// already; the cap only guards against event floods.
const maxSamples = 32

// Decision is the outcome of a completed gesture.
type Decision int

const (
	None Decision = iota
	Keep
	Delete
)

func (d Decision) String() string {
	switch d {
	case Keep:
		return "keep"
	case Delete:
		return "delete"
	default:
		return "none"
	}
}

// Config tunes the gesture.
type Config struct {
	Threshold   int     // minimum horizontal travel in cells
	MinVelocity float64 // minimum release speed in cells per second
}

type sample struct {
	x int
	t time.Time
}

// Tracker accumulates one drag gesture at a time.
type Tracker struct {
	cfg     Config
	active  bool
	originX int
	lastX   int
	samples []sample
}

// NewTracker creates a Tracker with the given thresholds.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Active reports whether a drag is in progress.
func (tr *Tracker) Active() bool {
	return tr.active
}

// Displacement returns the current horizontal travel in cells. Positive is
// rightward. Zero when no drag is in progress.
func (tr *Tracker) Displacement() int {
	if !tr.active {
		return 0
	}
	return tr.lastX - tr.originX
}

// Begin starts a new drag at x. Any gesture already in progress is
// discarded.
func (tr *Tracker) Begin(x int, t time.Time) {
	tr.active = true
	tr.originX = x
	tr.lastX = x
	tr.samples = tr.samples[:0]
	tr.samples = append(tr.samples, sample{x: x, t: t})
}

// Move records a drag position. Ignored when no drag is in progress.
func (tr *Tracker) Move(x int, t time.Time) {
	if !tr.active {
		return
	}
	tr.lastX = x
	tr.samples = append(tr.samples, sample{x: x, t: t})
	tr.trim(t)
}

// Release ends the drag and returns the decision. The tracker is ready for
// a new Begin afterwards.
func (tr *Tracker) Release(x int, t time.Time) Decision {
	if !tr.active {
		return None
	}
	tr.active = false

	displacement := x - tr.originX
	velocity := tr.releaseVelocity(x, t)
	tr.samples = tr.samples[:0]

	switch {
	case displacement >= tr.cfg.Threshold && velocity >= tr.cfg.MinVelocity:
		return Keep
	case displacement <= -tr.cfg.Threshold && velocity <= -tr.cfg.MinVelocity:
		return Delete
	default:
		return None
	}
}

// releaseVelocity measures cells per second over the sliding window ending
// at the release point. A stale window (drag paused) yields zero.
func (tr *Tracker) releaseVelocity(x int, t time.Time) float64 {
	cutoff := t.Add(-velocityWindow)

	var ref *sample
	for i := range tr.samples {
		if !tr.samples[i].t.Before(cutoff) {
			ref = &tr.samples[i]
			break
		}
	}
	if ref == nil {
		return 0
	}

	dt := t.Sub(ref.t).Seconds()
	if dt <= 0 {
		return 0
	}
	return float64(x-ref.x) / dt
}

// trim drops samples that fell out of the velocity window.
func (tr *Tracker) trim(now time.Time) {
	cutoff := now.Add(-velocityWindow)
	i := 0
	for i < len(tr.samples)-1 && tr.samples[i].t.Before(cutoff) {
		i++
	}
	if i > 0 {
		tr.samples = tr.samples[i:]
	}
	if len(tr.samples) > maxSamples {
		tr.samples = tr.samples[len(tr.samples)-maxSamples:]
	}
}
