// Throughput metrics for the live frame pipeline
package metrics

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// rateSmoothing is the weight of the newest sample in the frame rate EWMA.
const rateSmoothing = 0.1

// Tracker collects pipeline counters. All methods are safe for concurrent use.
type Tracker struct {
	received  atomic.Uint64
	displayed atomic.Uint64
	skipped   atomic.Uint64
	failed    atomic.Uint64

	lastApply atomic.Int64  // nanoseconds
	lastFrame atomic.Int64  // unix nanoseconds
	rate      atomic.Uint64 // float64 bits, frames per second

	now func() time.Time
}

// Stats is a point-in-time copy of the tracker.
type Stats struct {
	FramesReceived  uint64
	FramesDisplayed uint64
	FramesSkipped   uint64
	FramesFailed    uint64
	LastApply       time.Duration
	FPS             float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// FrameReceived records a frame arriving from the capture source and
// updates the smoothed frame rate.
func (t *Tracker) FrameReceived() {
	t.received.Add(1)

	now := t.now().UnixNano()
	prev := t.lastFrame.Swap(now)
	if prev == 0 || now <= prev {
		return
	}

	instant := float64(time.Second) / float64(now-prev)
	old := math.Float64frombits(t.rate.Load())
	next := instant
	if old > 0 {
		next = old + rateSmoothing*(instant-old)
	}
	t.rate.Store(math.Float64bits(next))
}

func (t *Tracker) FrameDisplayed() { t.displayed.Add(1) }

func (t *Tracker) FrameSkipped() { t.skipped.Add(1) }

func (t *Tracker) FrameFailed() { t.failed.Add(1) }

// ObserveApply records how long the last filter application took.
func (t *Tracker) ObserveApply(d time.Duration) {
	t.lastApply.Store(int64(d))
}

// Snapshot returns the current values.
func (t *Tracker) Snapshot() Stats {
	return Stats{
		FramesReceived:  t.received.Load(),
		FramesDisplayed: t.displayed.Load(),
		FramesSkipped:   t.skipped.Load(),
		FramesFailed:    t.failed.Load(),
		LastApply:       time.Duration(t.lastApply.Load()),
		FPS:             math.Float64frombits(t.rate.Load()),
	}
}

// Summary renders the stats as a single status line.
func (s Stats) Summary() string {
	parts := []string{
		fmt.Sprintf("%s frames", humanize.Comma(int64(s.FramesReceived))),
		fmt.Sprintf("%s fps", humanize.FtoaWithDigits(s.FPS, 1)),
	}
	if s.FramesSkipped > 0 {
		parts = append(parts, fmt.Sprintf("%s skipped", humanize.Comma(int64(s.FramesSkipped))))
	}
	if s.FramesFailed > 0 {
		parts = append(parts, fmt.Sprintf("%s failed", humanize.Comma(int64(s.FramesFailed))))
	}
	parts = append(parts, s.LastApply.Round(time.Millisecond).String())
	return strings.Join(parts, " · ")
}
