package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeClock(start time.Time, step time.Duration) func() time.Time {
	cur := start.Add(-step)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTracker_Counters(t *testing.T) {
	tr := NewTracker()

	tr.FrameReceived()
	tr.FrameReceived()
	tr.FrameReceived()
	tr.FrameDisplayed()
	tr.FrameSkipped()
	tr.FrameFailed()
	tr.ObserveApply(12 * time.Millisecond)

	s := tr.Snapshot()
	assert.Equal(t, uint64(3), s.FramesReceived)
	assert.Equal(t, uint64(1), s.FramesDisplayed)
	assert.Equal(t, uint64(1), s.FramesSkipped)
	assert.Equal(t, uint64(1), s.FramesFailed)
	assert.Equal(t, 12*time.Millisecond, s.LastApply)
}

func TestTracker_FrameRate(t *testing.T) {
	tr := NewTracker()
	tr.now = fakeClock(time.Unix(1000, 0), 40*time.Millisecond)

	for i := 0; i < 50; i++ {
		tr.FrameReceived()
	}

	assert.InDelta(t, 25.0, tr.Snapshot().FPS, 0.01)
}

func TestTracker_FirstFrameHasNoRate(t *testing.T) {
	tr := NewTracker()
	tr.FrameReceived()
	assert.Zero(t, tr.Snapshot().FPS)
}

func TestTracker_ConcurrentUse(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				tr.FrameReceived()
				tr.FrameDisplayed()
			}
		}()
	}
	wg.Wait()

	s := tr.Snapshot()
	assert.Equal(t, uint64(8000), s.FramesReceived)
	assert.Equal(t, uint64(8000), s.FramesDisplayed)
}

func TestStats_Summary(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  string
	}{
		{
			name:  "steady",
			stats: Stats{FramesReceived: 1234, FPS: 29.84, LastApply: 12 * time.Millisecond},
			want:  "1,234 frames · 29.8 fps · 12ms",
		},
		{
			name: "with drops",
			stats: Stats{
				FramesReceived: 10,
				FramesSkipped:  3,
				FramesFailed:   1,
				FPS:            15,
				LastApply:      4 * time.Millisecond,
			},
			want: "10 frames · 15 fps · 3 skipped · 1 failed · 4ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Summary())
		})
	}
}
