package capture

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Frame is a captured BGR image. It implements core.Frame.
type Frame struct {
	mat      gocv.Mat
	seq      uint64
	captured time.Time
	traceID  string
}

// NewFrame wraps mat. The frame takes ownership of mat.
func NewFrame(mat gocv.Mat, seq uint64) *Frame {
	return &Frame{mat: mat, seq: seq, captured: time.Now()}
}

// Mat returns the underlying image. It is only valid until Close.
func (f *Frame) Mat() gocv.Mat { return f.mat }

func (f *Frame) Seq() uint64 { return f.seq }

func (f *Frame) Timestamp() time.Time { return f.captured }

func (f *Frame) TraceID() string { return f.traceID }

func (f *Frame) Close() error {
	return f.mat.Close()
}

// stillReader replays one image at a fixed rate.
type stillReader struct {
	mu       sync.Mutex
	still    gocv.Mat
	interval time.Duration
	last     time.Time
	closed   bool
}

func newStillReader(still gocv.Mat, fps int) *stillReader {
	if fps <= 0 {
		fps = DefaultSettings().FPS
	}
	return &stillReader{
		still:    still,
		interval: time.Second / time.Duration(fps),
	}
}

func (r *stillReader) Read(m *gocv.Mat) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	if !r.last.IsZero() {
		if wait := r.interval - time.Since(r.last); wait > 0 {
			time.Sleep(wait)
		}
	}
	r.last = time.Now()

	r.still.CopyTo(m)
	return true
}

func (r *stillReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.still.Close()
}
