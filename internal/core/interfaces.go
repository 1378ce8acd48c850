// internal/core/interfaces.go
// Collaborator contracts consumed by the frame pipeline
package core

import (
	"context"
	"image"
	"sync/atomic"

	"live-camera-filtering/internal/filters"
)

// DeviceKind selects the capture device: a camera index such as "0",
// a video file path or stream URL, or a still image path.
type DeviceKind string

// Frame is an opaque captured image buffer. The pipeline owns a frame for
// the duration of one filter application and closes it afterwards.
type Frame interface {
	Seq() uint64
	Close() error
}

// CaptureSource produces frames on its own goroutine.
type CaptureSource interface {
	// Configure attaches the device described by kind.
	Configure(kind DeviceKind) error
	// Start begins delivery and returns immediately. onFrame is invoked
	// serially, in capture order, off the UI goroutine.
	Start(ctx context.Context, onFrame func(Frame)) error
	// Stop ends delivery and releases the device. Safe to call twice.
	Stop() error
}

// FilterApplier renders a frame through a filter. It must not retain the
// frame and must return a freshly allocated image.
type FilterApplier interface {
	Apply(frame Frame, desc filters.Descriptor) (image.Image, error)
}

// Selection exposes the index of the currently selected filter.
type Selection interface {
	Selected() int
}

// DisplaySink renders one image on screen.
type DisplaySink interface {
	Show(img image.Image)
}

// AtomicSelection is a Selection written by the UI and read by the
// capture goroutine.
type AtomicSelection struct {
	v atomic.Int64
}

func (s *AtomicSelection) Selected() int {
	return int(s.v.Load())
}

func (s *AtomicSelection) Select(i int) {
	s.v.Store(int64(i))
}
