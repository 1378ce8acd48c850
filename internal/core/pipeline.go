// internal/core/pipeline.go
// Frame pipeline controller: capture -> filter -> display hand-off
package core

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"live-camera-filtering/internal/filters"
	"live-camera-filtering/internal/metrics"
)

var ErrAlreadyInitialized = errors.New("pipeline already initialized")

// State is the lifecycle state of a Pipeline.
type State int32

const (
	StateUninitialized State = iota
	StateConfiguring
	StateRunning
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfiguring:
		return "configuring"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Pipeline wires a capture source, the filter registry, a filter applier and
// a display sink together.
type Pipeline struct {
	source    CaptureSource
	registry  *filters.Registry
	applier   FilterApplier
	selection Selection
	sink      DisplaySink

	logger     logrus.FieldLogger
	metrics    *metrics.Tracker
	bufferSize int

	state atomic.Int32

	updates      chan image.Image
	done         chan struct{}
	consumerDone chan struct{}
	stopOnce     sync.Once
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithDisplayBuffer sets how many finished images may wait for the display
// consumer before the capture goroutine blocks.
func WithDisplayBuffer(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

func WithMetrics(t *metrics.Tracker) Option {
	return func(p *Pipeline) { p.metrics = t }
}

// NewPipeline creates an uninitialized pipeline.
func NewPipeline(source CaptureSource, registry *filters.Registry, applier FilterApplier,
	selection Selection, sink DisplaySink, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:     source,
		registry:   registry,
		applier:    applier,
		selection:  selection,
		sink:       sink,
		logger:     logrus.StandardLogger(),
		metrics:    metrics.NewTracker(),
		bufferSize: 1,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithField("component", "pipeline")
	return p
}

func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Metrics returns a snapshot of the pipeline counters.
func (p *Pipeline) Metrics() metrics.Stats {
	return p.metrics.Snapshot()
}

// Init configures the capture source and starts frame delivery. A configure
// failure is terminal: the pipeline enters StateFailed and the source is
// never started.
func (p *Pipeline) Init(ctx context.Context, kind DeviceKind) error {
	if !p.state.CompareAndSwap(int32(StateUninitialized), int32(StateConfiguring)) {
		return ErrAlreadyInitialized
	}

	log := p.logger.WithField("device", string(kind))
	log.Info("PIPELINE: Configuring capture source")

	if err := p.source.Configure(kind); err != nil {
		p.state.Store(int32(StateFailed))
		log.WithError(err).Error("can't access camera")
		return fmt.Errorf("configure capture: %w", err)
	}

	p.updates = make(chan image.Image, p.bufferSize)
	p.consumerDone = make(chan struct{})
	go p.displayLoop()

	// Running must be visible before the first frame arrives
	p.state.Store(int32(StateRunning))
	if err := p.source.Start(ctx, p.HandleFrame); err != nil {
		p.state.Store(int32(StateFailed))
		close(p.done)
		<-p.consumerDone
		log.WithError(err).Error("can't start capture")
		return fmt.Errorf("start capture: %w", err)
	}

	log.WithFields(logrus.Fields{
		"filters":        p.registry.Len(),
		"display_buffer": p.bufferSize,
	}).Info("PIPELINE: Running")
	return nil
}

// HandleFrame runs one frame through the selected filter and queues the
// result for display. Frames whose selection does not resolve to a filter
// are dropped without a display update.
func (p *Pipeline) HandleFrame(frame Frame) {
	defer frame.Close()

	if p.State() != StateRunning {
		return
	}
	p.metrics.FrameReceived()

	desc, ok := p.registry.Resolve(p.selection.Selected())
	if !ok {
		p.metrics.FrameSkipped()
		return
	}

	start := time.Now()
	img, err := p.applier.Apply(frame, desc)
	p.metrics.ObserveApply(time.Since(start))
	if err != nil {
		p.metrics.FrameFailed()
		p.logger.WithFields(logrus.Fields{
			"seq":    frame.Seq(),
			"filter": desc.Name,
		}).WithError(err).Debug("PIPELINE: Filter failed, frame dropped")
		return
	}

	select {
	case p.updates <- img:
	case <-p.done:
	}
}

// displayLoop is the single consumer of finished images. Images reach the
// sink in the order they were queued.
func (p *Pipeline) displayLoop() {
	defer close(p.consumerDone)

	for {
		select {
		case img := <-p.updates:
			p.show(img)
		case <-p.done:
			for {
				select {
				case img := <-p.updates:
					p.show(img)
				default:
					return
				}
			}
		}
	}
}

func (p *Pipeline) show(img image.Image) {
	p.sink.Show(img)
	p.metrics.FrameDisplayed()
}

// Stop halts capture and waits for queued images to reach the sink.
func (p *Pipeline) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		if p.State() != StateRunning {
			return
		}
		err = p.source.Stop()
		p.state.Store(int32(StateStopped))
		close(p.done)
		<-p.consumerDone

		p.logger.WithField("frames", p.metrics.Snapshot().FramesReceived).Info("PIPELINE: Stopped")
	})
	return err
}
