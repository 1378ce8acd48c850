// internal/capture/camera.go
// Capture source backed by OpenCV video capture
package capture

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gocv.io/x/gocv"

	"live-camera-filtering/internal/core"
)

var (
	// ErrDeviceUnavailable means no device matches the requested kind.
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	// ErrInputAttach means the device exists but could not be opened.
	ErrInputAttach = errors.New("capture input attach failed")

	ErrNotConfigured  = errors.New("capture source not configured")
	ErrAlreadyStarted = errors.New("capture source already started")
)

// readRetryDelay throttles a live camera that returns empty reads.
const readRetryDelay = 10 * time.Millisecond

// Settings holds capture hints. Zero width or height keeps the device default.
type Settings struct {
	Width  int
	Height int
	FPS    int
}

// DefaultSettings match a typical USB webcam.
func DefaultSettings() Settings {
	return Settings{Width: 640, Height: 480, FPS: 15}
}

// frameReader is the subset of *gocv.VideoCapture the read loop needs.
type frameReader interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// Stats is a snapshot of capture counters.
type Stats struct {
	FramesRead   uint64
	ReadFailures uint64
	Started      time.Time
	Device       string
	SessionID    string
}

// Camera implements core.CaptureSource on top of gocv.
type Camera struct {
	fs       afero.Fs
	logger   logrus.FieldLogger
	settings Settings
	loader   *ImageLoader

	// openVideo is replaced in tests
	openVideo func(device interface{}) (frameReader, error)

	mu        sync.Mutex
	kind      core.DeviceKind
	reader    frameReader
	live      bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   bool
	sessionID string

	seq          atomic.Uint64
	framesRead   atomic.Uint64
	readFailures atomic.Uint64
	started      atomic.Int64
}

// NewCamera creates an unconfigured capture source. fs is used to probe
// device nodes and to read still images.
func NewCamera(fs afero.Fs, settings Settings, logger logrus.FieldLogger) *Camera {
	c := &Camera{
		fs:       fs,
		logger:   logger.WithField("component", "capture"),
		settings: settings,
	}
	c.loader = NewImageLoader(fs, c.logger)
	c.openVideo = c.openVideoCapture
	return c
}

// Configure attaches the device described by kind: a camera index, a video
// file, a stream URL or a still image.
func (c *Camera) Configure(kind core.DeviceKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrAlreadyStarted
	}
	if c.reader != nil {
		c.reader.Close()
		c.reader = nil
	}

	source := strings.TrimSpace(string(kind))
	log := c.logger.WithField("device", source)

	var (
		reader frameReader
		live   bool
		err    error
	)

	switch {
	case source == "":
		return fmt.Errorf("%w: empty device", ErrDeviceUnavailable)

	case isCameraIndex(source):
		index, _ := strconv.Atoi(source)
		if err := c.probeCamera(index); err != nil {
			return err
		}
		reader, err = c.openVideo(index)
		live = true

	case strings.Contains(source, "://"):
		reader, err = c.openVideo(source)
		live = true

	default:
		if _, statErr := c.fs.Stat(source); statErr != nil {
			return fmt.Errorf("%w: %s: %v", ErrDeviceUnavailable, source, statErr)
		}
		if IsSupportedImageFormat(source) {
			reader, err = c.openStill(source)
		} else {
			reader, err = c.openVideo(source)
		}
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInputAttach, source, err)
	}

	c.kind = kind
	c.reader = reader
	c.live = live
	c.sessionID = uuid.New().String()

	log.WithFields(logrus.Fields{
		"live":    live,
		"session": c.sessionID,
	}).Info("Capture device attached")
	return nil
}

// Start launches the read loop on its own goroutine and returns.
func (c *Camera) Start(ctx context.Context, onFrame func(core.Frame)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reader == nil {
		return ErrNotConfigured
	}
	if c.running {
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	c.started.Store(time.Now().UnixNano())

	c.wg.Add(1)
	go c.readLoop(loopCtx, c.reader, c.live, onFrame)

	c.logger.WithField("session", c.sessionID).Info("Capture started")
	return nil
}

// Stop cancels the read loop, waits for it and releases the device.
func (c *Camera) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.reader != nil {
		err = c.reader.Close()
		c.reader = nil
	}

	c.logger.WithFields(logrus.Fields{
		"session": c.sessionID,
		"frames":  c.framesRead.Load(),
	}).Info("Capture stopped")
	return err
}

func (c *Camera) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var started time.Time
	if ns := c.started.Load(); ns != 0 {
		started = time.Unix(0, ns)
	}
	return Stats{
		FramesRead:   c.framesRead.Load(),
		ReadFailures: c.readFailures.Load(),
		Started:      started,
		Device:       string(c.kind),
		SessionID:    c.sessionID,
	}
}

func (c *Camera) readLoop(ctx context.Context, reader frameReader, live bool, onFrame func(core.Frame)) {
	defer c.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		mat := gocv.NewMat()
		if !reader.Read(&mat) || mat.Empty() {
			mat.Close()
			if !live {
				c.logger.WithField("session", c.sessionID).Info("Capture reached end of stream")
				return
			}
			c.readFailures.Add(1)
			select {
			case <-ctx.Done():
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}

		c.framesRead.Add(1)
		onFrame(&Frame{
			mat:      mat,
			seq:      c.seq.Add(1),
			captured: time.Now(),
			traceID:  uuid.New().String(),
		})
	}
}

// probeCamera checks that the device node for index exists. Only Linux
// exposes camera nodes on the filesystem.
func (c *Camera) probeCamera(index int) error {
	if runtime.GOOS != "linux" {
		return nil
	}
	node := fmt.Sprintf("/dev/video%d", index)
	if _, err := c.fs.Stat(node); err != nil {
		return fmt.Errorf("%w: %s", ErrDeviceUnavailable, node)
	}
	return nil
}

func (c *Camera) openVideoCapture(device interface{}) (frameReader, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, err
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("device %v did not open", device)
	}

	if c.settings.Width > 0 && c.settings.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(c.settings.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(c.settings.Height))
	}
	if c.settings.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, float64(c.settings.FPS))
	}
	return vc, nil
}

func (c *Camera) openStill(path string) (frameReader, error) {
	mat, err := c.loader.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return newStillReader(mat, c.settings.FPS), nil
}

func isCameraIndex(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0
}
