// Engine applies registry descriptors to captured frames
package algorithms

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"live-camera-filtering/internal/core"
	"live-camera-filtering/internal/filters"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrUnsupportedFrame = errors.New("frame does not carry a mat")
)

// MatFrame is a frame backed by a gocv mat.
type MatFrame interface {
	core.Frame
	Mat() gocv.Mat
}

// Engine resolves descriptors to algorithms and renders frames through them.
// It is safe for concurrent use; algorithms hold no state.
type Engine struct {
	algorithms map[string]Algorithm
	logger     logrus.FieldLogger
}

// NewEngine checks that every descriptor in reg names a known algorithm and
// carries valid parameters.
func NewEngine(reg *filters.Registry, logger logrus.FieldLogger) (*Engine, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	e := &Engine{
		algorithms: Builtin(),
		logger:     logger.WithField("component", "engine"),
	}

	for _, desc := range reg.Descriptors() {
		alg, ok := e.algorithms[desc.Algorithm]
		if !ok {
			return nil, fmt.Errorf("filter %q: %w %q", desc.Name, ErrUnknownAlgorithm, desc.Algorithm)
		}
		if err := alg.Validate(toParams(desc.Params())); err != nil {
			return nil, fmt.Errorf("filter %q: %w", desc.Name, err)
		}
	}

	e.logger.WithField("filters", reg.Len()).Debug("Filter engine ready")
	return e, nil
}

// Apply renders frame through desc and returns a new image. The frame is
// not retained.
func (e *Engine) Apply(frame core.Frame, desc filters.Descriptor) (image.Image, error) {
	mf, ok := frame.(MatFrame)
	if !ok {
		return nil, ErrUnsupportedFrame
	}

	result, err := e.ApplyMat(mf.Mat(), desc)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	img, err := result.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert %s output: %w", desc.Name, err)
	}
	return img, nil
}

// ApplyMat runs desc's algorithm over input and returns an 8-bit BGR mat
// owned by the caller.
func (e *Engine) ApplyMat(input gocv.Mat, desc filters.Descriptor) (gocv.Mat, error) {
	alg, ok := e.algorithms[desc.Algorithm]
	if !ok {
		return gocv.NewMat(), fmt.Errorf("%w %q", ErrUnknownAlgorithm, desc.Algorithm)
	}

	params := alg.GetDefaultParams()
	for k, v := range toParams(desc.Params()) {
		params[k] = v
	}

	output, err := alg.Apply(input, params)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%s: %w", desc.Name, err)
	}

	bgr, err := toBGR(output)
	output.Close()
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%s: %w", desc.Name, err)
	}
	return bgr, nil
}

// Algorithm returns the algorithm registered under id.
func (e *Engine) Algorithm(id string) (Algorithm, bool) {
	alg, ok := e.algorithms[id]
	return alg, ok
}

func toParams(p map[string]float64) map[string]interface{} {
	params := make(map[string]interface{}, len(p))
	for k, v := range p {
		params[k] = v
	}
	return params
}

// toBGR returns a new 3 channel copy of m.
func toBGR(m gocv.Mat) (gocv.Mat, error) {
	if m.Empty() {
		return gocv.NewMat(), fmt.Errorf("algorithm produced an empty image")
	}

	switch m.Channels() {
	case 3:
		return m.Clone(), nil
	case 1:
		out := gocv.NewMat()
		gocv.CvtColor(m, &out, gocv.ColorGrayToBGR)
		return out, nil
	case 4:
		out := gocv.NewMat()
		gocv.CvtColor(m, &out, gocv.ColorBGRAToBGR)
		return out, nil
	default:
		return gocv.NewMat(), fmt.Errorf("unsupported channel count %d", m.Channels())
	}
}
