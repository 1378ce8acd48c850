// Filter algorithm contract and the built-in set
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"

	"live-camera-filtering/internal/filters"
)

// Algorithm defines the interface for image filter algorithms
type Algorithm interface {
	Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a parameter of an algorithm
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "float"
	Min         interface{} `json:"min,omitempty"`
	Max         interface{} `json:"max,omitempty"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
}

// Builtin returns a fresh map of every algorithm keyed by identifier.
func Builtin() map[string]Algorithm {
	return map[string]Algorithm{
		filters.AlgCMYKHalftone:   NewCMYKHalftone(),
		filters.AlgComicEffect:    NewComicEffect(),
		filters.AlgCrystallize:    NewCrystallize(),
		filters.AlgEdges:          NewEdges(),
		filters.AlgHexPixellate:   NewHexPixellate(),
		filters.AlgColorInvert:    NewColorInvert(),
		filters.AlgPointillize:    NewPointillize(),
		filters.AlgLineOverlay:    NewLineOverlay(),
		filters.AlgColorPosterize: NewColorPosterize(),
	}
}

// floatParam reads a numeric parameter, falling back to def.
func floatParam(params map[string]interface{}, key string, def float64) float64 {
	val, ok := params[key]
	if !ok {
		return def
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

// checkRange validates an optional numeric parameter against [min, max].
func checkRange(params map[string]interface{}, key string, min, max float64) error {
	if _, ok := params[key]; !ok {
		return nil
	}
	v := floatParam(params, key, min-1)
	if v < min || v > max {
		return fmt.Errorf("%s must be between %g and %g", key, min, max)
	}
	return nil
}

// checkInput rejects empty or non-BGR mats.
func checkInput(input gocv.Mat) error {
	if input.Empty() {
		return fmt.Errorf("input image is empty")
	}
	if input.Channels() != 3 {
		return fmt.Errorf("expected 3 channel BGR image, got %d channels", input.Channels())
	}
	return nil
}
