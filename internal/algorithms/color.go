// Colour adjustment filters
package algorithms

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// ColorInvert implements colour inversion
type ColorInvert struct{}

// NewColorInvert creates a new colour inversion algorithm
func NewColorInvert() *ColorInvert {
	return &ColorInvert{}
}

func (c *ColorInvert) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	output := gocv.NewMat()
	gocv.BitwiseNot(input, &output)
	return output, nil
}

func (c *ColorInvert) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (c *ColorInvert) GetName() string {
	return "Invert"
}

func (c *ColorInvert) GetDescription() string {
	return "Inverts every colour channel"
}

func (c *ColorInvert) Validate(params map[string]interface{}) error {
	return nil
}

func (c *ColorInvert) GetParameterInfo() []ParameterInfo {
	return nil
}

// ColorPosterize implements per-channel colour quantisation
type ColorPosterize struct{}

// NewColorPosterize creates a new posterize algorithm
func NewColorPosterize() *ColorPosterize {
	return &ColorPosterize{}
}

func (p *ColorPosterize) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	levels := int(floatParam(params, "levels", 6))
	if levels < 2 {
		return gocv.NewMat(), fmt.Errorf("levels must be at least 2")
	}
	table := posterizeTable(levels)

	output := input.Clone()
	pix, err := output.DataPtrUint8()
	if err != nil {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("posterize: %w", err)
	}
	for i, v := range pix {
		pix[i] = table[v]
	}

	return output, nil
}

// posterizeTable maps each 8-bit value to the nearest of levels evenly
// spaced values between 0 and 255.
func posterizeTable(levels int) [256]uint8 {
	var table [256]uint8
	step := 255.0 / float64(levels-1)
	for i := range table {
		q := math.Round(float64(i)/step) * step
		table[i] = uint8(math.Min(255, math.Round(q)))
	}
	return table
}

func (p *ColorPosterize) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"levels": 6.0,
	}
}

func (p *ColorPosterize) GetName() string {
	return "Posterize"
}

func (p *ColorPosterize) GetDescription() string {
	return "Reduces each colour channel to a fixed number of levels"
}

func (p *ColorPosterize) Validate(params map[string]interface{}) error {
	return checkRange(params, "levels", 2, 30)
}

func (p *ColorPosterize) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "levels",
			Type:        "int",
			Min:         2.0,
			Max:         30.0,
			Default:     6.0,
			Description: "Number of brightness levels per channel",
		},
	}
}
