// Edge based filters: edges, line overlay, comic effect
package algorithms

import (
	"gocv.io/x/gocv"
)

// Edges implements Sobel edge detection with an intensity multiplier
type Edges struct{}

// NewEdges creates a new edge detection algorithm
func NewEdges() *Edges {
	return &Edges{}
}

func (e *Edges) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	intensity := floatParam(params, "intensity", 1)
	// a 3x3 Sobel response peaks at 4x the step height
	scale := intensity / 4

	gradX := gocv.NewMat()
	defer gradX.Close()
	gradY := gocv.NewMat()
	defer gradY.Close()
	gocv.Sobel(input, &gradX, gocv.MatTypeCV16S, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(input, &gradY, gocv.MatTypeCV16S, 0, 1, 3, 1, 0, gocv.BorderDefault)

	absX := gocv.NewMat()
	defer absX.Close()
	absY := gocv.NewMat()
	defer absY.Close()
	gocv.ConvertScaleAbs(gradX, &absX, scale, 0)
	gocv.ConvertScaleAbs(gradY, &absY, scale, 0)

	output := gocv.NewMat()
	gocv.Add(absX, absY, &output)
	return output, nil
}

func (e *Edges) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"intensity": 1.0,
	}
}

func (e *Edges) GetName() string {
	return "Edges"
}

func (e *Edges) GetDescription() string {
	return "Highlights edges in colour on a black background"
}

func (e *Edges) Validate(params map[string]interface{}) error {
	return checkRange(params, "intensity", 0, 50)
}

func (e *Edges) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "intensity",
			Type:        "float",
			Min:         0.0,
			Max:         50.0,
			Default:     1.0,
			Description: "Multiplier applied to the edge response",
		},
	}
}

// LineOverlay implements a black line drawing on white
type LineOverlay struct{}

// NewLineOverlay creates a new line overlay algorithm
func NewLineOverlay() *LineOverlay {
	return &LineOverlay{}
}

func (l *LineOverlay) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	low := floatParam(params, "threshold_low", 50)
	high := floatParam(params, "threshold_high", 150)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(input, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(gray, &blurred, 5)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, float32(low), float32(high))
	gocv.BitwiseNot(edges, &edges)

	output := gocv.NewMat()
	gocv.CvtColor(edges, &output, gocv.ColorGrayToBGR)
	return output, nil
}

func (l *LineOverlay) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"threshold_low":  50.0,
		"threshold_high": 150.0,
	}
}

func (l *LineOverlay) GetName() string {
	return "Line Overlay"
}

func (l *LineOverlay) GetDescription() string {
	return "Sketch of the image edges as black lines"
}

func (l *LineOverlay) Validate(params map[string]interface{}) error {
	if err := checkRange(params, "threshold_low", 0, 255); err != nil {
		return err
	}
	return checkRange(params, "threshold_high", 0, 255)
}

func (l *LineOverlay) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "threshold_low",
			Type:        "float",
			Min:         0.0,
			Max:         255.0,
			Default:     50.0,
			Description: "Lower Canny hysteresis threshold",
		},
		{
			Name:        "threshold_high",
			Type:        "float",
			Min:         0.0,
			Max:         255.0,
			Default:     150.0,
			Description: "Upper Canny hysteresis threshold",
		},
	}
}

// ComicEffect implements a cartoon look: smoothed colour with black outlines
type ComicEffect struct{}

// NewComicEffect creates a new comic effect algorithm
func NewComicEffect() *ComicEffect {
	return &ComicEffect{}
}

func (c *ComicEffect) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	blockSize := int(floatParam(params, "block_size", 9))
	if blockSize%2 == 0 {
		blockSize++
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(input, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(gray, &blurred, 7)

	outline := gocv.NewMat()
	defer outline.Close()
	gocv.AdaptiveThreshold(blurred, &outline, 255, gocv.AdaptiveThresholdMean, gocv.ThresholdBinary, blockSize, 2)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.CvtColor(outline, &mask, gocv.ColorGrayToBGR)

	smooth := gocv.NewMat()
	defer smooth.Close()
	gocv.BilateralFilter(input, &smooth, 9, 75, 75)

	output := gocv.NewMat()
	gocv.BitwiseAnd(smooth, mask, &output)
	return output, nil
}

func (c *ComicEffect) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"block_size": 9.0,
	}
}

func (c *ComicEffect) GetName() string {
	return "Comic Effect"
}

func (c *ComicEffect) GetDescription() string {
	return "Flattened colours with black comic-book outlines"
}

func (c *ComicEffect) Validate(params map[string]interface{}) error {
	return checkRange(params, "block_size", 3, 31)
}

func (c *ComicEffect) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "block_size",
			Type:        "int",
			Min:         3.0,
			Max:         31.0,
			Default:     9.0,
			Description: "Neighbourhood size of the outline threshold (odd)",
		},
	}
}
