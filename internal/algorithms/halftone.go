// CMYK halftone screen simulation
package algorithms

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// halftoneScreen is one ink's dot screen.
type halftoneScreen struct {
	sin, cos float64
}

// screen angles for cyan, magenta, yellow and black
var halftoneAngles = [4]float64{15, 75, 0, 45}

// CMYKHalftone implements a four colour printing halftone
type CMYKHalftone struct{}

// NewCMYKHalftone creates a new CMYK halftone algorithm
func NewCMYKHalftone() *CMYKHalftone {
	return &CMYKHalftone{}
}

func (h *CMYKHalftone) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	width := floatParam(params, "width", 6)
	sharpness := clamp01(floatParam(params, "sharpness", 0.7))
	if width < 1 {
		return gocv.NewMat(), fmt.Errorf("width must be at least 1")
	}
	// edge falloff in half-cell units; sharpness 1 gives a hard dot edge
	soft := math.Max(0.02, (1-sharpness)*0.5)

	var screens [4]halftoneScreen
	for i, deg := range halftoneAngles {
		rad := deg * math.Pi / 180
		screens[i] = halftoneScreen{sin: math.Sin(rad), cos: math.Cos(rad)}
	}

	src, owned := continuous(input)
	if owned {
		defer src.Close()
	}
	pixels, err := newRaster(src)
	if err != nil {
		return gocv.NewMat(), err
	}

	output := gocv.NewMatWithSize(pixels.height, pixels.width, gocv.MatTypeCV8UC3)
	dst, err := newRaster(output)
	if err != nil {
		output.Close()
		return gocv.NewMat(), err
	}

	for y := 0; y < pixels.height; y++ {
		for x := 0; x < pixels.width; x++ {
			b, g, r := pixels.at(x, y)
			inks := rgbToCMYK(float64(r)/255, float64(g)/255, float64(b)/255)

			red, green, blue := 1.0, 1.0, 1.0
			for i, s := range screens {
				cov := dotCoverage(float64(x), float64(y), width, s, inks[i], soft)
				if cov == 0 {
					continue
				}
				keep := 1 - cov
				switch i {
				case 0:
					red *= keep
				case 1:
					green *= keep
				case 2:
					blue *= keep
				default:
					red *= keep
					green *= keep
					blue *= keep
				}
			}

			dst.set(x, y, to8(blue), to8(green), to8(red))
		}
	}

	return output, nil
}

// rgbToCMYK converts normalised RGB to C, M, Y, K ink amounts.
func rgbToCMYK(r, g, b float64) [4]float64 {
	k := 1 - math.Max(r, math.Max(g, b))
	if k >= 1 {
		return [4]float64{0, 0, 0, 1}
	}
	return [4]float64{
		(1 - r - k) / (1 - k),
		(1 - g - k) / (1 - k),
		(1 - b - k) / (1 - k),
		k,
	}
}

// dotCoverage returns how much of the pixel at (x, y) the screen's dot
// covers for the given ink amount.
func dotCoverage(x, y, width float64, s halftoneScreen, ink, soft float64) float64 {
	if ink <= 0 {
		return 0
	}

	u := (x*s.cos + y*s.sin) / width
	v := (-x*s.sin + y*s.cos) / width
	du := u - math.Floor(u) - 0.5
	dv := v - math.Floor(v) - 0.5

	// distances in half-cell units: a dot of radius rho covers area pi*rho^2
	// out of a cell of area 4
	dist := 2 * math.Hypot(du, dv)
	rho := 2 * math.Sqrt(ink/math.Pi)

	return clamp01((rho-dist)/soft + 0.5)
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func (h *CMYKHalftone) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"width":     6.0,
		"sharpness": 0.7,
	}
}

func (h *CMYKHalftone) GetName() string {
	return "CMYK Halftone"
}

func (h *CMYKHalftone) GetDescription() string {
	return "Simulates four colour halftone printing"
}

func (h *CMYKHalftone) Validate(params map[string]interface{}) error {
	if err := checkRange(params, "width", 1, 200); err != nil {
		return err
	}
	return checkRange(params, "sharpness", 0, 1)
}

func (h *CMYKHalftone) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "width",
			Type:        "float",
			Min:         1.0,
			Max:         200.0,
			Default:     6.0,
			Description: "Distance between dots in pixels",
		},
		{
			Name:        "sharpness",
			Type:        "float",
			Min:         0.0,
			Max:         1.0,
			Default:     0.7,
			Description: "Dot edge sharpness",
		},
	}
}
