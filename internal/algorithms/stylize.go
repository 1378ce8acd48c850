// Cell based stylize filters: hexagonal pixellate, crystallize, pointillize
package algorithms

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// HexPixellate implements hexagonal pixellation
type HexPixellate struct{}

// NewHexPixellate creates a new hexagonal pixellate algorithm
func NewHexPixellate() *HexPixellate {
	return &HexPixellate{}
}

func (h *HexPixellate) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	scale := floatParam(params, "scale", 8)
	if scale < 1 {
		return gocv.NewMat(), fmt.Errorf("scale must be at least 1")
	}

	src, owned := continuous(input)
	if owned {
		defer src.Close()
	}
	pixels, err := newRaster(src)
	if err != nil {
		return gocv.NewMat(), err
	}

	// pointy-top hexagons, scale is the flat-to-flat width
	radius := scale / math.Sqrt(3)
	rowStep := 1.5 * radius

	output := input.Clone()
	for row := 0; float64(row)*rowStep-radius <= float64(pixels.height); row++ {
		cy := float64(row) * rowStep
		offset := 0.0
		if row%2 == 1 {
			offset = scale / 2
		}

		for col := -1; float64(col)*scale+offset-scale/2 <= float64(pixels.width); col++ {
			cx := float64(col)*scale + offset
			b, g, r := pixels.at(int(math.Round(cx)), int(math.Round(cy)))

			hexagon := gocv.NewPointsVectorFromPoints([][]image.Point{hexagonPoints(cx, cy, radius)})
			gocv.FillPoly(&output, hexagon, color.RGBA{R: r, G: g, B: b, A: 255})
			hexagon.Close()
		}
	}

	return output, nil
}

func hexagonPoints(cx, cy, radius float64) []image.Point {
	pts := make([]image.Point, 6)
	for i := range pts {
		angle := math.Pi/6 + float64(i)*math.Pi/3
		pts[i] = image.Pt(
			int(math.Round(cx+radius*math.Cos(angle))),
			int(math.Round(cy+radius*math.Sin(angle))),
		)
	}
	return pts
}

func (h *HexPixellate) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"scale": 8.0,
	}
}

func (h *HexPixellate) GetName() string {
	return "Hex Pixellate"
}

func (h *HexPixellate) GetDescription() string {
	return "Replaces the image with a grid of flat coloured hexagons"
}

func (h *HexPixellate) Validate(params map[string]interface{}) error {
	return checkRange(params, "scale", 1, 200)
}

func (h *HexPixellate) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "scale",
			Type:        "float",
			Min:         1.0,
			Max:         200.0,
			Default:     8.0,
			Description: "Width of each hexagon in pixels",
		},
	}
}

// Crystallize implements Voronoi cell polygonisation
type Crystallize struct{}

// NewCrystallize creates a new crystallize algorithm
func NewCrystallize() *Crystallize {
	return &Crystallize{}
}

func (c *Crystallize) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	radius := floatParam(params, "radius", 20)
	if radius < 1 {
		return gocv.NewMat(), fmt.Errorf("radius must be at least 1")
	}

	src, owned := continuous(input)
	if owned {
		defer src.Close()
	}
	pixels, err := newRaster(src)
	if err != nil {
		return gocv.NewMat(), err
	}

	cell := int(math.Ceil(radius))
	cols := pixels.width/cell + 1
	rows := pixels.height/cell + 1

	// one seed per grid cell, with its colour sampled once
	type seed struct {
		x, y    float64
		b, g, r uint8
	}
	seeds := make([]seed, cols*rows)
	for gy := 0; gy < rows; gy++ {
		for gx := 0; gx < cols; gx++ {
			jx, jy := jitter(gx, gy)
			s := seed{
				x: (float64(gx) + jx) * float64(cell),
				y: (float64(gy) + jy) * float64(cell),
			}
			s.b, s.g, s.r = pixels.at(int(s.x), int(s.y))
			seeds[gy*cols+gx] = s
		}
	}

	output := gocv.NewMatWithSize(pixels.height, pixels.width, gocv.MatTypeCV8UC3)
	dst, err := newRaster(output)
	if err != nil {
		output.Close()
		return gocv.NewMat(), err
	}

	for y := 0; y < pixels.height; y++ {
		gy := y / cell
		for x := 0; x < pixels.width; x++ {
			gx := x / cell

			best := -1
			bestDist := math.MaxFloat64
			for ny := gy - 1; ny <= gy+1; ny++ {
				if ny < 0 || ny >= rows {
					continue
				}
				for nx := gx - 1; nx <= gx+1; nx++ {
					if nx < 0 || nx >= cols {
						continue
					}
					s := seeds[ny*cols+nx]
					dx, dy := s.x-float64(x), s.y-float64(y)
					if d := dx*dx + dy*dy; d < bestDist {
						bestDist = d
						best = ny*cols + nx
					}
				}
			}

			s := seeds[best]
			dst.set(x, y, s.b, s.g, s.r)
		}
	}

	return output, nil
}

func (c *Crystallize) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"radius": 20.0,
	}
}

func (c *Crystallize) GetName() string {
	return "Crystallize"
}

func (c *Crystallize) GetDescription() string {
	return "Breaks the image into flat coloured polygonal cells"
}

func (c *Crystallize) Validate(params map[string]interface{}) error {
	return checkRange(params, "radius", 1, 200)
}

func (c *Crystallize) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "radius",
			Type:        "float",
			Min:         1.0,
			Max:         200.0,
			Default:     20.0,
			Description: "Approximate cell size in pixels",
		},
	}
}

// Pointillize implements a dotted painting effect
type Pointillize struct{}

// NewPointillize creates a new pointillize algorithm
func NewPointillize() *Pointillize {
	return &Pointillize{}
}

func (p *Pointillize) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := checkInput(input); err != nil {
		return gocv.NewMat(), err
	}

	radius := floatParam(params, "radius", 20)
	if radius < 1 {
		return gocv.NewMat(), fmt.Errorf("radius must be at least 1")
	}

	src, owned := continuous(input)
	if owned {
		defer src.Close()
	}
	pixels, err := newRaster(src)
	if err != nil {
		return gocv.NewMat(), err
	}

	spacing := 1.4 * radius
	dot := int(math.Round(radius))

	output := gocv.NewMatWithSize(pixels.height, pixels.width, gocv.MatTypeCV8UC3)
	output.SetTo(gocv.NewScalar(255, 255, 255, 0))

	for gy := 0; float64(gy)*spacing < float64(pixels.height)+spacing; gy++ {
		for gx := 0; float64(gx)*spacing < float64(pixels.width)+spacing; gx++ {
			jx, jy := jitter(gx, gy)
			x := int((float64(gx) + jx - 0.5) * spacing)
			y := int((float64(gy) + jy - 0.5) * spacing)

			b, g, r := pixels.at(x, y)
			gocv.Circle(&output, image.Pt(x, y), dot, color.RGBA{R: r, G: g, B: b, A: 255}, -1)
		}
	}

	return output, nil
}

func (p *Pointillize) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"radius": 20.0,
	}
}

func (p *Pointillize) GetName() string {
	return "Pointillize"
}

func (p *Pointillize) GetDescription() string {
	return "Renders the image as overlapping coloured dots"
}

func (p *Pointillize) Validate(params map[string]interface{}) error {
	return checkRange(params, "radius", 1, 200)
}

func (p *Pointillize) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "radius",
			Type:        "float",
			Min:         1.0,
			Max:         200.0,
			Default:     20.0,
			Description: "Dot radius in pixels",
		},
	}
}
