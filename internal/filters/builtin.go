package filters

// Filter names shown in the selector.
const (
	CMYKHalftone       = "CMYK Halftone"
	ComicEffect        = "Comic Effect"
	Crystallize        = "Crystallize"
	Edges              = "Edges"
	HexagonalPixellate = "Hex Pixellate"
	Invert             = "Invert"
	Pointillize        = "Pointillize"
	LineOverlay        = "Line Overlay"
	Posterize          = "Posterize"
)

// Algorithm identifiers understood by the algorithms package.
const (
	AlgCMYKHalftone   = "cmyk_halftone"
	AlgComicEffect    = "comic_effect"
	AlgCrystallize    = "crystallize"
	AlgEdges          = "edges"
	AlgHexPixellate   = "hex_pixellate"
	AlgColorInvert    = "color_invert"
	AlgPointillize    = "pointillize"
	AlgLineOverlay    = "line_overlay"
	AlgColorPosterize = "color_posterize"
)

// BuiltinDescriptors returns the fixed filter table.
func BuiltinDescriptors() []Descriptor {
	return []Descriptor{
		NewDescriptor(CMYKHalftone, AlgCMYKHalftone, map[string]float64{"width": 20, "sharpness": 1}),
		NewDescriptor(ComicEffect, AlgComicEffect, nil),
		NewDescriptor(Crystallize, AlgCrystallize, map[string]float64{"radius": 30}),
		NewDescriptor(Edges, AlgEdges, map[string]float64{"intensity": 10}),
		NewDescriptor(HexagonalPixellate, AlgHexPixellate, map[string]float64{"scale": 40}),
		NewDescriptor(Invert, AlgColorInvert, nil),
		NewDescriptor(Pointillize, AlgPointillize, map[string]float64{"radius": 30}),
		NewDescriptor(LineOverlay, AlgLineOverlay, nil),
		NewDescriptor(Posterize, AlgColorPosterize, map[string]float64{"levels": 5}),
	}
}

// Builtin returns a registry holding the fixed filter table.
func Builtin() *Registry {
	r, err := NewRegistry(BuiltinDescriptors()...)
	if err != nil {
		// the table is static; an error here is a programming mistake
		panic(err)
	}
	return r
}
