package algorithms

import (
	"image"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"live-camera-filtering/internal/filters"
)

func solid(rows, cols int, b, g, r float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), rows, cols, gocv.MatTypeCV8UC3)
}

// gradient builds a BGR image whose channels vary across both axes.
func gradient(rows, cols int) gocv.Mat {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	pix, _ := m.DataPtrUint8()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := (y*cols + x) * 3
			pix[i] = uint8(x * 255 / cols)
			pix[i+1] = uint8(y * 255 / rows)
			pix[i+2] = uint8((x + y) * 127 / (rows + cols))
		}
	}
	return m
}

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

type matFrame struct {
	mat gocv.Mat
	seq uint64
}

func (f *matFrame) Seq() uint64   { return f.seq }
func (f *matFrame) Mat() gocv.Mat { return f.mat }
func (f *matFrame) Close() error  { return f.mat.Close() }

type plainFrame struct{}

func (plainFrame) Seq() uint64  { return 0 }
func (plainFrame) Close() error { return nil }

func TestBuiltinCoversRegistry(t *testing.T) {
	algs := Builtin()
	reg := filters.Builtin()
	assert.Len(t, algs, reg.Len())

	for _, desc := range reg.Descriptors() {
		alg, ok := algs[desc.Algorithm]
		require.True(t, ok, "no algorithm for %s", desc.Name)
		assert.NoError(t, alg.Validate(toParams(desc.Params())), desc.Name)
		assert.NotEmpty(t, alg.GetDescription())
	}
}

func TestBuiltinKeepsSizeAndChannels(t *testing.T) {
	engine, err := NewEngine(filters.Builtin(), quietLogger())
	require.NoError(t, err)

	input := gradient(48, 64)
	defer input.Close()

	for _, desc := range filters.Builtin().Descriptors() {
		t.Run(desc.Name, func(t *testing.T) {
			out, err := engine.ApplyMat(input, desc)
			require.NoError(t, err)
			defer out.Close()

			assert.Equal(t, 48, out.Rows())
			assert.Equal(t, 64, out.Cols())
			assert.Equal(t, 3, out.Channels())
			assert.Equal(t, gocv.MatTypeCV8UC3, out.Type())
		})
	}
}

func TestAlgorithmsRejectBadInput(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	gray := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC1)
	defer gray.Close()

	for id, alg := range Builtin() {
		out, err := alg.Apply(empty, alg.GetDefaultParams())
		assert.Error(t, err, id)
		out.Close()

		out, err = alg.Apply(gray, alg.GetDefaultParams())
		assert.Error(t, err, id)
		out.Close()
	}
}

func TestColorInvert(t *testing.T) {
	input := solid(4, 4, 10, 200, 255)
	defer input.Close()

	out, err := NewColorInvert().Apply(input, nil)
	require.NoError(t, err)
	defer out.Close()

	v := out.GetVecbAt(2, 2)
	assert.Equal(t, []uint8{245, 55, 0}, []uint8{v[0], v[1], v[2]})
}

func TestPosterizeTable(t *testing.T) {
	table := posterizeTable(2)
	assert.Equal(t, uint8(0), table[0])
	assert.Equal(t, uint8(0), table[127])
	assert.Equal(t, uint8(255), table[128])
	assert.Equal(t, uint8(255), table[255])

	table = posterizeTable(5)
	seen := map[uint8]bool{}
	for _, v := range table {
		seen[v] = true
	}
	assert.Len(t, seen, 5)
}

func TestPosterizeApply(t *testing.T) {
	input := gradient(16, 16)
	defer input.Close()

	out, err := NewColorPosterize().Apply(input, map[string]interface{}{"levels": 2.0})
	require.NoError(t, err)
	defer out.Close()

	pix, err := out.DataPtrUint8()
	require.NoError(t, err)
	for _, v := range pix {
		assert.True(t, v == 0 || v == 255, "unexpected level %d", v)
	}
}

func TestStylizeIsDeterministic(t *testing.T) {
	input := gradient(40, 40)
	defer input.Close()

	for _, alg := range []Algorithm{NewCrystallize(), NewPointillize(), NewHexPixellate(), NewCMYKHalftone()} {
		t.Run(alg.GetName(), func(t *testing.T) {
			a, err := alg.Apply(input, alg.GetDefaultParams())
			require.NoError(t, err)
			defer a.Close()
			b, err := alg.Apply(input, alg.GetDefaultParams())
			require.NoError(t, err)
			defer b.Close()

			pa, _ := a.DataPtrUint8()
			pb, _ := b.DataPtrUint8()
			assert.Equal(t, pa, pb)
		})
	}
}

func TestCellFiltersPreserveUniformColor(t *testing.T) {
	input := solid(30, 30, 40, 90, 160)
	defer input.Close()

	for _, alg := range []Algorithm{NewCrystallize(), NewHexPixellate()} {
		t.Run(alg.GetName(), func(t *testing.T) {
			out, err := alg.Apply(input, alg.GetDefaultParams())
			require.NoError(t, err)
			defer out.Close()

			pix, _ := out.DataPtrUint8()
			for i := 0; i < len(pix); i += 3 {
				require.Equal(t, []uint8{40, 90, 160}, pix[i:i+3])
			}
		})
	}
}

func TestHalftoneWhiteStaysWhite(t *testing.T) {
	input := solid(20, 20, 255, 255, 255)
	defer input.Close()

	out, err := NewCMYKHalftone().Apply(input, map[string]interface{}{"width": 6.0, "sharpness": 1.0})
	require.NoError(t, err)
	defer out.Close()

	pix, _ := out.DataPtrUint8()
	for _, v := range pix {
		require.Equal(t, uint8(255), v)
	}
}

func TestRGBToCMYK(t *testing.T) {
	assert.Equal(t, [4]float64{0, 0, 0, 1}, rgbToCMYK(0, 0, 0))
	assert.Equal(t, [4]float64{0, 0, 0, 0}, rgbToCMYK(1, 1, 1))
	assert.Equal(t, [4]float64{0, 1, 1, 0}, rgbToCMYK(1, 0, 0))
}

func TestJitterRange(t *testing.T) {
	for gy := -3; gy < 20; gy++ {
		for gx := -3; gx < 20; gx++ {
			jx, jy := jitter(gx, gy)
			require.True(t, jx >= 0 && jx < 1)
			require.True(t, jy >= 0 && jy < 1)
		}
	}
	ax, ay := jitter(4, 7)
	bx, by := jitter(4, 7)
	assert.Equal(t, ax, bx)
	assert.Equal(t, ay, by)
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name    string
		alg     Algorithm
		params  map[string]interface{}
		wantErr bool
	}{
		{"posterize ok", NewColorPosterize(), map[string]interface{}{"levels": 5.0}, false},
		{"posterize low", NewColorPosterize(), map[string]interface{}{"levels": 1.0}, true},
		{"edges high", NewEdges(), map[string]interface{}{"intensity": 51.0}, true},
		{"halftone sharpness", NewCMYKHalftone(), map[string]interface{}{"sharpness": 1.5}, true},
		{"hex scale zero", NewHexPixellate(), map[string]interface{}{"scale": 0.0}, true},
		{"crystallize int", NewCrystallize(), map[string]interface{}{"radius": 30}, false},
		{"non-numeric", NewPointillize(), map[string]interface{}{"radius": "big"}, true},
		{"absent", NewPointillize(), map[string]interface{}{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alg.Validate(tt.params)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewEngineRejectsBadRegistry(t *testing.T) {
	reg, err := filters.NewRegistry(filters.NewDescriptor("Mystery", "no_such_algorithm", nil))
	require.NoError(t, err)
	_, err = NewEngine(reg, quietLogger())
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	reg, err = filters.NewRegistry(filters.NewDescriptor("Too Many", filters.AlgColorPosterize, map[string]float64{"levels": 500}))
	require.NoError(t, err)
	_, err = NewEngine(reg, quietLogger())
	assert.Error(t, err)
}

func TestEngineApply(t *testing.T) {
	engine, err := NewEngine(filters.Builtin(), quietLogger())
	require.NoError(t, err)
	desc, ok := filters.Builtin().Lookup(filters.Invert)
	require.True(t, ok)

	frame := &matFrame{mat: solid(6, 10, 0, 0, 0), seq: 1}
	defer frame.Close()

	img, err := engine.Apply(frame, desc)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 6), img.Bounds())

	r, g, b, _ := img.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)

	// the frame is not consumed
	assert.False(t, frame.Mat().Empty())
}

func TestEngineApplyErrors(t *testing.T) {
	engine, err := NewEngine(filters.Builtin(), quietLogger())
	require.NoError(t, err)
	desc, _ := filters.Builtin().Lookup(filters.Edges)

	_, err = engine.Apply(plainFrame{}, desc)
	assert.ErrorIs(t, err, ErrUnsupportedFrame)

	frame := &matFrame{mat: gocv.NewMat()}
	defer frame.Close()
	_, err = engine.Apply(frame, desc)
	assert.Error(t, err)

	input := solid(4, 4, 1, 2, 3)
	defer input.Close()
	_, err = engine.ApplyMat(input, filters.NewDescriptor("Ghost", "ghost", nil))
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
