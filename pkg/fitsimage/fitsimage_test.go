package fitsimage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picardgas/internal/models"
	"picardgas/pkg/grid"
)

// writeCube writes a cube with FITS axes (nz, ny, nx). data points to a
// slice whose element type matches bitpix.
func writeCube(t *testing.T, path string, bitpix int, axes []int, data any, cards ...fitsio.Card) {
	t.Helper()
	w, err := os.Create(path)
	require.NoError(t, err)
	defer w.Close()

	f, err := fitsio.Create(w)
	require.NoError(t, err)
	defer f.Close()

	img := fitsio.NewImage(bitpix, axes)
	defer img.Close()
	if len(cards) > 0 {
		require.NoError(t, img.Header().Append(cards...))
	}
	require.NoError(t, img.Write(data))
	require.NoError(t, f.Write(img))
}

func TestReadVolume(t *testing.T) {
	g, err := grid.New(grid.Limits{{0, 3}, {0, 2}, {0, 1}}, [3]int{4, 3, 2})
	require.NoError(t, err)

	data := make([]float64, g.Len())
	for i := range data {
		data[i] = float64(i)
	}
	path := filepath.Join(t.TempDir(), "cube.fits")
	writeCube(t, path, -64, []int{2, 3, 4}, &data)

	v, err := ReadVolume(path, g)
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 3, 2}, v.Shape())
	assert.Equal(t, data, v.Data)

	// z varies fastest
	assert.Equal(t, 1.0, v.At(0, 0, 1))
	assert.Equal(t, 2.0, v.At(0, 1, 0))
	assert.Equal(t, 6.0, v.At(1, 0, 0))
}

func TestReadPixelTypes(t *testing.T) {
	g, err := grid.New(grid.Limits{{0, 3}, {0, 2}, {0, 1}}, [3]int{4, 3, 2})
	require.NoError(t, err)

	want := make([]float64, g.Len())
	f32 := make([]float32, g.Len())
	i16 := make([]int16, g.Len())
	for i := range want {
		want[i] = float64(i) * 0.5
		f32[i] = float32(i) * 0.5
		i16[i] = int16(i)
	}

	tests := []struct {
		name   string
		bitpix int
		data   any
		cards  []fitsio.Card
		want   []float64
	}{
		{"float32", -32, &f32, nil, want},
		{"int16", 16, &i16, nil, func() []float64 {
			w := make([]float64, len(i16))
			for i, v := range i16 {
				w[i] = float64(v)
			}
			return w
		}()},
		{"int16 scaled", 16, &i16, []fitsio.Card{
			{Name: "BSCALE", Value: 0.5},
			{Name: "BZERO", Value: 10.0},
		}, func() []float64 {
			w := make([]float64, len(want))
			for i, v := range want {
				w[i] = 10 + v
			}
			return w
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cube.fits")
			writeCube(t, path, tt.bitpix, []int{2, 3, 4}, tt.data, tt.cards...)

			v, err := ReadVolume(path, g)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, v.Data, 1e-12)
		})
	}
}

func TestReadSurveyShapeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.fits")
	small := make([]float64, 24)
	writeCube(t, path, -64, []int{2, 3, 4}, &small)

	_, err := ReadSurvey(path)
	var dimErr *models.DimensionMismatchError
	require.True(t, errors.As(err, &dimErr), "expected DimensionMismatchError, got %v", err)
	assert.Contains(t, err.Error(), "[4 3 2]")
}

func TestReadMissing(t *testing.T) {
	_, err := ReadSurvey(filepath.Join(t.TempDir(), "missing.fits"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}
