// Package fitsimage reads the gas density cubes of the source survey from
// FITS files.
package fitsimage

import (
	"errors"
	"fmt"
	"os"

	"github.com/astrogo/fitsio"

	"picardgas/internal/models"
	"picardgas/pkg/grid"
)

// ErrFileNotFound is returned when the FITS file does not exist
var ErrFileNotFound = errors.New("file not found")

// Shape returns the shape of an image HDU in C order. FITS lists the fastest
// axis first, so the header axes are reversed.
func Shape(img fitsio.Image) []int {
	axes := img.Header().Axes()
	shape := make([]int, len(axes))
	for i, n := range axes {
		shape[len(axes)-1-i] = n
	}
	return shape
}

// ReadVolume reads the primary HDU of a FITS file as a volume on the given
// grid. The image shape has to match the grid shape.
func ReadVolume(path string, g grid.Descriptor) (*models.ScalarVolume, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("file '%s': %w", path, ErrFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error opening FITS file: %w", err)
	}
	defer f.Close()

	ff, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("error reading FITS file %s: %w", path, err)
	}
	defer ff.Close()

	img, ok := ff.HDU(0).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("the primary HDU of %s is not an image", path)
	}

	shape := Shape(img)
	want := g.Shape()
	if len(shape) != 3 || shape[0] != want[0] || shape[1] != want[1] || shape[2] != want[2] {
		return nil, &models.DimensionMismatchError{
			Detail: fmt.Sprintf("the image in %s has the shape %v instead of %v", path, shape, want),
		}
	}

	data, err := readPixels(img, g.Len())
	if err != nil {
		return nil, fmt.Errorf("error reading image data from %s: %w", path, err)
	}
	return models.NewScalarVolume(data, g)
}

// readPixels reads n pixels in their stored type and returns the physical
// values BZERO + BSCALE*pixel
func readPixels(img fitsio.Image, n int) ([]float64, error) {
	var (
		data []float64
		err  error
	)
	switch bitpix := img.Header().Bitpix(); bitpix {
	case 8:
		data, err = readAs[uint8](img, n)
	case 16:
		data, err = readAs[int16](img, n)
	case 32:
		data, err = readAs[int32](img, n)
	case 64:
		data, err = readAs[int64](img, n)
	case -32:
		data, err = readAs[float32](img, n)
	case -64:
		data, err = readAs[float64](img, n)
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
	if err != nil {
		return nil, err
	}

	scale, err := cardValue(img.Header(), "BSCALE", 1)
	if err != nil {
		return nil, err
	}
	zero, err := cardValue(img.Header(), "BZERO", 0)
	if err != nil {
		return nil, err
	}
	if scale != 1 || zero != 0 {
		for i, v := range data {
			data[i] = zero + scale*v
		}
	}
	return data, nil
}

type pixel interface {
	uint8 | int16 | int32 | int64 | float32 | float64
}

func readAs[T pixel](img fitsio.Image, n int) ([]float64, error) {
	raw := make([]T, n)
	if err := img.Read(&raw); err != nil {
		return nil, err
	}
	data := make([]float64, n)
	for i, v := range raw {
		data[i] = float64(v)
	}
	return data, nil
}

// cardValue returns the numeric value of a header card, or def if the header
// does not have it
func cardValue(hdr *fitsio.Header, name string, def float64) (float64, error) {
	card := hdr.Get(name)
	if card == nil {
		return def, nil
	}
	switch v := card.Value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("header card %s has the non-numeric value %v", name, card.Value)
}

// ReadSurvey reads a density cube on the source-survey grid
func ReadSurvey(path string) (*models.ScalarVolume, error) {
	return ReadVolume(path, grid.SourceSurvey)
}
