package interpolation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"picardgas/internal/models"
	"picardgas/pkg/grid"
)

// Sample is the outcome of evaluating a field at one point. It is either a
// value or, when OutOfDomain is set, a marker that the point has no complete
// interpolation neighbourhood in the volume.
type Sample struct {
	Value       float64
	OutOfDomain bool
}

// outOfDomain is returned for every point that cannot be interpolated
var outOfDomain = Sample{OutOfDomain: true}

// Trilinear evaluates a scalar volume at arbitrary physical points by
// trilinear interpolation of the eight surrounding samples
// (see http://paulbourke.net/miscellaneous/interpolation/).
//
// A Trilinear never modifies its volume and can be shared between goroutines.
type Trilinear struct {
	volume *models.ScalarVolume
	shape  [3]int

	// lower outer-volume limit and cell size per axis
	lower    [3]float64
	cellSize [3]float64

	// strides of the x and y index in the flat sample array
	strideX, strideY int
}

// NewTrilinear prepares the interpolation of volume
func NewTrilinear(volume *models.ScalarVolume) *Trilinear {
	t := &Trilinear{volume: volume, shape: volume.Shape()}

	// The samples sit at the cell centers, so the outer volume is divided by
	// the number of cells and not by the number of gaps between centers.
	outer := volume.Grid.OuterVolumeLimits()
	for _, a := range grid.Axes {
		t.lower[a] = outer[a][0]
		t.cellSize[a] = (outer[a][1] - outer[a][0]) / float64(t.shape[a])
	}
	t.strideY = t.shape[2]
	t.strideX = t.shape[1] * t.shape[2]
	return t
}

// Evaluate returns the interpolated value of the field at (x, y, z). Points
// for which the enclosing cube of samples is not completely inside the
// volume are reported as OutOfDomain; this includes points within half a cell
// of the outer boundary.
func (t *Trilinear) Evaluate(x, y, z float64) Sample {
	var (
		base [3]int
		frac [3]float64
	)
	for a, c := range [3]float64{x, y, z} {
		f := (c-t.lower[a])/t.cellSize[a] - 0.5
		fl := math.Floor(f)
		// also rejects NaN and ±Inf, for which every comparison is false
		if !(fl >= 0 && fl <= float64(t.shape[a]-2)) {
			return outOfDomain
		}
		base[a] = int(fl)
		frac[a] = f - fl
	}

	i := base[0]*t.strideX + base[1]*t.strideY + base[2]
	dx, dy, dz := t.strideX, t.strideY, 1
	data := t.volume.Data
	corners := [8]float64{
		data[i],          // 000
		data[i+dx],       // 100
		data[i+dy],       // 010
		data[i+dx+dy],    // 110
		data[i+dz],       // 001
		data[i+dx+dz],    // 101
		data[i+dy+dz],    // 011
		data[i+dx+dy+dz], // 111
	}
	weights := CornerWeights(frac[0], frac[1], frac[2])
	return Sample{Value: floats.Dot(weights[:], corners[:])}
}

// At is Evaluate for callers that prefer an error over a tagged result
func (t *Trilinear) At(x, y, z float64) (float64, error) {
	s := t.Evaluate(x, y, z)
	if s.OutOfDomain {
		return 0, &PointOutsideGridError{X: x, Y: y, Z: z}
	}
	return s.Value, nil
}

// CornerWeights returns the weights of the eight corners of a unit cube for a
// point at the fractional offset (fx, fy, fz) from corner 000. The corners
// are ordered 000, 100, 010, 110, 001, 101, 011, 111 (x, y, z; 1 is the upper
// corner). For offsets in [0, 1] the weights are non-negative and sum to 1.
func CornerWeights(fx, fy, fz float64) [8]float64 {
	gx, gy, gz := 1-fx, 1-fy, 1-fz
	return [8]float64{
		gx * gy * gz,
		fx * gy * gz,
		gx * fy * gz,
		fx * fy * gz,
		gx * gy * fz,
		fx * gy * fz,
		gx * fy * fz,
		fx * fy * fz,
	}
}

// PointOutsideGridError reports a point that cannot be interpolated because
// the cube of samples around it is not entirely inside the volume
type PointOutsideGridError struct {
	X, Y, Z float64
}

func (e *PointOutsideGridError) Error() string {
	return fmt.Sprintf("interpolation is not possible because the point (%g, %g, %g) is not within the grid",
		e.X, e.Y, e.Z)
}
