// Package grid describes regular, axis-aligned 3D grids.
//
// A grid can be described by two different sets of limits and it is easy to
// confuse them:
//
//   - the cell-center limits are the coordinates of the first and the last
//     sample point along an axis;
//   - the outer-volume limits are the boundaries of the volume represented by
//     the grid, half a cell further out on each side.
//
// Descriptor keeps both behind separate accessors.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis identifies one of the three spatial axes.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Axes lists the three axes in storage order.
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Limits is a [lower, upper] pair for each axis, indexed by Axis.
type Limits [3][2]float64

// Descriptor is an immutable description of a regular 3D grid. The zero value
// is not a valid grid; use New or FromOuterVolumeLimits.
type Descriptor struct {
	counts  [3]int
	centers Limits
}

// New creates a grid from the cell-center limits and the number of cells
// along each axis.
func New(centers Limits, counts [3]int) (Descriptor, error) {
	for _, a := range Axes {
		lo, hi := centers[a][0], centers[a][1]
		switch {
		case counts[a] < 2:
			return Descriptor{}, &InvalidGridError{Axis: a,
				Reason: fmt.Sprintf("cell count %d is smaller than 2", counts[a])}
		case math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0):
			return Descriptor{}, &InvalidGridError{Axis: a,
				Reason: fmt.Sprintf("limits [%g, %g] are not finite", lo, hi)}
		case lo >= hi:
			return Descriptor{}, &InvalidGridError{Axis: a,
				Reason: fmt.Sprintf("minimum %g is not smaller than maximum %g", lo, hi)}
		}
	}
	return Descriptor{counts: counts, centers: centers}, nil
}

// FromParameters creates a grid from the nine scalar parameters used by
// simulation parameter files: minimum, maximum and cell count per axis.
func FromParameters(xMin, xMax float64, nx int, yMin, yMax float64, ny int,
	zMin, zMax float64, nz int) (Descriptor, error) {
	return New(Limits{{xMin, xMax}, {yMin, yMax}, {zMin, zMax}}, [3]int{nx, ny, nz})
}

// FromOuterVolumeLimits recovers a grid from its outer-volume limits and the
// number of cells. It is the inverse of Descriptor.OuterVolumeLimits.
func FromOuterVolumeLimits(outer Limits, counts [3]int) (Descriptor, error) {
	var centers Limits
	for _, a := range Axes {
		if counts[a] < 1 {
			return Descriptor{}, &InvalidGridError{Axis: a,
				Reason: fmt.Sprintf("cell count %d is not positive", counts[a])}
		}
		half := 0.5 * (outer[a][1] - outer[a][0]) / float64(counts[a])
		centers[a] = [2]float64{outer[a][0] + half, outer[a][1] - half}
	}
	return New(centers, counts)
}

// Shape returns the number of cells along each axis.
func (d Descriptor) Shape() [3]int { return d.counts }

// Len returns the total number of cells.
func (d Descriptor) Len() int { return d.counts[0] * d.counts[1] * d.counts[2] }

// CellSize returns the distance between two neighbouring cell centers along
// axis a.
func (d Descriptor) CellSize(a Axis) float64 {
	return (d.centers[a][1] - d.centers[a][0]) / float64(d.counts[a]-1)
}

// CellCenterLimits returns the coordinates of the first and the last cell
// center along each axis.
func (d Descriptor) CellCenterLimits() Limits { return d.centers }

// OuterVolumeLimits returns the boundaries of the volume represented by the
// grid: the cell-center limits moved outwards by half a cell size.
func (d Descriptor) OuterVolumeLimits() Limits {
	var outer Limits
	for _, a := range Axes {
		half := 0.5 * d.CellSize(a)
		outer[a] = [2]float64{d.centers[a][0] - half, d.centers[a][1] + half}
	}
	return outer
}

// OuterVolume returns the outer-volume limits as a box.
func (d Descriptor) OuterVolume() r3.Box {
	outer := d.OuterVolumeLimits()
	return r3.Box{
		Min: r3.Vec{X: outer[X][0], Y: outer[Y][0], Z: outer[Z][0]},
		Max: r3.Vec{X: outer[X][1], Y: outer[Y][1], Z: outer[Z][1]},
	}
}

// Contains reports whether p lies inside the outer volume. Points on the
// boundary count as inside.
func (d Descriptor) Contains(p r3.Vec) bool {
	b := d.OuterVolume()
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Centers returns the cell-center coordinates along axis a: count evenly
// spaced values from the minimum to the maximum, both endpoints included
// exactly.
func (d Descriptor) Centers(a Axis) []float64 {
	c := floats.Span(make([]float64, d.counts[a]), d.centers[a][0], d.centers[a][1])
	c[len(c)-1] = d.centers[a][1]
	return c
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%d×%d×%d cells, centers x∈[%g, %g] y∈[%g, %g] z∈[%g, %g]",
		d.counts[X], d.counts[Y], d.counts[Z],
		d.centers[X][0], d.centers[X][1],
		d.centers[Y][0], d.centers[Y][1],
		d.centers[Z][0], d.centers[Z][1])
}

// InvalidGridError is returned when a grid would violate its construction
// invariants.
type InvalidGridError struct {
	Axis   Axis
	Reason string
}

func (e *InvalidGridError) Error() string {
	return fmt.Sprintf("invalid grid along %s: %s", e.Axis, e.Reason)
}
