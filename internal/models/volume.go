package models

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"picardgas/pkg/grid"
)

// ScalarVolume represents a scalar field sampled at the cell centers of a
// regular 3D grid
type ScalarVolume struct {
	// Data holds the samples as a 1D array in C order, the z index varying
	// fastest: Data[(ix*ny+iy)*nz+iz]
	Data []float64

	// Grid anchors the samples in physical space
	Grid grid.Descriptor
}

// NewScalarVolume wraps data sampled on g. The length of data has to match
// the number of cells of g.
func NewScalarVolume(data []float64, g grid.Descriptor) (*ScalarVolume, error) {
	if len(data) != g.Len() {
		shape := g.Shape()
		return nil, &DimensionMismatchError{
			Detail: fmt.Sprintf("%d samples do not fit a %d×%d×%d grid",
				len(data), shape[0], shape[1], shape[2]),
		}
	}
	return &ScalarVolume{Data: data, Grid: g}, nil
}

// ZeroVolume allocates a volume on g filled with zeros
func ZeroVolume(g grid.Descriptor) *ScalarVolume {
	return &ScalarVolume{Data: make([]float64, g.Len()), Grid: g}
}

// Shape returns the number of samples along x, y and z
func (v *ScalarVolume) Shape() [3]int { return v.Grid.Shape() }

// Index returns the position of sample (ix, iy, iz) in Data
func (v *ScalarVolume) Index(ix, iy, iz int) int {
	shape := v.Grid.Shape()
	return (ix*shape[1]+iy)*shape[2] + iz
}

// At returns sample (ix, iy, iz)
func (v *ScalarVolume) At(ix, iy, iz int) float64 {
	return v.Data[v.Index(ix, iy, iz)]
}

// Set stores sample (ix, iy, iz)
func (v *ScalarVolume) Set(ix, iy, iz int, value float64) {
	v.Data[v.Index(ix, iy, iz)] = value
}

// Summary holds simple statistics of a volume, printed by the commands after
// reading or producing one
type Summary struct {
	Min, Max float64
	Mean     float64
	StdDev   float64

	// Zeros is the number of samples that are exactly zero, which includes
	// the cells filled outside of a resampled source volume
	Zeros int
}

// Summarize computes the statistics of v
func (v *ScalarVolume) Summarize() Summary {
	if len(v.Data) == 0 {
		return Summary{}
	}
	var s Summary
	s.Min = floats.Min(v.Data)
	s.Max = floats.Max(v.Data)
	s.Mean, s.StdDev = stat.MeanStdDev(v.Data, nil)
	for _, d := range v.Data {
		if d == 0 {
			s.Zeros++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("min %.4g, max %.4g, mean %.4g ± %.4g, %d zero cells",
		s.Min, s.Max, s.Mean, s.StdDev, s.Zeros)
}

// DimensionMismatchError is returned when an array does not have the shape
// its grid declares, or when a grid is not three-dimensional
type DimensionMismatchError struct {
	Detail string
}

func (e *DimensionMismatchError) Error() string {
	return "dimension mismatch: " + e.Detail
}
