// Package visualization renders planar slices of scalar volumes as heat maps.
package visualization

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"picardgas/internal/models"
	"picardgas/pkg/grid"
)

// Viewer extracts and renders slices of a volume
type Viewer struct {
	volume *models.ScalarVolume
	opts   Options
}

// NewViewer creates a new viewer for volume
func NewViewer(volume *models.ScalarVolume, opts Options) *Viewer {
	return &Viewer{volume: volume, opts: opts.withDefaults()}
}

// ParseAxis converts "x", "y" or "z" (any case) to an axis
func ParseAxis(s string) (grid.Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return grid.X, nil
	case "y":
		return grid.Y, nil
	case "z":
		return grid.Z, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", s)
}

// Slice is a plane of a volume at a fixed index along one axis. Its columns
// run along the first remaining axis and its rows along the second, so a
// slice at fixed z has x columns and y rows.
type Slice struct {
	// Axis is the fixed axis and Index the cell index along it
	Axis  grid.Axis
	Index int

	// Columns and Rows name the in-plane axes
	Columns, Rows grid.Axis

	xs, ys []float64
	values []float64 // column-major: values[c*len(ys)+r]
}

// inPlane returns the two axes spanning the plane perpendicular to a
func inPlane(a grid.Axis) (grid.Axis, grid.Axis) {
	switch a {
	case grid.X:
		return grid.Y, grid.Z
	case grid.Y:
		return grid.X, grid.Z
	default:
		return grid.X, grid.Y
	}
}

// ExtractSlice extracts the plane at position along axis
func (v *Viewer) ExtractSlice(axis grid.Axis, position int) (*Slice, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}
	shape := v.volume.Shape()
	if position >= shape[axis] {
		return nil, fmt.Errorf("position %d exceeds the %d cells along %s", position, shape[axis], axis)
	}

	cols, rows := inPlane(axis)
	s := &Slice{
		Axis:    axis,
		Index:   position,
		Columns: cols,
		Rows:    rows,
		xs:      v.volume.Grid.Centers(cols),
		ys:      v.volume.Grid.Centers(rows),
	}
	s.values = make([]float64, len(s.xs)*len(s.ys))

	var idx [3]int
	idx[axis] = position
	for c := range s.xs {
		idx[cols] = c
		for r := range s.ys {
			idx[rows] = r
			s.values[c*len(s.ys)+r] = v.volume.At(idx[0], idx[1], idx[2])
		}
	}
	return s, nil
}

// Dims returns the number of columns and rows
func (s *Slice) Dims() (c, r int) { return len(s.xs), len(s.ys) }

// Z returns the value of the cell in column c and row r
func (s *Slice) Z(c, r int) float64 { return s.values[c*len(s.ys)+r] }

// X returns the cell-center coordinate of column c
func (s *Slice) X(c int) float64 { return s.xs[c] }

// Y returns the cell-center coordinate of row r
func (s *Slice) Y(r int) float64 { return s.ys[r] }

// SaveSlice renders a slice of the viewed volume as a PNG file
func (v *Viewer) SaveSlice(s *Slice, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := Render(file, s, v.volume.Grid, v.opts); err != nil {
		return fmt.Errorf("error rendering %s: %w", filename, err)
	}
	return file.Close()
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis grid.Axis, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for pos := 0; pos < v.volume.Shape()[axis]; pos++ {
		s, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(s, filename); err != nil {
			return err
		}
	}

	return nil
}
