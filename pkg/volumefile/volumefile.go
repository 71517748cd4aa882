// Package volumefile stores scalar volumes in NetCDF files.
//
// A volume file holds the gas density on a regular grid together with the
// two limit arrays that anchor it in space:
//
//	gas_density(x, y, z)                  cm^-3
//	grid_volume_limits(axis, bound)       kpc
//	grid_cell_center_limits(axis, bound)  kpc
//
// Every variable carries a "unit" and a "description" attribute.
package volumefile

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/google/uuid"

	"picardgas/internal/models"
	"picardgas/pkg/grid"
)

// Variable names and units
const (
	DensityVariable          = "gas_density"
	VolumeLimitsVariable     = "grid_volume_limits"
	CellCenterLimitsVariable = "grid_cell_center_limits"
	DensityUnit              = "cm^-3"
	LengthUnit               = "kpc"
)

const (
	densityDescription      = "particle density of the gas"
	volumeLimitsDescription = "x, y, and z limits of the volume represented by the grid"
	centerLimitsDescription = "x, y, and z limits of the cell centers"
	unitAttribute           = "unit"
	descriptionAttribute    = "description"

	// relative tolerance when comparing stored and derived cell-center limits
	limitsTolerance = 1e-9
)

var (
	// ErrFileExists is returned when a volume file would overwrite an
	// existing file
	ErrFileExists = errors.New("file already exists")

	// ErrFileNotFound is returned when a volume file to read does not exist
	ErrFileNotFound = errors.New("file does not exist")
)

// Metadata holds the global attributes of a volume file
type Metadata struct {
	// Title describes the content of the file
	Title string

	// History names the command that produced the file
	History string

	// RunID identifies the run that produced the file. A random UUID is used
	// when empty.
	RunID string
}

// CheckDestination returns ErrFileExists if path exists. Commands call it
// before doing any work so that an existing file is never overwritten.
func CheckDestination(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("the file '%s': %w", path, ErrFileExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error checking destination %s: %w", path, err)
	}
	return nil
}

// Write stores v in a new volume file at path. It refuses to overwrite an
// existing file.
func Write(path string, v *models.ScalarVolume, meta Metadata) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("the file '%s': %w", path, ErrFileExists)
	}
	if err != nil {
		return fmt.Errorf("error creating volume file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("error closing volume file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}

	shape := v.Shape()
	h := cdf.NewHeader(
		[]string{"x", "y", "z", "axis", "bound"},
		[]int{shape[0], shape[1], shape[2], 3, 2})
	for _, attr := range [][2]string{
		{"title", meta.Title},
		{"history", meta.History},
		{"run_id", meta.RunID},
	} {
		if attr[1] != "" {
			h.AddAttribute("", attr[0], attr[1])
		}
	}

	h.AddVariable(DensityVariable, []string{"x", "y", "z"}, []float64{0})
	h.AddAttribute(DensityVariable, unitAttribute, DensityUnit)
	h.AddAttribute(DensityVariable, descriptionAttribute, densityDescription)

	h.AddVariable(VolumeLimitsVariable, []string{"axis", "bound"}, []float64{0})
	h.AddAttribute(VolumeLimitsVariable, unitAttribute, LengthUnit)
	h.AddAttribute(VolumeLimitsVariable, descriptionAttribute, volumeLimitsDescription)

	h.AddVariable(CellCenterLimitsVariable, []string{"axis", "bound"}, []float64{0})
	h.AddAttribute(CellCenterLimitsVariable, unitAttribute, LengthUnit)
	h.AddAttribute(CellCenterLimitsVariable, descriptionAttribute, centerLimitsDescription)
	h.Define()

	nc, err := cdf.Create(f, h)
	if err != nil {
		return fmt.Errorf("error writing volume file header: %w", err)
	}

	if err := writeVariable(nc, DensityVariable, v.Data); err != nil {
		return err
	}
	if err := writeVariable(nc, VolumeLimitsVariable, flatten(v.Grid.OuterVolumeLimits())); err != nil {
		return err
	}
	return writeVariable(nc, CellCenterLimitsVariable, flatten(v.Grid.CellCenterLimits()))
}

func writeVariable(nc *cdf.File, name string, data []float64) error {
	end := nc.Header.Lengths(name)
	n := 1
	for _, l := range end {
		n *= l
	}
	if len(data) != n {
		return &models.DimensionMismatchError{
			Detail: fmt.Sprintf("variable %s has %d elements but %d values were given", name, n, len(data)),
		}
	}
	w := nc.Writer(name, make([]int, len(end)), end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing variable %s: %w", name, err)
	}
	return nil
}

func flatten(l grid.Limits) []float64 {
	return []float64{l[0][0], l[0][1], l[1][0], l[1][1], l[2][0], l[2][1]}
}

func unflatten(data []float64) grid.Limits {
	return grid.Limits{{data[0], data[1]}, {data[2], data[3]}, {data[4], data[5]}}
}

// Reader reads a volume file
type Reader struct {
	path string
	f    *os.File
	nc   *cdf.File
}

// Open opens the volume file at path for reading
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("the file '%s': %w", path, ErrFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error opening volume file: %w", err)
	}
	nc, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error reading volume file %s: %w", path, err)
	}
	return &Reader{path: path, f: f, nc: nc}, nil
}

// Close closes the underlying file
func (r *Reader) Close() error {
	return r.f.Close()
}

// Attribute returns a string attribute of a variable, or a global attribute
// if variable is empty. It returns "" if the attribute does not exist.
func (r *Reader) Attribute(variable, name string) string {
	s, _ := r.nc.Header.GetAttribute(variable, name).(string)
	return s
}

// Metadata returns the global attributes
func (r *Reader) Metadata() Metadata {
	return Metadata{
		Title:   r.Attribute("", "title"),
		History: r.Attribute("", "history"),
		RunID:   r.Attribute("", "run_id"),
	}
}

func (r *Reader) hasVariable(name string) bool {
	for _, v := range r.nc.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

func (r *Reader) readVariable(name string) ([]float64, []int, error) {
	if !r.hasVariable(name) {
		return nil, nil, fmt.Errorf("volume file %s has no variable %s", r.path, name)
	}
	lengths := r.nc.Header.Lengths(name)
	n := 1
	for _, l := range lengths {
		n *= l
	}
	data := make([]float64, n)
	if _, err := r.nc.Reader(name, nil, nil).Read(data); err != nil {
		return nil, nil, fmt.Errorf("error reading variable %s from %s: %w", name, r.path, err)
	}
	return data, lengths, nil
}

// ReadDensity returns the density samples and their shape
func (r *Reader) ReadDensity() ([]float64, [3]int, error) {
	data, lengths, err := r.readVariable(DensityVariable)
	if err != nil {
		return nil, [3]int{}, err
	}
	if len(lengths) != 3 {
		return nil, [3]int{}, &models.DimensionMismatchError{
			Detail: fmt.Sprintf("%s in %s has %d dimensions instead of 3", DensityVariable, r.path, len(lengths)),
		}
	}
	return data, [3]int{lengths[0], lengths[1], lengths[2]}, nil
}

func (r *Reader) readLimits(name string) (grid.Limits, error) {
	data, lengths, err := r.readVariable(name)
	if err != nil {
		return grid.Limits{}, err
	}
	if len(lengths) != 2 || lengths[0] != 3 || lengths[1] != 2 {
		return grid.Limits{}, &models.DimensionMismatchError{
			Detail: fmt.Sprintf("%s in %s has shape %v instead of [3 2]", name, r.path, lengths),
		}
	}
	return unflatten(data), nil
}

// ReadVolumeLimits returns the outer-volume limits
func (r *Reader) ReadVolumeLimits() (grid.Limits, error) {
	return r.readLimits(VolumeLimitsVariable)
}

// ReadCellCenterLimits returns the cell-center limits. ok is false if the
// file does not store them.
func (r *Reader) ReadCellCenterLimits() (limits grid.Limits, ok bool, err error) {
	if !r.hasVariable(CellCenterLimitsVariable) {
		return grid.Limits{}, false, nil
	}
	limits, err = r.readLimits(CellCenterLimitsVariable)
	return limits, err == nil, err
}

// ReadVolume reads the density and rebuilds its grid from the outer-volume
// limits. Stored cell-center limits have to agree with that grid.
func (r *Reader) ReadVolume() (*models.ScalarVolume, error) {
	data, shape, err := r.ReadDensity()
	if err != nil {
		return nil, err
	}
	outer, err := r.ReadVolumeLimits()
	if err != nil {
		return nil, err
	}
	g, err := grid.FromOuterVolumeLimits(outer, shape)
	if err != nil {
		return nil, fmt.Errorf("grid of volume file %s: %w", r.path, err)
	}

	centers, ok, err := r.ReadCellCenterLimits()
	if err != nil {
		return nil, err
	}
	if ok {
		derived := g.CellCenterLimits()
		for _, a := range grid.Axes {
			for i := 0; i < 2; i++ {
				scale := math.Max(1, math.Abs(centers[a][i]))
				if math.Abs(derived[a][i]-centers[a][i]) > limitsTolerance*scale {
					return nil, &models.DimensionMismatchError{
						Detail: fmt.Sprintf("cell-center limits %v along %s in %s do not match the volume limits %v and %d cells",
							centers[a], a, r.path, outer[a], shape[a]),
					}
				}
			}
		}
	}

	return models.NewScalarVolume(data, g)
}

// ReadVolume opens the volume file at path and reads the volume it contains
func ReadVolume(path string) (*models.ScalarVolume, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadVolume()
}
