package paramfile

import (
	"fmt"

	"picardgas/internal/models"
	"picardgas/pkg/grid"
)

// GridSection is the section holding the extent of the simulation grid
const GridSection = "Grid"

// TargetGrid returns the simulation grid described by a parameter file. The
// file has to declare three spatial dimensions; the cell-center limits and
// cell counts are read from x_min, x_max, n_xgrid, ... in the Grid section.
func TargetGrid(f *File) (grid.Descriptor, error) {
	dims, err := f.Int(NoSection, "n_spatial_dimensions", 0)
	if err != nil {
		return grid.Descriptor{}, err
	}
	if dims != 3 {
		return grid.Descriptor{}, &models.DimensionMismatchError{
			Detail: fmt.Sprintf("the value of the parameter n_spatial_dimensions in the parameter file %s is %d and not 3",
				f.name, dims),
		}
	}

	var (
		limits grid.Limits
		counts [3]int
	)
	for _, a := range grid.Axes {
		if limits[a][0], err = f.Float(GridSection, a.String()+"_min", 0); err != nil {
			return grid.Descriptor{}, err
		}
		if limits[a][1], err = f.Float(GridSection, a.String()+"_max", 0); err != nil {
			return grid.Descriptor{}, err
		}
		if counts[a], err = f.Int(GridSection, "n_"+a.String()+"grid", 0); err != nil {
			return grid.Descriptor{}, err
		}
	}

	g, err := grid.New(limits, counts)
	if err != nil {
		return grid.Descriptor{}, fmt.Errorf("grid of the parameter file %s: %w", f.name, err)
	}
	return g, nil
}
