// Package resample evaluates a scalar volume at the cell centers of another
// grid.
package resample

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"picardgas/internal/models"
	"picardgas/pkg/grid"
	"picardgas/pkg/interpolation"
)

// Params holds the resampling parameters
type Params struct {
	// FillValue is stored in every target cell whose center has no
	// interpolation neighbourhood in the source volume. Cells outside the
	// source are regions without gas, hence the default of 0.
	FillValue float64

	// Workers is the number of goroutines evaluating x-planes of the target
	// grid concurrently. Values below 1 mean runtime.NumCPU().
	Workers int

	// Progress, if set, is called after every finished x-plane. Calls are
	// serialized and completed increases by one on each call.
	Progress ProgressCallback
}

// Report describes a finished resampling pass
type Report struct {
	// Points is the number of target cells evaluated
	Points int

	// Filled is the number of target cells that received the fill value
	Filled int
}

// Driver resamples source volumes onto target grids
type Driver struct {
	params Params
}

// NewDriver creates a new driver with the provided parameters
func NewDriver(params Params) *Driver {
	if params.Workers < 1 {
		params.Workers = runtime.NumCPU()
	}
	return &Driver{params: params}
}

// Workers returns the number of x-planes evaluated concurrently
func (d *Driver) Workers() int { return d.params.Workers }

// Resample evaluates source at every cell center of target by trilinear
// interpolation and returns the volume on target. The source is only read.
//
// Each x-plane of the target is an independent task writing to its own part
// of the output; no locking is needed on the data. If ctx is cancelled no
// further planes are started and ctx.Err() is returned without output.
func (d *Driver) Resample(ctx context.Context, source *models.ScalarVolume, target grid.Descriptor) (*models.ScalarVolume, Report, error) {
	interp := interpolation.NewTrilinear(source)
	out := models.ZeroVolume(target)

	xs, ys, zs := target.Centers(grid.X), target.Centers(grid.Y), target.Centers(grid.Z)
	planeSize := len(ys) * len(zs)

	var (
		filled    atomic.Int64
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.params.Workers)
	for ix := range xs {
		if gctx.Err() != nil {
			break
		}
		ix := ix
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			x := xs[ix]
			start := out.Index(ix, 0, 0)
			plane := out.Data[start : start+planeSize]
			n, i := 0, 0
			for _, y := range ys {
				for _, z := range zs {
					s := interp.Evaluate(x, y, z)
					if s.OutOfDomain {
						plane[i] = d.params.FillValue
						n++
					} else {
						plane[i] = s.Value
					}
					i++
				}
			}
			filled.Add(int64(n))

			if d.params.Progress != nil {
				mu.Lock()
				completed++
				d.params.Progress(completed, len(xs))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Report{}, err
	}

	return out, Report{Points: len(out.Data), Filled: int(filled.Load())}, nil
}

// Resample is a shorthand for a default driver with the given fill value
// and no progress reporting
func Resample(source *models.ScalarVolume, target grid.Descriptor, fillValue float64) *models.ScalarVolume {
	out, _, err := NewDriver(Params{FillValue: fillValue}).Resample(context.Background(), source, target)
	if err != nil {
		// only cancellation fails, and the background context is never cancelled
		panic(err)
	}
	return out
}
