package interpolation

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"picardgas/internal/models"
	"picardgas/pkg/grid"
)

const testTolerance = 1e-10

// linearField is an exact linear function of the position, which trilinear
// interpolation has to reproduce everywhere inside the grid
func linearField(x, y, z float64) float64 {
	const (
		c0 = -3.42
		cx = 0.435
		cy = 3.21
		cz = -0.3
	)
	return c0 + cx*x + cy*y + cz*z
}

// sampleField samples f at the cell centers of g
func sampleField(t testing.TB, g grid.Descriptor, f func(x, y, z float64) float64) *models.ScalarVolume {
	t.Helper()
	v := models.ZeroVolume(g)
	xs, ys, zs := g.Centers(grid.X), g.Centers(grid.Y), g.Centers(grid.Z)
	for ix, x := range xs {
		for iy, y := range ys {
			for iz, z := range zs {
				v.Set(ix, iy, iz, f(x, y, z))
			}
		}
	}
	return v
}

func linearTestGrid(t testing.TB) grid.Descriptor {
	t.Helper()
	g, err := grid.FromParameters(-44.31, 20.1, 9, -35.9, 11.07, 19, -29.92, 35.84, 25)
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}
	return g
}

// TestLinearFieldExactness verifies that a linear field is reproduced within
// floating-point tolerance at interior points
func TestLinearFieldExactness(t *testing.T) {
	g := linearTestGrid(t)
	interp := NewTrilinear(sampleField(t, g, linearField))

	points := [][3]float64{
		{19.32, -5.32, 19.37},
		{-13.74, -9.82, 1.12},
		{-16.74, -29.7, 11.68},
		{-39.32, -24.28, 31.94},
	}
	for _, p := range points {
		s := interp.Evaluate(p[0], p[1], p[2])
		if s.OutOfDomain {
			t.Errorf("Point %v unexpectedly out of domain", p)
			continue
		}
		expected := linearField(p[0], p[1], p[2])
		if deviation := math.Abs(expected - s.Value); deviation > testTolerance {
			t.Errorf("At %v expected %.15g, got %.15g (deviation %g)", p, expected, s.Value, deviation)
		}
	}

	// Random points between the first and the last cell center
	rng := rand.New(rand.NewSource(42))
	limits := g.CellCenterLimits()
	for i := 0; i < 1000; i++ {
		var p [3]float64
		for _, a := range grid.Axes {
			lo, hi := limits[a][0], limits[a][1]
			p[a] = lo + (0.0005+rng.Float64()*0.999)*(hi-lo)
		}
		value, err := interp.At(p[0], p[1], p[2])
		if err != nil {
			t.Fatalf("At(%v) failed: %v", p, err)
		}
		expected := linearField(p[0], p[1], p[2])
		if math.Abs(expected-value) > testTolerance {
			t.Fatalf("At %v expected %.15g, got %.15g", p, expected, value)
		}
	}
}

// TestSamplePoints verifies that the interpolation passes through the samples
// whose enclosing cube lies inside the grid
func TestSamplePoints(t *testing.T) {
	g := linearTestGrid(t)
	v := sampleField(t, g, func(x, y, z float64) float64 { return math.Sin(x) * math.Cos(y) * z })
	interp := NewTrilinear(v)

	xs, ys, zs := g.Centers(grid.X), g.Centers(grid.Y), g.Centers(grid.Z)
	for _, ix := range []int{1, 3, 7} {
		for _, iy := range []int{1, 9, 17} {
			for _, iz := range []int{1, 12, 23} {
				s := interp.Evaluate(xs[ix], ys[iy], zs[iz])
				if s.OutOfDomain {
					t.Fatalf("Sample (%d, %d, %d) out of domain", ix, iy, iz)
				}
				if math.Abs(s.Value-v.At(ix, iy, iz)) > 1e-9 {
					t.Errorf("Sample (%d, %d, %d): expected %g, got %g", ix, iy, iz, v.At(ix, iy, iz), s.Value)
				}
			}
		}
	}
}

// TestFirstSamplePoint checks the first cell center of a grid with decimal
// limits. Rounding may put it a hair below the lowest valid base index, so it
// is either out of domain or the exact sample, never anything else.
func TestFirstSamplePoint(t *testing.T) {
	g := linearTestGrid(t)
	v := sampleField(t, g, linearField)
	interp := NewTrilinear(v)

	x, y, z := g.Centers(grid.X)[0], g.Centers(grid.Y)[0], g.Centers(grid.Z)[0]
	s := interp.Evaluate(x, y, z)
	if s.OutOfDomain {
		if s.Value != 0 {
			t.Errorf("Out-of-domain sample carries value %g", s.Value)
		}
		return
	}
	if math.Abs(s.Value-v.At(0, 0, 0)) > testTolerance {
		t.Errorf("First sample: expected %g, got %g", v.At(0, 0, 0), s.Value)
	}
}

// TestBoundaryClassification checks points on, beyond and just inside the
// outer boundary of a 10×10×10 grid with unit cells and outer volume [0, 10]³
func TestBoundaryClassification(t *testing.T) {
	g, err := grid.New(grid.Limits{{0.5, 9.5}, {0.5, 9.5}, {0.5, 9.5}}, [3]int{10, 10, 10})
	if err != nil {
		t.Fatal(err)
	}
	interp := NewTrilinear(sampleField(t, g, linearField))

	tests := []struct {
		name   string
		p      [3]float64
		inside bool
	}{
		{"center", [3]float64{5, 5, 5}, true},
		{"one cell inside lower boundary", [3]float64{1, 1, 1}, true},
		{"one cell inside upper boundary", [3]float64{9, 9, 9}, true},
		{"first cell center on exact dyadic limits", [3]float64{0.5, 0.5, 0.5}, true},
		{"on lower boundary", [3]float64{0, 5, 5}, false},
		{"on upper boundary", [3]float64{5, 10, 5}, false},
		{"beyond lower boundary", [3]float64{5, 5, -3}, false},
		{"beyond upper boundary", [3]float64{12, 5, 5}, false},
		{"within half a cell of lower boundary", [3]float64{5, 0.25, 5}, false},
		{"within half a cell of upper boundary", [3]float64{5, 5, 9.75}, false},
		{"last cell center", [3]float64{9.5, 5, 5}, false},
		{"not a number", [3]float64{math.NaN(), 5, 5}, false},
		{"infinite", [3]float64{5, math.Inf(-1), 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := interp.Evaluate(tt.p[0], tt.p[1], tt.p[2])
			if s.OutOfDomain == tt.inside {
				t.Fatalf("Evaluate(%v).OutOfDomain = %v, want %v", tt.p, s.OutOfDomain, !tt.inside)
			}

			_, err := interp.At(tt.p[0], tt.p[1], tt.p[2])
			var outside *PointOutsideGridError
			if tt.inside && err != nil {
				t.Errorf("At(%v) failed: %v", tt.p, err)
			}
			if !tt.inside && !errors.As(err, &outside) {
				t.Errorf("At(%v) expected PointOutsideGridError, got %v", tt.p, err)
			}
			if s.OutOfDomain && s.Value != 0 {
				t.Errorf("Out-of-domain sample carries value %g", s.Value)
			}
		})
	}
}

// TestCornerWeights verifies that the weights are non-negative and sum to one
func TestCornerWeights(t *testing.T) {
	fractions := []float64{0, 0.1, 0.25, 0.5, 0.731, 0.999999}
	for _, fx := range fractions {
		for _, fy := range fractions {
			for _, fz := range fractions {
				w := CornerWeights(fx, fy, fz)
				sum := 0.0
				for i, wi := range w {
					if wi < 0 {
						t.Errorf("Weight %d for (%g, %g, %g) is negative: %g", i, fx, fy, fz, wi)
					}
					sum += wi
				}
				if math.Abs(sum-1) > 1e-14 {
					t.Errorf("Weights for (%g, %g, %g) sum to %.17g", fx, fy, fz, sum)
				}
			}
		}
	}

	w := CornerWeights(0, 0, 0)
	if w[0] != 1 {
		t.Errorf("Expected all weight on corner 000 at the origin, got %v", w)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	g := linearTestGrid(b)
	interp := NewTrilinear(sampleField(b, g, linearField))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		interp.Evaluate(-13.74, -9.82, 1.12)
	}
}

// TestCellSizeMatchesGrid verifies that the outer extent divided by the cell
// count gives the same cell size as the grid's center spacing
func TestCellSizeMatchesGrid(t *testing.T) {
	for _, g := range []grid.Descriptor{grid.SourceSurvey, linearTestGrid(t)} {
		interp := NewTrilinear(models.ZeroVolume(g))
		for _, a := range grid.Axes {
			if deviation := math.Abs(interp.cellSize[a] - g.CellSize(a)); deviation > 1e-12 {
				t.Errorf("Cell size along %s: interpolator %v, grid %v", a, interp.cellSize[a], g.CellSize(a))
			}
		}
	}
	if got := NewTrilinear(models.ZeroVolume(grid.SourceSurvey)).cellSize[grid.Z]; got != 1.0/16 {
		t.Errorf("Survey cell size along z = %v, want 1/16", got)
	}
}
