package visualization

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"picardgas/pkg/grid"
)

// Options controls how slices are rendered
type Options struct {
	// Width and Height of the image. Zero means 16 cm.
	Width, Height vg.Length

	// Colors is the number of palette entries. Zero means 256.
	Colors int

	// Lower and Upper clip the color scale in density units. Nil leaves the
	// limit to the data.
	Lower, Upper *float64

	// Logarithmic selects a log10 color scale. Cells with non-positive
	// density are drawn in the background color.
	Logarithmic bool

	// Unit labels the color bar
	Unit string
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 16 * vg.Centimeter
	}
	if o.Height == 0 {
		o.Height = 16 * vg.Centimeter
	}
	if o.Colors == 0 {
		o.Colors = 256
	}
	if o.Unit == "" {
		o.Unit = "cm^-3"
	}
	return o
}

// background is the color of cells without a value on the color scale
var background = color.Black

// logGrid shows the base-10 logarithm of a grid; non-positive values become NaN
type logGrid struct {
	plotter.GridXYZ
}

func (g logGrid) Z(c, r int) float64 {
	v := g.GridXYZ.Z(c, r)
	if v <= 0 {
		return math.NaN()
	}
	return math.Log10(v)
}

// colorRange returns the color-scale limits for g: the finite data range,
// overridden by the requested limits, widened if it is empty
func colorRange(g plotter.GridXYZ, lower, upper *float64, logarithmic bool) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	cols, rows := g.Dims()
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			v := g.Z(c, r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	limit := func(v *float64) (float64, bool) {
		switch {
		case v == nil:
			return 0, false
		case !logarithmic:
			return *v, true
		case *v <= 0:
			return 0, false
		}
		return math.Log10(*v), true
	}
	if v, ok := limit(lower); ok {
		lo = v
	}
	if v, ok := limit(upper); ok {
		hi = v
	}

	switch {
	case math.IsInf(lo, 0) && math.IsInf(hi, 0):
		return 0, 1
	case math.IsInf(lo, 0):
		lo = hi - 1
	case math.IsInf(hi, 0):
		hi = lo + 1
	}
	if lo >= hi {
		mid := (lo + hi) / 2
		lo, hi = mid-0.5, mid+0.5
	}
	return lo, hi
}

// HeatMapPlots builds the heat map of s and its color bar. The plot extent is
// the outer volume of g in the plane of the slice.
func HeatMapPlots(s *Slice, g grid.Descriptor, opts Options) (heat, bar *plot.Plot) {
	opts = opts.withDefaults()

	var data plotter.GridXYZ = s
	label := fmt.Sprintf("density / %s", opts.Unit)
	if opts.Logarithmic {
		data = logGrid{s}
		label = fmt.Sprintf("log10(density / %s)", opts.Unit)
	}
	lo, hi := colorRange(data, opts.Lower, opts.Upper, opts.Logarithmic)

	cmap := moreland.BlackBody()
	cmap.SetMin(lo)
	cmap.SetMax(hi)
	pal := cmap.Palette(opts.Colors)

	hm := plotter.NewHeatMap(data, pal)
	hm.Min, hm.Max = lo, hi
	colors := pal.Colors()
	hm.Underflow = colors[0]
	hm.Overflow = colors[len(colors)-1]
	hm.NaN = background

	heat = plot.New()
	heat.Title.Text = fmt.Sprintf("%s index = %d", s.Axis, s.Index)
	heat.X.Label.Text = fmt.Sprintf("%s / kpc", s.Columns)
	heat.Y.Label.Text = fmt.Sprintf("%s / kpc", s.Rows)
	heat.Add(hm)

	box := g.OuterVolume()
	heat.X.Min, heat.X.Max = extent(box, s.Columns)
	heat.Y.Min, heat.Y.Max = extent(box, s.Rows)

	bar = plot.New()
	bar.HideY()
	bar.X.Label.Text = label
	bar.Add(&plotter.ColorBar{ColorMap: cmap})

	return heat, bar
}

// extent returns the range of box along axis a
func extent(box r3.Box, a grid.Axis) (min, max float64) {
	switch a {
	case grid.X:
		return box.Min.X, box.Max.X
	case grid.Y:
		return box.Min.Y, box.Max.Y
	}
	return box.Min.Z, box.Max.Z
}

// Render draws s with a color bar below it and writes the PNG image to w
func Render(w io.Writer, s *Slice, g grid.Descriptor, opts Options) error {
	opts = opts.withDefaults()
	heat, bar := HeatMapPlots(s, g, opts)

	img := vgimg.New(opts.Width, opts.Height)
	dc := draw.New(img)

	barHeight := opts.Height / 6
	heat.Draw(draw.Crop(dc, 0, 0, barHeight, 0))
	bar.Draw(draw.Crop(dc, 0, 0, 0, barHeight-opts.Height))

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("error writing PNG: %w", err)
	}
	return nil
}
