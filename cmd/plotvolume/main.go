// Command plotvolume renders a slice of the gas density in a volume file as a
// heat map. By default it shows the x-y plane in the middle of the volume.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/plot/vg"

	"picardgas/pkg/config"
	"picardgas/pkg/visualization"
	"picardgas/pkg/volumefile"
)

func main() {
	configPath := flag.String("config", "", "YAML run configuration (default: built-in defaults)")
	axisName := flag.String("axis", "z", "Axis perpendicular to the plotted plane (x, y, or z)")
	zIndex := flag.Int("z", 0, "Slice index along -axis (default: number of cells / 2)")
	lower := flag.Float64("L", 0, "Lower density limit in cm^-3 (default: data minimum)")
	upper := flag.Float64("U", 0, "Upper density limit in cm^-3 (default: data maximum)")
	logarithmic := flag.Bool("l", false, "Logarithmic color scale")
	output := flag.String("o", "density.png", "Output PNG file")
	allDir := flag.String("all", "", "Also save every slice along -axis to this directory")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [options] <file *.nc>\n\nRenders a gas density plot of one slice.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	signCheck := func(name, description string, value float64) {
		if set[name] && value < 0 {
			log.Fatalf("%s has to be positive.", description)
		}
	}
	signCheck("z", "The slice index", float64(*zIndex))
	signCheck("L", "The lower limit", *lower)
	signCheck("U", "The upper limit", *upper)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	axis, err := visualization.ParseAxis(*axisName)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	file, err := volumefile.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read volume file: %v", err)
	}
	density, err := file.ReadVolume()
	meta := file.Metadata()
	file.Close()
	if err != nil {
		log.Fatalf("Failed to read volume file: %v", err)
	}
	if meta.Title != "" {
		fmt.Printf("Title: %s\n", meta.Title)
	}
	if meta.History != "" {
		fmt.Printf("Created by: %s (run %s)\n", meta.History, meta.RunID)
	}
	shape := density.Shape()
	fmt.Printf("Shape of the density: %v\n", shape)

	opts := visualization.Options{
		Width:       vg.Length(cfg.Plot.Width) * vg.Centimeter,
		Height:      vg.Length(cfg.Plot.Height) * vg.Centimeter,
		Colors:      cfg.Plot.Colors,
		Logarithmic: cfg.Plot.Logarithmic || *logarithmic,
	}
	if set["L"] {
		opts.Lower = lower
	}
	if set["U"] {
		opts.Upper = upper
	}

	index := shape[axis] / 2
	if set["z"] {
		index = *zIndex
	}

	viewer := visualization.NewViewer(density, opts)
	slice, err := viewer.ExtractSlice(axis, index)
	if err != nil {
		log.Fatalf("Failed to extract slice: %v", err)
	}
	if err := viewer.SaveSlice(slice, *output); err != nil {
		log.Fatalf("Failed to save plot: %v", err)
	}
	fmt.Printf("Plot of %s index %d saved to: %s\n", axis, index, *output)

	if *allDir != "" {
		fmt.Printf("Saving all %s-axis slices to: %s\n", axis, *allDir)
		if err := viewer.SaveSliceSequence(axis, *allDir); err != nil {
			log.Printf("Warning: Failed to save slices: %v", err)
		}
	}
}
