// Command interpolategas projects a gas density onto the grid of a Picard
// simulation. It evaluates the density at the cell centers of the grid
// declared in a Picard parameter file by trilinear interpolation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"picardgas/pkg/config"
	"picardgas/pkg/paramfile"
	"picardgas/pkg/resample"
	"picardgas/pkg/volumefile"
)

func main() {
	configPath := flag.String("config", "", "YAML run configuration (default: built-in defaults)")
	workers := flag.Int("workers", 0, "Number of x-planes interpolated concurrently (default: from config)")
	fill := flag.Float64("fill", 0, "Density of cells outside the source volume in cm^-3 (default: from config)")
	quiet := flag.Bool("quiet", false, "Do not show the progress bar")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [options] <source *.nc> <destination *.nc> <parameter *.nx>\n\n"+
				"Projects the gas density onto the grid specified by the Picard parameter file.\n\n",
			os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}
	sourcePath, destinationPath, parameterPath := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	// Fail before doing any work
	if err := volumefile.CheckDestination(destinationPath); err != nil {
		log.Fatalf("Error: %v", err)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Resample.Workers = *workers
		case "fill":
			cfg.Resample.FillValue = *fill
		case "quiet":
			cfg.Resample.Progress = !*quiet
		}
	})

	if cfg.Output.Verbose {
		fmt.Println("================================")
		fmt.Println("GAS DENSITY INTERPOLATION ONTO THE PICARD GRID")
		fmt.Println("================================")
	}

	parameters, err := paramfile.Load(parameterPath)
	if err != nil {
		log.Fatalf("Failed to read parameter file: %v", err)
	}
	target, err := paramfile.TargetGrid(parameters)
	if err != nil {
		log.Fatalf("Invalid simulation grid: %v", err)
	}

	source, err := volumefile.ReadVolume(sourcePath)
	if err != nil {
		log.Fatalf("Failed to read source volume: %v", err)
	}

	params := resample.Params{
		FillValue: cfg.Resample.FillValue,
		Workers:   cfg.Resample.Workers,
	}
	if cfg.Resample.Progress {
		params.Progress = resample.ProgressBar(os.Stdout)
	}
	driver := resample.NewDriver(params)

	if cfg.Output.Verbose {
		fmt.Printf("Source grid: %s\n", source.Grid)
		fmt.Printf("Target grid: %s\n", target)
		fmt.Printf("Interpolating with %d workers...\n", driver.Workers())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	density, report, err := driver.Resample(ctx, source, target)
	if err != nil {
		stop()
		log.Fatalf("Interpolation failed: %v", err)
	}
	processingTime := time.Since(startTime)

	meta := volumefile.Metadata{
		Title:   cfg.Output.Title,
		History: strings.Join(os.Args, " "),
	}
	if err := volumefile.Write(destinationPath, density, meta); err != nil {
		stop()
		log.Fatalf("Failed to write destination volume: %v", err)
	}

	if cfg.Output.Verbose {
		fmt.Printf("\nInterpolation completed in %.2f seconds!\n", processingTime.Seconds())
		fmt.Printf("Output saved to: %s\n\n", destinationPath)
		fmt.Printf("Cells evaluated: %d\n", report.Points)
		fmt.Printf("Cells outside the source volume: %d (set to %g)\n", report.Filled, cfg.Resample.FillValue)
		fmt.Printf("Density: %s\n", density.Summarize())
	}
}
