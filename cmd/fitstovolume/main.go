// Command fitstovolume converts the 3D FITS density cubes of the source
// survey (https://zenodo.org/record/5501196) to volume files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"picardgas/pkg/fitsimage"
	"picardgas/pkg/volumefile"
)

func main() {
	title := flag.String("title", "gas density", "Title stored in the volume file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [options] <source *.fits> <destination *.nc>\n\n"+
				"Converts a 3D FITS density cube of the source survey to a volume file.\n\n",
			os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	sourcePath, destinationPath := flag.Arg(0), flag.Arg(1)

	if err := volumefile.CheckDestination(destinationPath); err != nil {
		log.Fatalf("Error: %v", err)
	}

	density, err := fitsimage.ReadSurvey(sourcePath)
	if err != nil {
		log.Fatalf("Failed to read FITS file: %v", err)
	}

	meta := volumefile.Metadata{
		Title:   *title,
		History: strings.Join(os.Args, " "),
	}
	if err := volumefile.Write(destinationPath, density, meta); err != nil {
		log.Fatalf("Failed to write volume file: %v", err)
	}

	fmt.Printf("Grid: %s\n", density.Grid)
	fmt.Printf("Density: %s\n", density.Summarize())
	fmt.Printf("Output saved to: %s\n", destinationPath)
}
