package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sargas/pyregion/region"
	"github.com/sargas/pyregion/wcs"
)

func convert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	to := fs.String("to", "fk5", "Target coordinate system (fk5, fk4, icrs, galactic, ecliptic, image, physical)")
	output := fs.String("output", "", "Write converted region text to file instead of stdout")
	crval1 := fs.Float64("crval1", 0, "Projection reference longitude in degrees")
	crval2 := fs.Float64("crval2", 0, "Projection reference latitude in degrees")
	crpix1 := fs.Float64("crpix1", 0, "Projection reference pixel x")
	crpix2 := fs.Float64("crpix2", 0, "Projection reference pixel y")
	cdelt1 := fs.Float64("cdelt1", 0, "Plate scale along x in degrees per pixel")
	cdelt2 := fs.Float64("cdelt2", 0, "Plate scale along y in degrees per pixel")
	crota2 := fs.Float64("crota2", 0, "Grid rotation in degrees")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pyregion convert <file.reg> --to <system> [options]

Convert every shape in a region file into the target coordinate system.
Crossing between sky and pixel systems needs a tangent-plane projection,
given with the FITS-style --crval/--crpix/--cdelt flags.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Sky to sky
  pyregion convert ds9.reg --to galactic

  # Sky to image pixels
  pyregion convert ds9.reg --to image \
    --crval1 185.63 --crval2 29.77 --crpix1 32 --crpix2 32 \
    --cdelt1 -0.016667 --cdelt2 0.016667
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("region file required")
	}

	frame, ok := wcs.FrameByName(*to)
	if !ok {
		return fmt.Errorf("unknown coordinate system %q", *to)
	}
	if frame.PixelClass() && *cdelt1 != 0 && *cdelt2 != 0 {
		frame = frame.WithProjection(&wcs.Projection{
			Frame:  wcs.FK5,
			CRVAL1: *crval1, CRVAL2: *crval2,
			CRPIX1: *crpix1, CRPIX2: *crpix2,
			CDELT1: *cdelt1, CDELT2: *cdelt2,
			CROTA2: *crota2,
		})
	}

	shapes, err := region.ParseFile(fs.Arg(0))
	if err != nil {
		return err
	}

	converted := make(region.ShapeList, len(shapes))
	for i, s := range shapes {
		c, err := s.TransformTo(frame)
		if err != nil {
			return fmt.Errorf("shape %d (%s): %w", i, s.Name(), err)
		}
		converted[i] = c
	}

	text := converted.String()
	if *output != "" {
		if err := os.WriteFile(*output, []byte(text), 0644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Converted region written to %s\n", *output)
		return nil
	}
	fmt.Print(text)
	return nil
}
