package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/sargas/pyregion/mask"
	"github.com/sargas/pyregion/region"
)

func maskCmd(args []string) error {
	fs := flag.NewFlagSet("mask", flag.ExitOnError)
	width := fs.Int("width", 512, "Mask width in pixels")
	height := fs.Int("height", 512, "Mask height in pixels")
	output := fs.String("output", "mask.png", "Output PNG file")
	overlay := fs.Bool("overlay", false, "Render a colored overlay instead of a binary mask")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pyregion mask <file.reg> [options]

Rasterize the region file onto a pixel grid and write the result as PNG.
All shapes must be in a pixel-class coordinate system (image or physical).

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("region file required")
	}

	shapes, err := region.ParseFile(fs.Arg(0))
	if err != nil {
		return err
	}

	var img image.Image
	if *overlay {
		rgba := image.NewRGBA(image.Rect(0, 0, *width, *height))
		if err := mask.Overlay(rgba, shapes); err != nil {
			return err
		}
		img = rgba
	} else {
		m, err := mask.FromShapes(shapes, *width, *height)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d of %d pixels inside\n", m.Count(), m.Width()*m.Height())
		img = m.Image()
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Mask written to %s\n", *output)
	return nil
}
