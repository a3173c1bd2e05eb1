package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sargas/pyregion/region"
)

func parse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	outputJSON := fs.Bool("json", false, "Output shapes as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pyregion parse <file.reg> [options]

Parse a DS9/CIAO region file and print each shape with its coordinate
system and display properties.

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

	if *outputJSON {
		out := make([]map[string]any, len(shapes))
		for i, s := range shapes {
			out[i] = map[string]any{
				"shape":      s.Name(),
				"system":     s.CoordSystem().Name(),
				"coords":     s.CoordList(),
				"properties": s.Properties().Map(),
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%d shape(s)\n", len(shapes))
	for i, s := range shapes {
		fmt.Printf("%3d  %-8s %-9s %v", i, s.Name(), s.CoordSystem().Name(), s.CoordList())
		if tags := s.Properties().Tag(); len(tags) > 0 {
			fmt.Printf("  tags=%v", tags)
		}
		if !s.Properties().Include() {
			fmt.Print("  excluded")
		}
		if s.Properties().IsBackground() {
			fmt.Print("  background")
		}
		fmt.Println()
	}
	return nil
}
