package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "parse":
		if err := parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "convert":
		if err := convert(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mask":
		if err := maskCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "import":
		if err := importCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := exportCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := listCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("pyregion version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pyregion - DS9/CIAO region file tool

Usage:
  pyregion <command> [options]

Commands:
  parse      Parse a region file and print its shapes
  convert    Convert a region file to another coordinate system
  mask       Rasterize a region file into a PNG mask
  import     Import a region file into the catalog database
  export     Export a catalog document back to region text
  list       List catalog documents
  help       Show this help message
  version    Show version information

Examples:
  # Parse and echo a region file
  pyregion parse ds9.reg

  # Convert to galactic coordinates
  pyregion convert ds9.reg --to galactic

  # Rasterize to a 512x512 mask image
  pyregion mask ds9.reg --width 512 --height 512 --output mask.png

  # Catalog round trip
  pyregion import ds9.reg --db catalog.db --name m106
  pyregion list --db catalog.db

For command-specific help, run:
  pyregion <command> --help`)
}
