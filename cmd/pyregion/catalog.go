package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sargas/pyregion/region"
	"github.com/sargas/pyregion/store"
)

func importCmd(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := fs.String("db", "catalog.db", "Catalog database path")
	name := fs.String("name", "", "Document name (defaults to the file name)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pyregion import <file.reg> [options]

Parse a region file and store it as a document in the catalog database.

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

	file := fs.Arg(0)
	shapes, err := region.ParseFile(file)
	if err != nil {
		return err
	}

	s, err := store.New(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	docName := *name
	if docName == "" {
		docName = filepath.Base(file)
	}
	id, err := s.SaveDocument(docName, shapes)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d shape(s) as document %s\n", len(shapes), id)
	return nil
}

func exportCmd(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", "catalog.db", "Catalog database path")
	output := fs.String("output", "", "Write region text to file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pyregion export <document-id> [options]

Load a catalog document and render it back to region-file text.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("document id required")
	}

	s, err := store.New(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := s.ExportText(fs.Arg(0))
	if err != nil {
		return err
	}
	if *output != "" {
		if err := os.WriteFile(*output, []byte(text), 0644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Region written to %s\n", *output)
		return nil
	}
	fmt.Print(text)
	return nil
}

func listCmd(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dbPath := fs.String("db", "catalog.db", "Catalog database path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pyregion list [options]

List the documents stored in the catalog database.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := store.New(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.ListDocuments()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents")
		return nil
	}
	for _, d := range docs {
		fmt.Printf("%s  %-20s %3d shape(s)  %s\n",
			d.ID, d.Name, d.Shapes, d.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
