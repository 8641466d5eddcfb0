// Command makocodectl encodes a file into one or more MakoCode raster
// pages, or decodes a set of pages back into the original file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/justinbass/makocode"
	"github.com/justinbass/makocode/internal/ppm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "encode":
		runEncode(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: makocodectl encode -in FILE -out DIR [-c 1|2|3] [-w PX] [-h PX] [-title STR] [-font N]")
	fmt.Fprintln(os.Stderr, "       makocodectl decode -out FILE PAGE.ppm [PAGE.ppm ...]")
}

func runEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	in := fs.String("in", "", "input payload file")
	out := fs.String("out", ".", "output directory for raster pages")
	colorChannels := fs.Int("c", 1, "color_channels: 1, 2, or 3")
	width := fs.Int("w", 500, "page width in pixels")
	height := fs.Int("h", 500, "page height in pixels")
	title := fs.String("title", "", "optional footer title")
	font := fs.Int("font", 1, "title font scale")
	fs.Parse(args)

	if *in == "" {
		log.Fatal("-in is required")
	}

	payload, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("reading %s: %v", *in, err)
	}

	cfg := makocode.Config{
		ColorChannels: *colorChannels,
		PageWidthPx:   *width,
		PageHeightPx:  *height,
		Title:         *title,
		TitleFont:     *font,
	}

	pages, err := makocode.Encode(payload, cfg)
	if err != nil {
		log.Fatalf("encode: %v", err)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("creating %s: %v", *out, err)
	}

	err = makocode.WritePages(pages, func(name string) (io.WriteCloser, error) {
		return os.Create(filepath.Join(*out, name))
	})
	if err != nil {
		log.Fatalf("writing pages: %v", err)
	}

	fmt.Printf("wrote %d page(s) to %s\n", len(pages), *out)
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	out := fs.String("out", "", "output payload file")
	fs.Parse(args)

	paths := fs.Args()
	if *out == "" || len(paths) == 0 {
		log.Fatal("-out and at least one page path are required")
	}

	rasters := make([]ppm.Page, len(paths))
	for i, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			log.Fatalf("opening %s: %v", p, err)
		}
		page, err := ppm.Parse(f)
		f.Close()
		if err != nil {
			log.Fatalf("parsing %s: %v", p, err)
		}
		rasters[i] = page
	}

	payload, err := makocode.Decode(rasters)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}

	if err := os.WriteFile(*out, payload, 0o644); err != nil {
		log.Fatalf("writing %s: %v", *out, err)
	}

	fmt.Printf("wrote %d byte(s) to %s\n", len(payload), *out)
}
