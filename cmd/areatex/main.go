// Command areatex is the offline generator for SMAA's AreaTex lookup
// tables. It writes a Go source file defining the orthogonal and diagonal
// 80x80x2 tables, optionally quantized to 256 levels, for callers that
// would rather commit a baked table than compute it at process start.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/erinpentecost/LivelyMap/internal/areatex"
)

func run(outfile string, quantize bool) error {
	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("create %q: %w", outfile, err)
	}
	defer f.Close()

	tables := areatex.Generate(quantize)

	fmt.Fprintf(f, "package areatex\n\n")
	fmt.Fprintf(f, "// Generated by cmd/areatex. Quantized: %v\n\n", quantize)
	writeTable(f, "bakedOrtho", tables.Ortho[:])
	writeTable(f, "bakedDiag", tables.Diag[:])
	return nil
}

func writeTable(f *os.File, name string, values []float32) {
	fmt.Fprintf(f, "var %s = [%d]float32{\n", name, len(values))
	for i, v := range values {
		fmt.Fprintf(f, "%v,", v)
		if i%16 == 15 {
			fmt.Fprintf(f, "\n")
		}
	}
	fmt.Fprintf(f, "\n}\n\n")
}

func main() {
	quantize := flag.Bool("q", false, "quantize the table to 256 levels")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: areatex [-q] OUTFILE\n")
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *quantize); err != nil {
		fmt.Fprintf(os.Stderr, "FAILED: %v\n", err)
		os.Exit(1)
	}
}
