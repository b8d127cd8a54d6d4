// Command molt converts data between supported formats.
//
// Usage:
//
//	molt --to pack --from json --out data.pack data.json
//	cat config.yaml | molt -t toml
//
// When --from is omitted the input format is sniffed.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/moltdata/molt"
	"github.com/moltdata/molt/formats"
	"github.com/moltdata/molt/pack"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "molt: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("molt", pflag.ContinueOnError)
	from := flags.StringP("from", "f", "", "input format (default: auto-detect)")
	to := flags.StringP("to", "t", "", "output format (required)")
	out := flags.StringP("out", "o", "", "output file (default: stdout)")
	list := flags.Bool("list", false, "list supported formats")
	canonical := flags.Bool("canonical", false, "canonical pack output (sorted map keys)")
	maxDepth := flags.Int("max-depth", 0, "pack nesting depth limit (default: 100)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	formats.RegisterAll()

	if *canonical || *maxDepth > 0 {
		m := pack.DefaultMarshalOptions()
		m.Canonical = *canonical
		u := pack.UnmarshalOptions{}
		if *maxDepth > 0 {
			m.MaxDepth = *maxDepth
			u.Decode.MaxDepth = *maxDepth
		}
		molt.Register(molt.FormatPack, pack.NewWithOptions(m, u))
	}

	if *list {
		for _, f := range molt.Formats() {
			fmt.Println(f)
		}
		return nil
	}

	if *to == "" {
		return fmt.Errorf("--to is required")
	}

	data, err := readInput(flags.Args())
	if err != nil {
		return err
	}

	ctx := context.Background()
	var converted []byte
	if *from == "" {
		converted, err = molt.TransformDetect(ctx, data, molt.Format(*to))
	} else {
		converted, err = molt.Transform(ctx, data, molt.Format(*from), molt.Format(*to))
	}
	if err != nil {
		return err
	}

	return writeOutput(*out, converted)
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
