package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks a bad command line.
var ErrUsage = errors.New("usage")

type cliFlags struct {
	output  string
	format  string
	header  string
	footer  string
	config  string
	final   bool
	text    bool
	verbose bool
}

// parseFlags parses args (without the program name) and returns the flags
// plus the single input path.
func parseFlags(args []string, stderr io.Writer) (cliFlags, string, error) {
	var f cliFlags
	fs := flag.NewFlagSet("markdoc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: markdoc [flags] <input.html|input.md|->")
		fs.PrintDefaults()
	}

	fs.StringVarP(&f.output, "output", "o", "", "output .docx path (default <input stem>.docx, or stdout for -)")
	fs.StringVar(&f.format, "format", "", "input format: html or markdown (default from the extension)")
	fs.StringVar(&f.header, "header", "", "file whose markup becomes the page header")
	fs.StringVar(&f.footer, "footer", "", "file whose markup becomes the page footer")
	fs.StringVar(&f.config, "config", "", "YAML config file")
	fs.BoolVar(&f.final, "final", false, "final output: drop preview images")
	fs.BoolVar(&f.text, "text", false, "print the document text instead of writing .docx")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log progress to stderr")

	if err := fs.Parse(args); err != nil {
		return f, "", fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return f, "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, fs.NArg())
	}
	return f, fs.Arg(0), nil
}
