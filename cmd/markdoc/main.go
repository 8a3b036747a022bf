// Command markdoc converts an HTML or Markdown file into a .docx document.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/markdoc/internal/config"
	"github.com/dgallion1/markdoc/internal/convert"
	"github.com/dgallion1/markdoc/internal/export"
	"github.com/dgallion1/markdoc/internal/pipeline"
	"github.com/spf13/afero"
	"go.uber.org/automaxprocs/maxprocs"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitIO      = 3
)

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	err := run(context.Background(), os.Args[1:], afero.NewOsFs(), os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "markdoc:", err)
	}
	os.Exit(exitCodeFor(err))
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return ExitIO
	case errors.Is(err, ErrUsage),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, pipeline.ErrUnsupported),
		errors.Is(err, convert.ErrEmptyMarkup),
		errors.Is(err, convert.ErrMalformed):
		return ExitUsage
	default:
		return ExitGeneral
	}
}

func run(ctx context.Context, args []string, fs afero.Fs, stdin io.Reader, stdout, stderr io.Writer) error {
	f, input, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	if f.final {
		cfg.FinalOutput = true
	}

	p, err := pipeline.New(cfg, fs, log)
	if err != nil {
		return err
	}
	// A one-shot run leaves its previews for the viewer and sweeps stale ones.
	if n := p.Sweep(); n > 0 {
		log.Debug("swept stale previews", "count", n)
	}

	req := pipeline.Request{Filename: input}
	if req.Body, err = readInput(fs, stdin, input); err != nil {
		return err
	}
	if input == "-" {
		req.Filename = ""
	}
	if f.format != "" {
		if req.Format, err = pipeline.ParseFormat(f.format); err != nil {
			return err
		}
	}
	if f.header != "" {
		if req.Header, err = readInput(fs, stdin, f.header); err != nil {
			return err
		}
	}
	if f.footer != "" {
		if req.Footer, err = readInput(fs, stdin, f.footer); err != nil {
			return err
		}
	}

	out, err := p.RenderDOCX(ctx, req)
	if err != nil {
		return err
	}

	if f.text {
		doc, err := export.Parse(out.Data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, export.Text(doc))
		return err
	}

	dest := f.output
	if dest == "" && input != "-" {
		dest = strings.TrimSuffix(input, filepath.Ext(input)) + ".docx"
	}
	if dest == "" || dest == "-" {
		_, err = io.Copy(stdout, bytes.NewReader(out.Data))
		return err
	}
	if err := afero.WriteFile(fs, dest, out.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	log.Info("wrote document", "path", dest, "bytes", len(out.Data), "title", out.Title)
	return nil
}

func readInput(fs afero.Fs, stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = afero.ReadFile(fs, path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
