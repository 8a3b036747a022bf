package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/markdoc/internal/assets"
	"github.com/dgallion1/markdoc/internal/config"
	"github.com/dgallion1/markdoc/internal/convert"
	"github.com/dgallion1/markdoc/internal/document"
	"github.com/dgallion1/markdoc/internal/export"
	"github.com/dgallion1/markdoc/internal/markdown"
	"github.com/dgallion1/markdoc/internal/stats"
	"github.com/spf13/afero"
)

// ErrUnsupported is returned for input formats the pipeline cannot read.
var ErrUnsupported = errors.New("unsupported format")

// Format names a markup language.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

var extensions = map[string]Format{
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// FormatFor picks the format from a filename extension.
func FormatFor(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: extension %q", ErrUnsupported, ext)
}

// ParseFormat accepts a format name or one of its extensions, with or
// without the leading dot.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Format(s) {
	case FormatHTML, FormatMarkdown:
		return Format(s), nil
	}
	if f, ok := extensions["."+strings.TrimPrefix(s, ".")]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
}

// Request is one conversion. Header and Footer are optional and use the
// body's format.
type Request struct {
	Body     string
	Header   string
	Footer   string
	Format   Format
	Filename string
}

// format resolves the request format: explicit first, then the filename,
// then HTML.
func (r Request) format() (Format, error) {
	if r.Format != "" {
		return ParseFormat(string(r.Format))
	}
	if r.Filename != "" {
		return FormatFor(r.Filename)
	}
	return FormatHTML, nil
}

// ContentHash identifies the rendered output of r. The .docx bytes
// themselves are not stable across renders because the zip entry order is
// not, so conditional requests compare this instead.
func (r Request) ContentHash() string {
	format, err := r.format()
	if err != nil {
		format = r.Format
	}
	return ContentHashHex([]byte(strings.Join([]string{string(format), r.Body, r.Header, r.Footer}, "\x00")))
}

// Output is a rendered .docx file.
type Output struct {
	Data        []byte
	ContentHash string
	Title       string
}

// Pipeline turns markup into documents and .docx files.
type Pipeline struct {
	html     *convert.Converter
	md       *markdown.Converter
	store    assets.Store
	fs       afero.Fs
	latency  *stats.Latency
	log      *slog.Logger
	interval time.Duration
	cutoff   time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a pipeline from cfg. Preview images are written to fs, which
// defaults to the OS filesystem.
func New(cfg config.Config, fs afero.Fs, log *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h2, li, err := cfg.Colors()
	if err != nil {
		return nil, err
	}

	// Final output writes no previews but still sweeps the ones left behind.
	dir := cfg.AssetDir
	if dir == "" {
		dir = os.TempDir()
	}
	store := assets.NewStore(fs, dir, log)

	html := convert.New(convert.Options{
		Final:             cfg.FinalOutput,
		Assets:            store,
		Logger:            log,
		Heading2Color:     h2,
		ListItemColor:     li,
		DefaultTableWidth: document.Cm(cfg.DefaultTableWidthCm),
		PixelScale:        cfg.PixelScale,
		MaxImageWidthPx:   cfg.ImageMaxWidthPx,
		AssetRetention:    cfg.AssetRetention,
	})
	return &Pipeline{
		html:     html,
		md:       markdown.NewConverter(html, nil),
		store:    store,
		fs:       fs,
		latency:  stats.NewLatency(cfg.StatsWindow),
		log:      log.With("component", "pipeline"),
		interval: cfg.AssetRetention,
		cutoff:   cfg.AssetRetention,
	}, nil
}

// Start sweeps the asset directory in the background so an idle server
// does not keep stale previews.
func (p *Pipeline) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Sweep()
			}
		}
	}()
}

// Stop ends the background sweep and waits for it.
func (p *Pipeline) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Sweep removes preview images older than the retention period.
func (p *Pipeline) Sweep() int {
	n, err := p.store.Sweep(time.Now().Add(-p.cutoff))
	if err != nil {
		p.log.Warn("asset sweep failed", "error", err)
	}
	return n
}

// Stats returns the rolling conversion latency.
func (p *Pipeline) Stats() stats.Snapshot {
	return p.latency.Snapshot()
}

// Render converts req into a one-section document.
func (p *Pipeline) Render(ctx context.Context, req Request) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := req.format()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := p.render(format, req)
	took := time.Since(start)
	p.latency.Record(string(format), took, err)
	if err != nil {
		p.log.Warn("render failed", "format", format, "filename", req.Filename, "error", err)
		return nil, err
	}
	p.log.Info("rendered", "format", format, "filename", req.Filename, "duration_ms", took.Milliseconds())
	return doc, nil
}

func (p *Pipeline) render(format Format, req Request) (*document.Document, error) {
	doc := document.New()
	sec := doc.AddSection()

	switch format {
	case FormatMarkdown:
		meta, err := p.md.ConvertMeta(req.Body, convert.HolderPoint{Holder: sec})
		if err != nil {
			return nil, fmt.Errorf("convert body: %w", err)
		}
		doc.Info.Title = metaString(meta, "title")
		doc.Info.Author = metaString(meta, "author")
		doc.Info.Subject = metaString(meta, "subject")
	default:
		if err := p.html.Section(sec, req.Body); err != nil {
			return nil, fmt.Errorf("convert body: %w", err)
		}
	}

	regions := []struct {
		name   string
		markup string
		hf     *document.HeaderFooter
	}{
		{"header", req.Header, sec.Headers.Primary},
		{"footer", req.Footer, sec.Footers.Primary},
	}
	for _, r := range regions {
		if r.markup == "" {
			continue
		}
		var err error
		if format == FormatMarkdown {
			err = p.md.HeaderFooter(r.hf, r.markup)
		} else {
			err = p.html.HeaderFooter(r.hf, r.markup)
		}
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", r.name, err)
		}
	}

	if doc.Info.Title == "" && req.Filename != "" {
		base := filepath.Base(req.Filename)
		doc.Info.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return doc, nil
}

func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

// RenderDOCX renders req and writes it as a .docx file.
func (p *Pipeline) RenderDOCX(ctx context.Context, req Request) (Output, error) {
	doc, err := p.Render(ctx, req)
	if err != nil {
		return Output{}, err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, doc, export.Options{Fs: p.fs, Logger: p.log}); err != nil {
		return Output{}, err
	}
	return Output{
		Data:        buf.Bytes(),
		ContentHash: req.ContentHash(),
		Title:       doc.Info.Title,
	}, nil
}
