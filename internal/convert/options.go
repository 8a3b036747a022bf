package convert

import (
	"log/slog"
	"time"

	"github.com/dgallion1/markdoc/internal/assets"
	"github.com/dgallion1/markdoc/internal/document"
)

// Options configures a Converter. Zero fields take the defaults below.
type Options struct {
	// Final embeds image data in the document instead of writing preview
	// files to Assets.
	Final bool
	// Assets receives preview images and is swept before each conversion,
	// in final mode too. Nil means the OS temp directory.
	Assets assets.Store
	Logger *slog.Logger

	// Heading2Color is the ink color of text directly inside <h2>.
	Heading2Color document.Color
	// ListItemColor is the ink color of list item paragraphs.
	ListItemColor document.Color

	DefaultTableWidth document.Unit
	PixelScale        float64
	MaxImageWidthPx   float64
	AssetRetention    time.Duration

	Now func() time.Time
}

const (
	DefaultPixelScale      = 0.75
	DefaultMaxImageWidthPx = 600
	DefaultAssetRetention  = 15 * time.Minute
)

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Assets == nil {
		o.Assets = assets.NewTempStore(o.Logger)
	}
	if !o.DefaultTableWidth.IsSet() || o.DefaultTableWidth.Value <= 0 {
		o.DefaultTableWidth = document.Cm(16)
	}
	if o.PixelScale <= 0 {
		o.PixelScale = DefaultPixelScale
	}
	if o.MaxImageWidthPx <= 0 {
		o.MaxImageWidthPx = DefaultMaxImageWidthPx
	}
	if o.AssetRetention <= 0 {
		o.AssetRetention = DefaultAssetRetention
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
