package convert

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
)

var dataURIPrefix = regexp.MustCompile(`^.*?;base64,`)

// assetTimeLayout renders as MMddyyyy_HHmmss.
const assetTimeLayout = "01022006_150405"

func handleImage(s *Scope, n *html.Node, at Point) (Point, error) {
	src, _ := attr(n, "src")
	payload := strings.ReplaceAll(dataURIPrefix.ReplaceAllString(src, ""), " ", "")
	if payload == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		s.Logger().Warn("skip image with undecodable source", "error", err)
		return nil, nil
	}

	source := document.ImageSourcePrefix + payload
	if !s.opts.Final {
		hint, _ := attr(n, "data-filename")
		source, err = s.writeAsset(assetName(hint, s.opts.Now().UTC(), data), data)
		if err != nil {
			return nil, err
		}
	}

	var img *document.Image
	switch at := at.(type) {
	case HolderPoint:
		img = at.Holder.AddImage(source)
	case CellPoint:
		img = at.Cell.AddImage(source)
	case TablePoint, RowPoint:
		s.Logger().Debug("drop image outside a table cell")
		return at, nil
	default:
		p, ok := inlineParagraph(at)
		if !ok {
			return at, nil
		}
		img = p.AddImage(source)
	}
	img.Data = data
	s.sizeImage(img, n)
	return at, nil
}

func (s *Scope) writeAsset(name string, data []byte) (string, error) {
	store := s.opts.Assets
	exists, err := store.Exists(name)
	if err != nil {
		return "", fmt.Errorf("check asset %s: %w", name, err)
	}
	if exists {
		return store.Path(name), nil
	}
	path, err := store.Write(name, data)
	if err != nil {
		return "", fmt.Errorf("materialize image: %w", err)
	}
	return path, nil
}

// assetName builds the preview file name: the hint's stem and extension
// around a timestamp, or temp_<timestamp>_<digest>.jpg without a hint.
func assetName(hint string, now time.Time, data []byte) string {
	ts := now.Format(assetTimeLayout)
	hint = strings.TrimSpace(hint)
	if hint == "" {
		sum := sha256.Sum256(data)
		return "temp_" + ts + "_" + hex.EncodeToString(sum[:4]) + ".jpg"
	}
	base := filepath.Base(hint)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".jpg"
	}
	return stem + "_" + ts + ext
}

// sizeImage applies style width/height/float, or the literal width and
// height attributes when the style sets no size.
func (s *Scope) sizeImage(img *document.Image, n *html.Node) {
	sized := false
	if style, ok := attr(n, "style"); ok {
		for _, d := range styleDeclarations(style) {
			switch d.property {
			case "width":
				sized = true
				if u, ok := s.pixels(d.value, true); ok {
					img.Width = u
				}
			case "height":
				sized = true
				if u, ok := s.pixels(d.value, false); ok {
					img.Height = u
				}
			case "float":
				switch {
				case strings.Contains(d.value, "left"):
					img.Left, img.Wrap = document.PositionLeft, document.WrapThrough
				case strings.Contains(d.value, "right"):
					img.Left, img.Wrap = document.PositionRight, document.WrapThrough
				}
			}
		}
	}
	if sized {
		return
	}
	if v, ok := attr(n, "width"); ok {
		if u, err := document.ParseUnit(v); err == nil {
			img.Width = u
		}
	}
	if v, ok := attr(n, "height"); ok {
		if u, err := document.ParseUnit(v); err == nil {
			img.Height = u
		}
	}
}

// pixels converts a CSS pixel length to points, clamping widths.
func (s *Scope) pixels(v string, width bool) (document.Unit, bool) {
	px, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px")), 64)
	if err != nil {
		return document.Unit{}, false
	}
	if width && px > s.opts.MaxImageWidthPx {
		px = s.opts.MaxImageWidthPx
	}
	return document.Pt(s.opts.PixelScale * px), true
}
