package convert

import (
	"github.com/dgallion1/markdoc/internal/document"
	"golang.org/x/net/html"
)

// Format is the bold/italic/underline state contributed by the ancestors of
// the node being handled.
type Format struct {
	Bold      bool
	Italic    bool
	Underline bool
}

// Enter returns the state seen by the children of n.
func (f Format) Enter(n *html.Node) Format {
	if n.Type != html.ElementNode {
		return f
	}
	switch n.Data {
	case "b", "strong":
		f.Bold = true
	case "i", "em":
		f.Italic = true
	case "u":
		f.Underline = true
	}
	return f
}

// resetFont overwrites the three flags of font with f, leaving color and
// size alone.
func (f Format) resetFont(font *document.Font) {
	font.Bold = f.Bold
	font.Italic = f.Italic
	font.Underline = f.Underline
}

func (f Format) font() document.Font {
	return document.Font{Bold: f.Bold, Italic: f.Italic, Underline: f.Underline}
}
