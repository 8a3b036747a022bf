package document

import "strings"

// ImageSourcePrefix marks a Source that carries its payload inline.
const ImageSourcePrefix = "base64:"

// LeftPosition anchors a floating image horizontally.
type LeftPosition int

const (
	PositionInline LeftPosition = iota
	PositionLeft
	PositionRight
)

// WrapStyle controls how text flows around an image.
type WrapStyle int

const (
	WrapNone WrapStyle = iota
	WrapThrough
)

// Image is a picture, either as a block or inline. Source is a file path
// or ImageSourcePrefix followed by base64 data. Data, when set, holds the
// decoded bytes.
type Image struct {
	Source string
	Data   []byte
	Width  Unit
	Height Unit
	Left   LeftPosition
	Wrap   WrapStyle
}

func (*Image) block()  {}
func (*Image) inline() {}

// Embedded reports whether the image carries its data in Source.
func (img *Image) Embedded() bool {
	return strings.HasPrefix(img.Source, ImageSourcePrefix)
}
