// Package geom provides the rectangle, point and colour types shared by the
// compositor, the renderers and input routing.
package geom

import "fmt"

// Rect is a window rectangle in render-target pixels.
type Rect struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// Point is a render-target relative position.
type Point struct {
	X int32
	Y int32
}

// Contains reports whether p lies inside r. Edges are inclusive on all sides,
// matching how the host's client-area hit-test treats the border pixel.
func (r Rect) Contains(p Point) bool {
	return int64(p.X) >= int64(r.X) &&
		int64(p.X) <= int64(r.X)+int64(r.Width) &&
		int64(p.Y) >= int64(r.Y) &&
		int64(p.Y) <= int64(r.Y)+int64(r.Height)
}

// SameSize reports whether r and o have equal width and height.
func (r Rect) SameSize(o Rect) bool {
	return r.Width == o.Width && r.Height == o.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Local translates p into r's coordinate space.
func (r Rect) Local(p Point) Point {
	return Point{X: p.X - r.X, Y: p.Y - r.Y}
}

// BufferSize is the number of bytes in a 4 byte per pixel buffer covering r.
func (r Rect) BufferSize() int {
	return int(r.Width) * int(r.Height) * 4
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Color is a 24-bit RGB colour.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// MaxRGB is the largest value accepted by ColorFromRGB.
const MaxRGB = 0xFFFFFF

// ColorFromRGB unpacks a 0xRRGGBB value.
func ColorFromRGB(rgb uint32) Color {
	return Color{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
	}
}

// RGB packs the colour back into 0xRRGGBB.
func (c Color) RGB() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("#%06X", c.RGB())
}

// FillBuffer returns a BGRA pixel buffer covering r in one colour.
func FillBuffer(r Rect, c Color, alpha uint8) []byte {
	buf := make([]byte, r.BufferSize())
	for i := 0; i+3 < len(buf); i += 4 {
		buf[i] = c.B
		buf[i+1] = c.G
		buf[i+2] = c.R
		buf[i+3] = alpha
	}

	return buf
}
