package resource

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

type encoder struct {
	w io.Writer
}

// Encode writes the image m to w as a canonical packed resource. Only
// paletted images with an opaque RGB palette of up to 256 entries (stored
// as 8bpp) and fully opaque direct-color images (stored as 24bpp) are
// accepted; use Quantize to reduce anything else first.
func Encode(w io.Writer, m image.Image) error {
	e := encoder{w: w}

	switch m := m.(type) {
	case *image.Paletted:
		return e.encodePaletted(m)
	case *image.RGBA:
		if !m.Opaque() {
			return fmt.Errorf("%w: image is not opaque", ErrUnsupportedBitmap)
		}
		return e.encodeRGB(m)
	case *image.NRGBA:
		if !m.Opaque() {
			return fmt.Errorf("%w: image is not opaque", ErrUnsupportedBitmap)
		}
		return e.encodeRGB(m)
	default:
		return fmt.Errorf("%w: only paletted and direct RGB images can be packed", ErrUnsupportedBitmap)
	}
}

// Quantize reduces m to a paletted image of at most 256 colors so it can
// be packed as 8bpp.
func Quantize(m image.Image) *image.Paletted {
	q := quantize.MedianCutQuantizer{}

	b := m.Bounds()
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colorTableBytes/4), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

func (e *encoder) encodePaletted(m *image.Paletted) error {
	if len(m.Palette) > colorTableBytes/4 {
		return fmt.Errorf("%w: palette has %d colors", ErrUnsupportedBitmap, len(m.Palette))
	}

	// Colors are stored as BGR0; unused trailing entries stay zero.
	var table [colorTableBytes]byte
	for i, c := range m.Palette {
		r, g, b, a := c.RGBA()
		if a != 0xffff {
			return fmt.Errorf("%w: palette color %d is not opaque", ErrUnsupportedBitmap, i)
		}
		table[4*i+0] = byte(b >> 8)
		table[4*i+1] = byte(g >> 8)
		table[4*i+2] = byte(r >> 8)
	}

	b := m.Bounds()

	// Rows are stored bottom-up, matching the decoder's file-order read.
	pixels := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := b.Min.X; x < b.Max.X; x++ {
			pixels = append(pixels, m.ColorIndexAt(x, y))
		}
	}

	return e.encode(int32(b.Dx()), int32(b.Dy()), 8, table[:], pixels)
}

func (e *encoder) encodeRGB(m image.Image) error {
	b := m.Bounds()

	// Bottom-up rows, channels reversed to BGR.
	pixels := make([]byte, 0, 3*b.Dx()*b.Dy())
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := m.At(x, y).RGBA()
			pixels = append(pixels, byte(bl>>8), byte(g>>8), byte(r>>8))
		}
	}

	var table [colorTableBytes]byte
	return e.encode(int32(b.Dx()), int32(b.Dy()), 24, table[:], pixels)
}

// encode emits the canonical zero-key layout. With the obfuscation key
// zero every index field is zero and resolves to its base offset, so the
// fields land exactly where the decoder looks for them; all bytes outside
// the named fields stay zero.
func (e *encoder) encode(width, height int32, depth uint16, table, pixels []byte) error {
	out := make([]byte, headerSize, headerSize+len(pixels))

	binary.LittleEndian.PutUint32(out[offWidthBase:], uint32(width))
	copy(out[offColorTable:], table)
	binary.LittleEndian.PutUint32(out[offHeightBase:], uint32(height))
	binary.LittleEndian.PutUint16(out[offDepth:], depth)
	binary.LittleEndian.PutUint32(out[offValidation:], validationConstant)
	out = append(out, pixels...)

	_, err := e.w.Write(out)
	return err
}
