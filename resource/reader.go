package resource

import (
	"fmt"
	"math"

	"github.com/Huzzahd/fortune-summoners-unpacker/bitmap"
)

// A Decoder unpacks resources into Windows bitmap files. The zero value
// performs every plausibility check on top of the engine's own ones.
type Decoder struct {
	// Lenient skips the checks the engine itself never performs,
	// accepting whatever the resource decodes to.
	Lenient bool

	// IncludePalette copies the 1024-byte color-table region into the
	// output even for 24bpp bitmaps, where it holds whatever the packer
	// left behind in memory.
	IncludePalette bool
}

// Decode unpacks a complete resource buffer and returns the bytes of the
// equivalent uncompressed Windows bitmap file.
func (d *Decoder) Decode(data []byte) ([]byte, error) {
	hdr, err := d.DecodeConfig(data)
	if err != nil {
		return nil, err
	}

	table, colors, err := d.colorTable(data, hdr.Depth)
	if err != nil {
		return nil, err
	}

	pixels, err := pixelArray(data, hdr)
	if err != nil {
		return nil, err
	}

	return bitmap.Assemble(bitmap.Info{
		Width:  abs32(hdr.Width),
		Height: abs32(hdr.Height),
		Depth:  hdr.Depth,
		Colors: colors,
	}, table, pixels)
}

// DecodeConfig resolves the header of a packed resource without touching
// the color table or pixel array.
func (d *Decoder) DecodeConfig(data []byte) (Header, error) {
	k, err := resolveKeys(data)
	if err != nil {
		return Header{}, err
	}
	return k.resolve(data, !d.Lenient)
}

// Decode unpacks a resource with the default strict settings.
func Decode(data []byte) ([]byte, error) {
	var d Decoder
	return d.Decode(data)
}

// DecodeConfig resolves a resource header with the default strict settings.
func DecodeConfig(data []byte) (Header, error) {
	var d Decoder
	return d.DecodeConfig(data)
}

func (d *Decoder) colorTable(data []byte, depth uint16) ([]byte, uint32, error) {
	var table []byte
	var colors uint32

	switch depth {
	case 8:
		table = data[offColorTable:offHeightBase]
	case 24:
		if d.IncludePalette {
			table = data[offColorTable:offHeightBase]
			colors = colorTableBytes / 4
		}
	default:
		return nil, 0, fmt.Errorf("%w: color depth %d", ErrUnsupportedBitmap, depth)
	}

	if !d.Lenient {
		// The reserved byte of every selected entry must be zero.
		for i := 3; i < len(table); i += 4 {
			if table[i] != 0 {
				return nil, 0, fmt.Errorf("%w: non-zero reserved byte in color %d", ErrInvalidBitmap, i/4)
			}
		}
	}

	return table, colors, nil
}

func pixelArray(data []byte, hdr Header) ([]byte, error) {
	rowBytes := int64(hdr.Depth/8) * abs64(hdr.Width)
	rows := abs64(hdr.Height)

	// A magnitude of 2^31 has no int32 representation for the bitmap
	// header, and no buffer small enough to index could hold such an
	// image anyway.
	if abs64(hdr.Width) > math.MaxInt32 || rows > math.MaxInt32 {
		return nil, fmt.Errorf("%w: pixel array out of bounds", ErrIncomplete)
	}

	// Bound the total without multiplying rowBytes by rows; near the
	// int32 limits the product overflows int64 and would slip past the
	// comparison as a negative size.
	avail := int64(len(data)) - hdr.pixelOffset
	if avail < 0 || (rowBytes > 0 && rows > avail/rowBytes) {
		return nil, fmt.Errorf("%w: pixel array out of bounds", ErrIncomplete)
	}

	// The engine only uses positive dimensions that are multiples of
	// four, so genuine rows never actually need padding.
	padded := (rowBytes + 3) &^ 3
	out := make([]byte, padded*rows)

	// Rows are kept in file order even when the height decodes as
	// negative: the engine takes the magnitude before its top-down test,
	// so the reversal branch can never run. Preserved as observed.
	for i := int64(0); i < rows; i++ {
		off := hdr.pixelOffset + i*rowBytes
		copy(out[i*padded:], data[off:off+rowBytes])
	}

	return out, nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v int32) int64 {
	if v < 0 {
		return -int64(v)
	}
	return int64(v)
}
