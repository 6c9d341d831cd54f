package resource

import (
	"encoding/binary"
	"fmt"
)

// Header holds the resolved geometry of a packed resource.
type Header struct {
	Width  int32
	Height int32
	Depth  uint16

	pixelOffset int64
}

// keys holds the first-phase fields: the obfuscation key and the
// key-subtracted index fields that locate everything else.
type keys struct {
	obf    uint32
	pixOff uint32
	width  uint32
	height uint32
}

func u32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
func u16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }

// resolveKeys validates the fixed-offset fields and recovers the index
// keys. Subtraction wraps; the engine relies on modular arithmetic here.
func resolveKeys(data []byte) (keys, error) {
	if len(data) < headerSize {
		return keys{}, fmt.Errorf("%w: %d bytes", ErrIncomplete, len(data))
	}

	k := keys{obf: u32(data, offObfKey)}

	if val := u32(data, offValidation) - k.obf; val != validationConstant {
		return keys{}, fmt.Errorf("%w: validation field %d", ErrValidation, val)
	}

	k.pixOff = u32(data, offPixelKey) - k.obf
	if k.pixOff > maxPixelKey {
		return keys{}, fmt.Errorf("%w: pixel offset key %d", ErrValidation, k.pixOff)
	}

	k.width = u32(data, offWidthKey) - k.obf
	k.height = u32(data, offHeightKey) - k.obf

	return k, nil
}

// resolve locates the indirect width and height fields and recovers the
// remaining header values. Offsets are computed in 64 bits so oversized
// index keys run off the end of the buffer instead of wrapping around.
func (k keys) resolve(data []byte, strict bool) (Header, error) {
	widthOff := 4*int64(k.width) + offWidthBase
	heightOff := 4*int64(k.height) + offHeightBase

	maxOff := widthOff
	if heightOff > maxOff {
		maxOff = heightOff
	}
	if int64(len(data)) <= maxOff+4 {
		return Header{}, fmt.Errorf("%w: dimension field at %#x out of bounds", ErrIncomplete, maxOff)
	}

	h := Header{
		Width:       int32(u32(data, int(widthOff)) - k.obf),
		Height:      int32(u32(data, int(heightOff)) - k.obf),
		Depth:       u16(data, offDepth) - uint16(k.obf),
		pixelOffset: offPixelBase + int64(k.pixOff),
	}

	if strict {
		if h.Width <= 0 {
			return Header{}, fmt.Errorf("%w: width %d", ErrInvalidBitmap, h.Width)
		}
		if h.Height == 0 {
			return Header{}, fmt.Errorf("%w: height 0", ErrInvalidBitmap)
		}
		switch h.Depth {
		case 1, 4, 8, 16, 24, 32:
		default:
			return Header{}, fmt.Errorf("%w: color depth %d", ErrInvalidBitmap, h.Depth)
		}
	}

	return h, nil
}
