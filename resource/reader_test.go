package resource

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// buildResource assembles a synthetic resource under the given obfuscation
// key, with every index field set to zero so the width, height and pixel
// array sit at their base offsets.
func buildResource(key uint32, depth uint16, width, height int32, pixels []byte) []byte {
	data := make([]byte, headerSize+len(pixels))
	put := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:], v) }

	put(offObfKey, key)
	put(offValidation, validationConstant+key)
	put(offPixelKey, key)
	put(offWidthKey, key)
	put(offHeightKey, key)
	put(offWidthBase, uint32(width)+key)
	put(offHeightBase, uint32(height)+key)
	binary.LittleEndian.PutUint16(data[offDepth:], depth+uint16(key))
	copy(data[headerSize:], pixels)

	return data
}

func seq(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestDecodeTooSmall(t *testing.T) {
	_, err := Decode(make([]byte, headerSize-1))
	require.ErrorIs(t, err, ErrIncomplete)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestDecodeBadValidationConstant(t *testing.T) {
	data := buildResource(0, 8, 4, 4, seq(16))
	binary.LittleEndian.PutUint32(data[offValidation:], validationConstant+1)

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDecodePixelKeyTooLarge(t *testing.T) {
	data := buildResource(0, 8, 4, 4, seq(16))
	binary.LittleEndian.PutUint32(data[offPixelKey:], maxPixelKey+1)

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDecodeUnsupportedDepth(t *testing.T) {
	// 16bpp is in the engine's plausible set but the codec never handles
	// it, in either mode.
	data := buildResource(0, 16, 4, 4, seq(2*4*4))

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrUnsupportedBitmap)

	d := Decoder{Lenient: true}
	_, err = d.Decode(data)
	require.ErrorIs(t, err, ErrUnsupportedBitmap)
}

func TestDecodeReservedColorTableByte(t *testing.T) {
	data := buildResource(0, 8, 4, 4, seq(16))
	data[offColorTable+7] = 0xaa

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrInvalidBitmap)

	d := Decoder{Lenient: true}
	out, err := d.Decode(data)
	require.NoError(t, err)
	require.Equal(t, []byte("BM"), out[:2])
}

func TestDecodeTruncatedPixelArray(t *testing.T) {
	data := buildResource(0, 8, 4, 4, seq(15))

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestDecodeIndirectFieldOutOfBounds(t *testing.T) {
	data := buildResource(0, 8, 4, 4, seq(16))
	binary.LittleEndian.PutUint32(data[offWidthKey:], 1<<20)

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestDecodeExtremeDimensions(t *testing.T) {
	// Dimensions near the int32 limits pass every header check but must
	// fail the pixel-array bounds check rather than overflow the size
	// arithmetic and panic.
	data := buildResource(0, 24, math.MaxInt32, math.MinInt32, nil)
	_, err := Decode(data)
	require.ErrorIs(t, err, ErrIncomplete)

	data = buildResource(0, 24, math.MaxInt32, math.MaxInt32, nil)
	_, err = Decode(data)
	require.ErrorIs(t, err, ErrIncomplete)

	d := Decoder{Lenient: true}
	data = buildResource(0, 8, math.MinInt32, 1, nil)
	_, err = d.Decode(data)
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestDecodeObfuscatedResource(t *testing.T) {
	const key = 0x1000

	pixels := seq(16)
	data := buildResource(key, 8, 4, 4, pixels)

	out, err := Decode(data)
	require.NoError(t, err)

	// 14-byte file header, 40-byte info header, 1024-byte color table,
	// then the pixel array verbatim.
	require.Len(t, out, 54+1024+16)
	require.Equal(t, []byte("BM"), out[:2])
	require.Equal(t, uint32(len(out)), binary.LittleEndian.Uint32(out[2:]))
	require.Equal(t, uint32(54+1024), binary.LittleEndian.Uint32(out[10:]))
	require.Equal(t, uint32(40), binary.LittleEndian.Uint32(out[14:]))
	require.Equal(t, uint32(4), binary.LittleEndian.Uint32(out[18:]))
	require.Equal(t, uint32(4), binary.LittleEndian.Uint32(out[22:]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[26:]))
	require.Equal(t, uint16(8), binary.LittleEndian.Uint16(out[28:]))
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[30:]))
	require.Equal(t, uint32(16), binary.LittleEndian.Uint32(out[34:]))
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[46:]))
	require.Equal(t, pixels, out[54+1024:])

	m, err := bmp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 4, m.Bounds().Dx())
	require.Equal(t, 4, m.Bounds().Dy())
}

func TestDecodeKeepsRowOrderForNegativeHeight(t *testing.T) {
	// The engine takes the magnitude of the height before testing for
	// top-down storage, so rows come out in file order even here.
	pixels := seq(8)
	data := buildResource(0, 8, 4, -2, pixels)

	out, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(out[22:]))
	require.Equal(t, pixels, out[54+1024:])
}

func TestDecodeRowPadding(t *testing.T) {
	// A 3-pixel-wide 8bpp image needs one padding byte per row; the
	// padded bytes must be zero and the row bytes untouched.
	pixels := []byte{1, 2, 3, 4, 5, 6}
	data := buildResource(0, 8, 3, 2, pixels)

	out, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 0, 4, 5, 6, 0}, out[54+1024:])
	require.Equal(t, uint32(8), binary.LittleEndian.Uint32(out[34:]))
}

func TestDecodeDirectColor(t *testing.T) {
	pixels := seq(3 * 4 * 2)
	data := buildResource(0, 24, 4, 2, pixels)

	out, err := Decode(data)
	require.NoError(t, err)

	// No color table by default.
	require.Len(t, out, 54+len(pixels))
	require.Equal(t, uint32(54), binary.LittleEndian.Uint32(out[10:]))
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[46:]))
	require.Equal(t, pixels, out[54:])

	d := Decoder{IncludePalette: true}
	out, err = d.Decode(data)
	require.NoError(t, err)
	require.Len(t, out, 54+1024+len(pixels))
	require.Equal(t, uint32(54+1024), binary.LittleEndian.Uint32(out[10:]))
	require.Equal(t, uint32(256), binary.LittleEndian.Uint32(out[46:]))
}

func TestDecodeConfig(t *testing.T) {
	data := buildResource(0x77777777, 8, 640, 480, nil)

	// Only the header is touched, so the missing pixel array is fine.
	hdr, err := DecodeConfig(data)
	require.NoError(t, err)
	require.Equal(t, int32(640), hdr.Width)
	require.Equal(t, int32(480), hdr.Height)
	require.Equal(t, uint16(8), hdr.Depth)
}
