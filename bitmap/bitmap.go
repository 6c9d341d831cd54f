/*
Package bitmap assembles uncompressed Windows bitmap files from already
decoded parts: the 14-byte file header, the 40-byte BITMAPINFOHEADER, an
optional color table and the pixel array, all little-endian.
*/
package bitmap

import (
	"bytes"
	"encoding/binary"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	headerSize     = fileHeaderSize + infoHeaderSize
)

// Info describes the single uncompressed image stored in the file.
type Info struct {
	Width  int32
	Height int32
	Depth  uint16

	// Colors is the declared palette size; zero means every entry the
	// color depth allows.
	Colors uint32
}

type fileHeader struct {
	Signature  [2]byte
	FileSize   uint32
	Reserved1  uint16
	Reserved2  uint16
	DataOffset uint32
}

type infoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	Depth           uint16
	Compression     uint32
	ImageSize       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// Assemble builds a complete bitmap file from the color table and pixel
// array. Both may alias the caller's buffers; the result never does.
func Assemble(info Info, colorTable, pixels []byte) ([]byte, error) {
	b := new(bytes.Buffer)
	b.Grow(headerSize + len(colorTable) + len(pixels))

	if err := binary.Write(b, binary.LittleEndian, fileHeader{
		Signature:  [2]byte{'B', 'M'},
		FileSize:   uint32(headerSize + len(colorTable) + len(pixels)),
		DataOffset: uint32(headerSize + len(colorTable)),
	}); err != nil {
		return nil, err
	}

	if err := binary.Write(b, binary.LittleEndian, infoHeader{
		Size:       infoHeaderSize,
		Width:      info.Width,
		Height:     info.Height,
		Planes:     1,
		Depth:      info.Depth,
		ImageSize:  uint32(len(pixels)),
		ColorsUsed: info.Colors,
	}); err != nil {
		return nil, err
	}

	b.Write(colorTable)
	b.Write(pixels)

	return b.Bytes(), nil
}
