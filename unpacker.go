/*
Package unpacker drives batch conversion between Fortune Summoners image
resources and Windows bitmap files.
*/
package unpacker

import (
	"image"
	"io"
	"log"
)

// ImageDecoder decodes a bitmap file into an image for packing. It is an
// explicit capability: a nil decoder means packing is unavailable and
// reports resource.ErrUnsupportedFunction instead of failing at startup.
type ImageDecoder func(io.Reader) (image.Image, error)

type Unpacker struct {
	catalog     *Catalog
	decodeImage ImageDecoder
	logger      *log.Logger
}

func New(catalog *Catalog, decodeImage ImageDecoder, logger *log.Logger) *Unpacker {
	return &Unpacker{
		catalog:     catalog,
		decodeImage: decodeImage,
		logger:      logger,
	}
}
