/*
Package resource implements a decoder and encoder for the obfuscated image
resource format used by Fortune Summoners - Secret of the Elemental Stone.

A resource is a fixed 0x458-byte header region followed by the pixel array.
Several header fields have the resource's obfuscation key added to them, and
the width and height are addressed indirectly: the fields at the fixed
offsets hold indices which, scaled and rebased, give the offsets where the
actual values live. The decoder resolves the key and index fields first,
then the indirect fields, then lifts out the color table and pixel rows and
reassembles everything as an uncompressed Windows bitmap.

The encoder emits the canonical layout: the obfuscation key is zero and
every index field resolves to its base offset, so a freshly packed resource
decodes with default settings.
*/
package resource

const (
	offWidthBase  = 0x004
	offHeightKey  = 0x018
	offColorTable = 0x020
	offHeightBase = 0x420
	offDepth      = 0x430
	offValidation = 0x438
	offWidthKey   = 0x440
	offObfKey     = 0x448
	offPixelKey   = 0x450
	offPixelBase  = 0x458

	colorTableBytes = offHeightBase - offColorTable // 256 entries of 4 bytes

	// The engine accepts any pixel-offset key up to this value; anything
	// larger means the buffer is not a packed bitmap resource.
	maxPixelKey = 128

	validationConstant = 10001

	headerSize = offPixelBase
)
