package resource

import "errors"

var (
	// ErrIncomplete means the buffer ended before a required field or the
	// pixel array could be read. The input is truncated or was never a
	// resource to begin with.
	ErrIncomplete = errors.New("resource: data too small to be a packed bitmap resource")

	// ErrValidation means the structural constants the engine itself
	// checks for did not decode to their expected values. The input is
	// almost certainly not this format.
	ErrValidation = errors.New("resource: data is not a valid packed bitmap resource")

	// ErrInvalidBitmap means the resource decoded structurally but into an
	// implausible bitmap. Only raised in strict mode; no genuine resource
	// is known to trigger it.
	ErrInvalidBitmap = errors.New("resource: unpacked bitmap is invalid")

	// ErrUnsupportedBitmap means a recognized resource or image uses a
	// color depth or pixel mode outside the 8bpp/24bpp the engine uses.
	ErrUnsupportedBitmap = errors.New("resource: unsupported bitmap")

	// ErrUnsupportedFunction means packing was requested without an image
	// decoder available.
	ErrUnsupportedFunction = errors.New("resource: no image decoder available")
)
