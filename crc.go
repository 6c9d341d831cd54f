package unpacker

import (
	"fmt"
	"hash/crc32"
)

// crcResource is the catalog key for one raw resource buffer.
func crcResource(data []byte) string {
	return fmt.Sprintf("%.*X", crc32.Size<<1, crc32.ChecksumIEEE(data))
}
