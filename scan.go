package unpacker

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Huzzahd/fortune-summoners-unpacker/resource"
)

// Scan walks a directory tree and records every packed resource it finds
// in the catalog. Only the header is resolved; pixel data is never
// unpacked.
func (u *Unpacker) Scan(path string) error {
	if u.catalog == nil {
		return errors.New("unpacker: scanning requires a catalog")
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	return filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
		if info.Name()[0] == '.' {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		// Ignore any file greater than 16 MB
		if info.Size() > 16<<(10*2) {
			return nil
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}

		hdr, err := resource.DecodeConfig(data)
		if err != nil {
			// Most game files are not image resources; that is not
			// worth reporting. Anything else is.
			if !errors.Is(err, resource.ErrIncomplete) && !errors.Is(err, resource.ErrValidation) {
				u.logger.Printf("%s: %v", file, err)
			}
			return nil
		}

		crc := crcResource(data)

		// Point out copies of the same resource elsewhere in the tree.
		dups, err := u.catalog.FindByCRC(crc)
		if err != nil {
			return err
		}
		for _, dup := range dups {
			if dup.Path != file {
				u.logger.Printf("%s: duplicate of %s", file, dup.Path)
			}
		}

		if err := u.catalog.Put(file, crc, hdr, info.Size()); err != nil {
			return err
		}

		u.logger.Printf("%s: %dx%d %dbpp", file, hdr.Width, hdr.Height, hdr.Depth)

		return nil
	})
}
