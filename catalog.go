package unpacker

import (
	"database/sql"
	"fmt"

	"github.com/Huzzahd/fortune-summoners-unpacker/resource"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a sqlite database indexing the packed resources found on
// disk, keyed by path with a CRC for cross-referencing copies.
type Catalog struct {
	db *sql.DB
}

func OpenCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS resource (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, crc TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, depth INTEGER NOT NULL, size INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Entry is one indexed resource.
type Entry struct {
	Path   string
	CRC    string
	Width  int32
	Height int32
	Depth  uint16
	Size   int64
}

// Put inserts or refreshes the entry for a path.
func (c *Catalog) Put(path, crc string, hdr resource.Header, size int64) error {
	_, err := c.db.Exec(
		"INSERT INTO resource (path, crc, width, height, depth, size) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(path) DO UPDATE SET crc = excluded.crc, width = excluded.width, height = excluded.height, depth = excluded.depth, size = excluded.size",
		path, crc, hdr.Width, hdr.Height, hdr.Depth, size)
	return err
}

// FindByCRC returns every indexed resource with the given checksum.
func (c *Catalog) FindByCRC(crc string) ([]Entry, error) {
	rows, err := c.db.Query("SELECT path, crc, width, height, depth, size FROM resource WHERE crc = ?", crc)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.CRC, &e.Width, &e.Height, &e.Depth, &e.Size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (c *Catalog) Close() error {
	return c.db.Close()
}
