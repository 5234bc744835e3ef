package texconv

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/texconv/pict"
	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// Entry describes one texture file recorded in the catalogue.
type Entry struct {
	Path   string
	SHA1   string
	Format Format

	Width               uint16
	Height              uint16
	BitsPerPixel        uint8
	PaletteBitsPerPixel uint8
	PaletteColors       uint16
	Orientation         pict.Orientation
}

func newEntry(path, sha string, t *Texture) *Entry {
	return &Entry{
		Path:                path,
		SHA1:                sha,
		Format:              t.Format,
		Width:               t.Image.Width,
		Height:              t.Image.Height,
		BitsPerPixel:        t.Image.BitsPerPixel,
		PaletteBitsPerPixel: t.Image.PaletteBitsPerPixel,
		PaletteColors:       t.Image.PaletteColors,
		Orientation:         t.Image.Orientation,
	}
}

// Catalog is a sqlite database of texture files.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens the catalogue in file, creating it if necessary.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS texture (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, format TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, bpp INTEGER NOT NULL, palette_bpp INTEGER NOT NULL, palette_colors INTEGER NOT NULL, orientation INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS texture_sha1 ON texture (sha1)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add records e, replacing any previous entry for the same path, and
// returns its row id.
func (c *Catalog) Add(e *Entry) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM texture WHERE path = ?", e.Path).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO texture (path, sha1, format, width, height, bpp, palette_bpp, palette_colors, orientation) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", e.Path, e.SHA1, e.Format.String(), e.Width, e.Height, e.BitsPerPixel, e.PaletteBitsPerPixel, e.PaletteColors, uint8(e.Orientation))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if _, err := c.db.Exec("UPDATE texture SET sha1 = ?, format = ?, width = ?, height = ?, bpp = ?, palette_bpp = ?, palette_colors = ?, orientation = ? WHERE id = ?", e.SHA1, e.Format.String(), e.Width, e.Height, e.BitsPerPixel, e.PaletteBitsPerPixel, e.PaletteColors, uint8(e.Orientation), id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

func (c *Catalog) query(query string, args ...interface{}) ([]Entry, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			format      string
			orientation uint8
		)
		if err := rows.Scan(&e.Path, &e.SHA1, &format, &e.Width, &e.Height, &e.BitsPerPixel, &e.PaletteBitsPerPixel, &e.PaletteColors, &orientation); err != nil {
			return nil, err
		}
		if e.Format, err = ParseFormat(format); err != nil {
			return nil, err
		}
		e.Orientation = pict.Orientation(orientation)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

const selectEntries = "SELECT path, sha1, format, width, height, bpp, palette_bpp, palette_colors, orientation FROM texture"

// FindBySHA1 returns every entry whose contents hash to sha, which is
// matched without regard to case.
func (c *Catalog) FindBySHA1(sha string) ([]Entry, error) {
	return c.query(selectEntries+" WHERE sha1 = UPPER(?) ORDER BY path", sha)
}

// List returns every entry ordered by path.
func (c *Catalog) List() ([]Entry, error) {
	return c.query(selectEntries + " ORDER BY path")
}
