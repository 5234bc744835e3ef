package texconv

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/texconv/pict"
)

// readFileSum reads the whole of file and returns it along with the
// uppercase hex SHA-1 of its contents.
func readFileSum(file string) ([]byte, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", pict.ErrOpen, err)
	}
	defer f.Close()

	h := sha1.New()
	b, err := io.ReadAll(io.TeeReader(f, h))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", pict.ErrOpen, err)
	}

	return b, fmt.Sprintf("%X", h.Sum(nil)), nil
}

// SHA1File returns the uppercase hex SHA-1 of the contents of file, in the
// same form the catalogue stores.
func SHA1File(file string) (string, error) {
	_, sum, err := readFileSum(file)
	return sum, err
}
