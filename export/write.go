package export

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// WriteFile writes the output of render to path through a temporary file
// in the same directory, renaming it into place only once render and the
// flush succeeded. It returns the size and the blake3 checksum of the file.
func WriteFile(path string, render func(io.Writer) error) (int64, string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, "", fmt.Errorf("error creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, "", fmt.Errorf("error creating temporary file: %w", err)
	}
	done := false
	defer func() {
		if !done {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	h := blake3.New()
	counter := &countingWriter{w: io.MultiWriter(tmp, h)}
	if err := render(counter); err != nil {
		return 0, "", err
	}
	if err := tmp.Sync(); err != nil {
		return 0, "", fmt.Errorf("error flushing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, "", fmt.Errorf("error closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		done = true
		return 0, "", fmt.Errorf("error setting mode of %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		done = true
		return 0, "", fmt.Errorf("error moving %s into place: %w", path, err)
	}
	done = true
	return counter.n, hex.EncodeToString(h.Sum(nil)), nil
}

// Checksum returns the hex blake3 digest of data.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
