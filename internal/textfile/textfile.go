// Package textfile loads calibration and cipher text from files.
package textfile

import (
	"fmt"
	"io"
	"os"
)

// StdinPath selects standard input in Load.
const StdinPath = "-"

// MaxSize bounds how much text is read from one source.
const MaxSize = 16 << 20

// Load reads the whole text at path, or standard input for StdinPath.
// An empty file is valid and yields an empty string.
func Load(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("text path is empty")
	}
	if path == StdinPath {
		return read(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only text.
			_ = cerr
		}
	}()
	return read(file)
}

func read(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("text exceeds %d bytes", MaxSize)
	}
	return string(data), nil
}
