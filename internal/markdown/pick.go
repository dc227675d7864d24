package markdown

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
)

// PickRandom returns the path of a random regular file in dir.
func PickRandom(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read '%v': %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in '%v'", ErrNoFilesToPick, dir)
	}
	return filepath.Join(dir, files[rand.IntN(len(files))]), nil
}
