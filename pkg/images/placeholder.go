package images

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// placeholderPNG is a 1x1 transparent PNG, written out at startup so
// PlaceholderPath resolves on a fresh deployment before any image has
// been generated.
const placeholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// EnsurePlaceholder writes placeholder.png into the static root unless a
// file is already there. An existing file is never overwritten, so a
// deployment can ship its own placeholder art.
func EnsurePlaceholder(staticRoot string) error {
	path := filepath.Join(staticRoot, "placeholder.png")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(placeholderPNG)
	if err != nil {
		return fmt.Errorf("decode placeholder image: %w", err)
	}
	if err := os.MkdirAll(staticRoot, 0o755); err != nil {
		return fmt.Errorf("create static root: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write placeholder image: %w", err)
	}
	return nil
}
