package images

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsurePlaceholderWritesValidPNG(t *testing.T) {
	dir := t.TempDir()
	if err := EnsurePlaceholder(dir); err != nil {
		t.Fatalf("EnsurePlaceholder() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "placeholder.png"))
	if err != nil {
		t.Fatalf("placeholder not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("placeholder file is missing the PNG signature")
	}
}

func TestEnsurePlaceholderKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "placeholder.png")
	if err := os.WriteFile(path, []byte("custom art"), 0o644); err != nil {
		t.Fatalf("seeding placeholder: %v", err)
	}

	if err := EnsurePlaceholder(dir); err != nil {
		t.Fatalf("EnsurePlaceholder() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading placeholder: %v", err)
	}
	if string(data) != "custom art" {
		t.Error("existing placeholder was overwritten")
	}
}
