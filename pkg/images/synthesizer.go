package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/draftie/storyboard-api/pkg/storyboard"
	log "github.com/sirupsen/logrus"
)

// PlaceholderPath is served from the static assets and substituted whenever
// image synthesis fails for a scene.
const PlaceholderPath = "/static/placeholder.png"

// PublicPathPrefix is where generated image files are served from.
const PublicPathPrefix = "/static/generated"

// Synthesizer turns a scene's visual prompt into an image reference. It is
// best-effort: any backend failure leaves the scene with the placeholder
// path, never an error. The overall pipeline must not abort because one
// image call failed.
type Synthesizer struct {
	backend   ImageBackend
	staticDir string
}

func NewSynthesizer(backend ImageBackend, staticDir string) *Synthesizer {
	return &Synthesizer{backend: backend, staticDir: staticDir}
}

// Illustrate fills scene.ImageURL with a real image reference or the
// placeholder. The scene's ImageURL is always non-empty afterwards.
func (s *Synthesizer) Illustrate(ctx context.Context, scene *storyboard.Scene) {
	prompt := scene.ImagePrompt
	if prompt == "" {
		prompt = scene.Description
	}
	if prompt == "" {
		log.Warnf("Scene %d has no prompt at all, using placeholder.", scene.SceneNumber)
		scene.ImageURL = PlaceholderPath
		return
	}

	result, err := s.backend.GenerateImage(ctx, prompt)
	if err != nil {
		log.Warnf("Image synthesis failed for scene %d: %v", scene.SceneNumber, err)
		scene.ImageURL = PlaceholderPath
		return
	}

	switch {
	case result.URL != "":
		scene.ImageURL = result.URL
	case len(result.Bytes) > 0:
		path, err := s.store(result.Bytes, scene.SceneNumber)
		if err != nil {
			log.Warnf("Failed to store image for scene %d: %v", scene.SceneNumber, err)
			scene.ImageURL = PlaceholderPath
			return
		}
		scene.ImageURL = path
	default:
		log.Warnf("Image backend returned empty result for scene %d.", scene.SceneNumber)
		scene.ImageURL = PlaceholderPath
	}
}

// store writes image bytes under the served static directory and returns the
// public path. Filenames carry a timestamp plus the scene number so repeated
// runs never collide.
func (s *Synthesizer) store(data []byte, sceneNumber int) (string, error) {
	if err := os.MkdirAll(s.staticDir, 0o755); err != nil {
		return "", fmt.Errorf("create static dir: %w", err)
	}

	name := fmt.Sprintf("scene_%d_%d.jpg", time.Now().UnixNano(), sceneNumber)
	if err := os.WriteFile(filepath.Join(s.staticDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	return PublicPathPrefix + "/" + name, nil
}
