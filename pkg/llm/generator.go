package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/draftie/storyboard-api/pkg/storyboard"
	log "github.com/sirupsen/logrus"
)

const (
	minScenes = 3
	maxScenes = 6
)

var (
	// ErrBackend means the text backend call itself failed (network, auth,
	// quota). ErrBadResponse means the backend answered but the payload was
	// not a usable storyboard. Handlers collapse both into one user-facing
	// message; logs and tests keep them apart.
	ErrBackend     = errors.New("text backend call failed")
	ErrBadResponse = errors.New("text backend returned unusable response")
)

// TextBackend is the single-call text generation contract.
type TextBackend interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ScriptGenerator turns a generation request into a validated ScriptData.
type ScriptGenerator struct {
	backend TextBackend
}

func NewScriptGenerator(backend TextBackend) *ScriptGenerator {
	return &ScriptGenerator{backend: backend}
}

// Generate builds the instruction, makes one backend call, strips code-fence
// markup, parses the JSON and validates the result. On success the returned
// ScriptData always has 3-6 scenes, each with non-empty description, script
// and image_prompt; there is no partially-populated success.
func (g *ScriptGenerator) Generate(ctx context.Context, req storyboard.GenerationRequest) (*storyboard.ScriptData, error) {
	prompt := storyboard.BuildPrompt(req)

	raw, err := g.backend.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	cleaned := stripFences(raw)

	var data storyboard.ScriptData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		log.Errorf("Failed to parse storyboard JSON: %v", err)
		return nil, fmt.Errorf("%w: parse: %v", ErrBadResponse, err)
	}

	if err := validate(&data); err != nil {
		log.Errorf("Storyboard failed validation: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	log.Infof("Generated storyboard %q with %d scenes.", data.Title, len(data.Scenes))
	return &data, nil
}

func validate(data *storyboard.ScriptData) error {
	if len(data.Scenes) < minScenes || len(data.Scenes) > maxScenes {
		return fmt.Errorf("expected %d-%d scenes, got %d", minScenes, maxScenes, len(data.Scenes))
	}
	for i, scene := range data.Scenes {
		if strings.TrimSpace(scene.Description) == "" {
			return fmt.Errorf("scene %d has empty description", i+1)
		}
		if strings.TrimSpace(scene.Script) == "" {
			return fmt.Errorf("scene %d has empty script", i+1)
		}
		if strings.TrimSpace(scene.ImagePrompt) == "" {
			return fmt.Errorf("scene %d has empty image prompt", i+1)
		}
	}

	// Keep the model's ordering but repair the numbering if it skipped or
	// repeated values.
	sort.SliceStable(data.Scenes, func(i, j int) bool {
		return data.Scenes[i].SceneNumber < data.Scenes[j].SceneNumber
	})
	for i := range data.Scenes {
		data.Scenes[i].SceneNumber = i + 1
	}
	return nil
}

// stripFences removes markdown code-fence markup that models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
