package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/draftie/storyboard-api/pkg/storyboard"
)

type fakeBackend struct {
	response string
	err      error
	calls    int
}

func (f *fakeBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func validStoryboardJSON(sceneCount int) string {
	scenes := ""
	for i := 1; i <= sceneCount; i++ {
		if i > 1 {
			scenes += ","
		}
		scenes += fmt.Sprintf(`{"scene_number": %d, "description": "shot %d", "script": "line %d", "image_prompt": "prompt %d"}`, i, i, i, i)
	}
	return fmt.Sprintf(`{
		"title": "Test",
		"opening": "Hook",
		"scenes": [%s],
		"marketing_title": "Test MT",
		"hashtags": ["#a"],
		"youtube_desc": "desc",
		"thumbnail_text": "THUMB",
		"prep_list": ["prop"]
	}`, scenes)
}

func TestGenerate(t *testing.T) {
	req := storyboard.GenerationRequest{Topic: "water bottle", Platform: "YouTube Shorts", Style: "Trendy", Duration: "Short"}

	tests := []struct {
		name       string
		response   string
		backendErr error
		wantErr    error
		wantScenes int
	}{
		{
			name:       "validFourScenes",
			response:   validStoryboardJSON(4),
			wantScenes: 4,
		},
		{
			name:       "fencedJSON",
			response:   "```json\n" + validStoryboardJSON(3) + "\n```",
			wantScenes: 3,
		},
		{
			name:       "backendFailure",
			backendErr: errors.New("quota exceeded"),
			wantErr:    ErrBackend,
		},
		{
			name:     "notJSON",
			response: "I'm sorry, I can't help with that.",
			wantErr:  ErrBadResponse,
		},
		{
			name:     "tooFewScenes",
			response: validStoryboardJSON(2),
			wantErr:  ErrBadResponse,
		},
		{
			name:     "tooManyScenes",
			response: validStoryboardJSON(7),
			wantErr:  ErrBadResponse,
		},
		{
			name:     "missingScript",
			response: `{"title":"t","scenes":[{"scene_number":1,"description":"d","script":"","image_prompt":"p"},{"scene_number":2,"description":"d","script":"s","image_prompt":"p"},{"scene_number":3,"description":"d","script":"s","image_prompt":"p"}]}`,
			wantErr:  ErrBadResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewScriptGenerator(&fakeBackend{response: tt.response, err: tt.backendErr})
			data, err := gen.Generate(context.Background(), req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Generate() error = %v, want %v", err, tt.wantErr)
				}
				if data != nil {
					t.Error("expected nil data on failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if len(data.Scenes) != tt.wantScenes {
				t.Fatalf("expected %d scenes, got %d", tt.wantScenes, len(data.Scenes))
			}
			for i, scene := range data.Scenes {
				if scene.SceneNumber != i+1 {
					t.Errorf("scene %d has number %d", i, scene.SceneNumber)
				}
				if scene.Description == "" || scene.Script == "" || scene.ImagePrompt == "" {
					t.Errorf("scene %d partially populated: %+v", i, scene)
				}
			}
		})
	}
}

func TestGenerateNormalizesSceneNumbering(t *testing.T) {
	response := `{"title":"t","scenes":[
		{"scene_number":5,"description":"d3","script":"s3","image_prompt":"p3"},
		{"scene_number":1,"description":"d1","script":"s1","image_prompt":"p1"},
		{"scene_number":3,"description":"d2","script":"s2","image_prompt":"p2"}
	]}`
	gen := NewScriptGenerator(&fakeBackend{response: response})

	data, err := gen.Generate(context.Background(), storyboard.GenerationRequest{Topic: "x"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantOrder := []string{"d1", "d2", "d3"}
	for i, scene := range data.Scenes {
		if scene.SceneNumber != i+1 {
			t.Errorf("scene %d renumbered to %d", i, scene.SceneNumber)
		}
		if scene.Description != wantOrder[i] {
			t.Errorf("scene order wrong at %d: %q", i, scene.Description)
		}
	}
}
