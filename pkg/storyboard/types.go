package storyboard

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Scene is one timed segment of the generated video plan.
type Scene struct {
	SceneNumber int    `json:"scene_number"`
	Description string `json:"description"`
	Script      string `json:"script"`
	ImagePrompt string `json:"image_prompt"`
	ImageURL    string `json:"image_url,omitempty"` // filled by synthesis, placeholder on failure
}

// ScriptData is the full generation result: the scene sequence plus the
// marketing kit. It is persisted as an opaque JSON blob on the project row.
type ScriptData struct {
	Title          string   `json:"title"`
	Opening        string   `json:"opening"`
	Scenes         []Scene  `json:"scenes"`
	MarketingTitle string   `json:"marketing_title"`
	Hashtags       []string `json:"hashtags"`
	YoutubeDesc    string   `json:"youtube_desc"`
	ThumbnailText  string   `json:"thumbnail_text"`
	PrepList       []string `json:"prep_list"`
}

// legacyScene is the early list-shaped storage format, kept only for
// decoding old project rows.
type legacyScene struct {
	SceneNum    int    `json:"scene_num"`
	Time        string `json:"time"`
	Script      string `json:"script"`
	VisualDesc  string `json:"visual_desc"`
	ImagePrompt string `json:"image_prompt"`
	ImageURL    string `json:"image_url"`
}

// Encode serializes a ScriptData for storage.
func Encode(data *ScriptData) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode script data: %w", err)
	}
	return string(raw), nil
}

// Decode deserializes a stored blob. Current rows hold a ScriptData object;
// rows written before the marketing kit existed hold a bare JSON array of
// scenes, which decodes to a ScriptData with empty marketing fields.
func Decode(raw string) (*ScriptData, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("decode script data: empty blob")
	}

	if strings.HasPrefix(trimmed, "[") {
		return decodeLegacy(trimmed)
	}

	var data ScriptData
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		return nil, fmt.Errorf("decode script data: %w", err)
	}
	return &data, nil
}

func decodeLegacy(raw string) (*ScriptData, error) {
	var old []legacyScene
	if err := json.Unmarshal([]byte(raw), &old); err != nil {
		return nil, fmt.Errorf("decode legacy script data: %w", err)
	}

	data := &ScriptData{Scenes: make([]Scene, 0, len(old))}
	for i, s := range old {
		num := s.SceneNum
		if num == 0 {
			num = i + 1
		}
		data.Scenes = append(data.Scenes, Scene{
			SceneNumber: num,
			Description: s.VisualDesc,
			Script:      s.Script,
			ImagePrompt: s.ImagePrompt,
			ImageURL:    s.ImageURL,
		})
	}
	return data, nil
}
