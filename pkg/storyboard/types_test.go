package storyboard

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := &ScriptData{
		Title:   "Bottle that pays for itself",
		Opening: "You are wasting money every single day.",
		Scenes: []Scene{
			{SceneNumber: 1, Description: "Plastic bottles piling up", Script: "Stop buying water.", ImagePrompt: "pile of plastic bottles, harsh overhead light, wide shot", ImageURL: "/static/generated/scene_1.jpg"},
			{SceneNumber: 2, Description: "Hero shot of the bottle", Script: "Meet your last bottle.", ImagePrompt: "steel water bottle on stone, soft morning light, close-up"},
			{SceneNumber: 3, Description: "Bottle in a backpack", Script: "Take it anywhere.", ImagePrompt: "bottle in backpack side pocket, golden hour, low angle"},
		},
		MarketingTitle: "Your Last Water Bottle Ever",
		Hashtags:       []string{"#reusable", "#zerowaste"},
		YoutubeDesc:    "Why this bottle replaces hundreds of plastic ones.",
		ThumbnailText:  "LAST BOTTLE",
		PrepList:       []string{"steel bottle", "backpack"},
	}

	raw, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !reflect.DeepEqual(got, data) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, data)
	}
}

func TestDecodeLegacyListFormat(t *testing.T) {
	raw := `[
		{"scene_num": 1, "time": "0-3s", "script": "Stop buying water.", "visual_desc": "Plastic bottles piling up", "image_prompt": "pile of plastic bottles", "image_url": "http://example.com/1.png"},
		{"scene_num": 2, "time": "3-6s", "script": "Meet your last bottle.", "visual_desc": "Hero shot", "image_prompt": "steel bottle on stone"}
	]`

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(got.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(got.Scenes))
	}
	if got.Scenes[0].SceneNumber != 1 || got.Scenes[1].SceneNumber != 2 {
		t.Errorf("scene numbers not preserved: %+v", got.Scenes)
	}
	if got.Scenes[0].Description != "Plastic bottles piling up" {
		t.Errorf("visual_desc not mapped to description: %q", got.Scenes[0].Description)
	}
	if got.Scenes[0].ImageURL != "http://example.com/1.png" {
		t.Errorf("image_url not preserved: %q", got.Scenes[0].ImageURL)
	}
	if got.MarketingTitle != "" || got.Title != "" || len(got.Hashtags) != 0 || len(got.PrepList) != 0 {
		t.Errorf("legacy decode should leave marketing fields empty, got %+v", got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", "{broken"} {
		if _, err := Decode(raw); err == nil {
			t.Errorf("Decode(%q) expected error", raw)
		}
	}
}
