package storyboard

import (
	"fmt"
	"strings"
)

// Defaults applied when the request leaves a knob empty.
const (
	DefaultPlatform = "YouTube Shorts"
	DefaultStyle    = "Trendy"
	DefaultDuration = "Short"
)

// GenerationRequest is the user's description of what to storyboard.
type GenerationRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Platform string `json:"platform"`
	Style    string `json:"style"`
	Duration string `json:"duration"`
}

// Normalize fills defaults and trims the topic. Returns an error for an
// empty topic; everything else has a default.
func (r *GenerationRequest) Normalize() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return fmt.Errorf("topic must not be empty")
	}
	if r.Platform == "" {
		r.Platform = DefaultPlatform
	}
	if r.Style == "" {
		r.Style = DefaultStyle
	}
	if r.Duration == "" {
		r.Duration = DefaultDuration
	}
	return nil
}

// BuildPrompt constructs the single instruction string sent to the text
// backend. All natural-language output fields are requested in the display
// language; image_prompt is requested in English because it feeds the image
// backend directly. Pure string construction, no side effects.
func BuildPrompt(req GenerationRequest) string {
	return fmt.Sprintf(`You are a professional short-form video ad director.

[Request]
- Platform: %s
- Video length: %s
- Video style: %s
- Product: %s

[Output rules]
Respond with ONLY a single valid JSON object, no markdown, no explanation:
{
  "title": "catchy video title",
  "opening": "a one-line opening hook",
  "scenes": [
    {
      "scene_number": 1,
      "description": "what is on screen",
      "script": "the spoken line for this scene",
      "image_prompt": "English-only image generation prompt describing this scene visually: subject, lighting, camera angle. Style is %s."
    }
  ],
  "marketing_title": "title variant for publishing",
  "hashtags": ["#tag1", "#tag2"],
  "youtube_desc": "video description for YouTube",
  "thumbnail_text": "short punchy thumbnail text",
  "prep_list": ["props or footage to prepare"]
}

The "scenes" array must contain between 3 and 6 scenes covering the full video.
Every field except "image_prompt" must be written in the viewer's display language.
Every "image_prompt" must be in English and visually descriptive.`,
		req.Platform, req.Duration, req.Style, req.Topic, req.Style)
}
