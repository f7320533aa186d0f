package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/draftie/storyboard-api/pkg/httputil"
	log "github.com/sirupsen/logrus"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIBackend generates images through the OpenAI Images API and returns
// the hosted URL.
type OpenAIBackend struct {
	client  *httputil.RetryClient
	apiKey  string
	baseURL string
	model   string
}

type openAIImageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
}

type openAIImageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewOpenAIBackend(apiKey string) *OpenAIBackend {
	return &OpenAIBackend{
		client:  httputil.NewRetryClient(&http.Client{Timeout: 90 * time.Second}, httputil.DefaultRetryConfig()),
		apiKey:  apiKey,
		baseURL: openAIBaseURL,
		model:   "dall-e-3",
	}
}

// GenerateImage requests a single 1024x1024 image and returns its hosted URL.
func (b *OpenAIBackend) GenerateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	reqBody := openAIImageRequest{
		Model:   b.model,
		Prompt:  prompt,
		N:       1,
		Size:    "1024x1024",
		Quality: "standard",
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image response: %w", err)
	}

	var parsed openAIImageResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("parse image response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("image backend error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image request failed with status %d", resp.StatusCode)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return nil, fmt.Errorf("image backend returned no image")
	}

	log.Debugf("OpenAI image generated for prompt %q.", truncate(prompt, 60))
	return &ImageResult{URL: parsed.Data[0].URL}, nil
}
