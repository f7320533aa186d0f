package images

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/draftie/storyboard-api/pkg/httputil"
	log "github.com/sirupsen/logrus"
)

const pollinationsBaseURL = "https://image.pollinations.ai"

// PollinationsBackend generates images through pollinations.ai, which needs
// no API key and returns raw image bytes.
type PollinationsBackend struct {
	client  *httputil.RetryClient
	baseURL string
	width   int
	height  int
}

func NewPollinationsBackend() *PollinationsBackend {
	return &PollinationsBackend{
		client:  httputil.NewRetryClient(&http.Client{Timeout: 60 * time.Second}, httputil.DefaultRetryConfig()),
		baseURL: pollinationsBaseURL,
		width:   1024,
		height:  1024,
	}
}

// GenerateImage fetches one image for the prompt and returns its bytes. The
// seed is derived from the prompt so a rerun of the same scene reproduces
// the same image.
func (b *PollinationsBackend) GenerateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	imageURL := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true&model=flux&seed=%d",
		b.baseURL, url.PathEscape(prompt), b.width, b.height, seedFor(prompt))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image request failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image bytes: %w", err)
	}

	// A tiny body is an error page, not an image.
	if len(data) < 100 {
		return nil, fmt.Errorf("image response too small (%d bytes)", len(data))
	}

	log.Debugf("Pollinations image generated for prompt %q (%d bytes).", truncate(prompt, 60), len(data))
	return &ImageResult{Bytes: data}, nil
}

func seedFor(prompt string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return h.Sum32()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
