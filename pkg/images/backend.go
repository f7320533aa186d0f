package images

import "context"

// ImageResult is what a backend yields for one prompt: either a hosted URL
// or raw encoded image bytes, never both.
type ImageResult struct {
	URL   string
	Bytes []byte
}

// ImageBackend generates exactly one image for a prompt at the backend's
// fixed aspect ratio. Implementations differ in whether they host the result
// (OpenAI) or hand back bytes (Pollinations).
type ImageBackend interface {
	GenerateImage(ctx context.Context, prompt string) (*ImageResult, error)
}
