package vertex

import (
	"context"
	"fmt"

	"github.com/spetersoncode/scout/internal/provider/google"
	"google.golang.org/genai"
)

// DefaultLocation is used when no region is given.
const DefaultLocation = "us-central1"

// New creates a Gemini client on the Vertex AI backend for project and
// location. Generation shares the Google provider's request path.
// Uses Application Default Credentials (ADC) for authentication.
func New(ctx context.Context, project, location string, opts ...google.ClientOption) (*google.Client, error) {
	if project == "" {
		return nil, fmt.Errorf("vertex: project is required")
	}
	if location == "" {
		location = DefaultLocation
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: location,
	})
	if err != nil {
		return nil, err
	}
	return google.Wrap(client, opts...), nil
}
