package google

import (
	"errors"

	ai "github.com/spetersoncode/scout"
	"google.golang.org/genai"
)

// wrapError categorizes a Google GenAI API error by its status code.
// genai.APIError does not expose headers, so no retry delay is carried.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Network failures pass through uncategorized.
		return err
	}
	return ai.NewStatusError(err.Error(), apiErr.Code, 0, err)
}
