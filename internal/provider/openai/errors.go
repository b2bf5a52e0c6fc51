package openai

import (
	"errors"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/scout"
)

// wrapError categorizes an OpenAI API error by its status code and
// Retry-After header.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError(err.Error(), apiErr.StatusCode, ai.ParseRetryAfter(apiErr.Response), err)
}
