package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/scout"
)

// wrapError categorizes an Anthropic API error by its status code and
// Retry-After header. Overload (529) is transient.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError(err.Error(), apiErr.StatusCode, ai.ParseRetryAfter(apiErr.Response), err)
}
