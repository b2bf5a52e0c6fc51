package openai

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/scout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiError builds an SDK error the way the client does for a failed
// response; Error() reads both the request and the response.
func apiError(code int, header http.Header) *openai.Error {
	req := httptest.NewRequest(http.MethodPost, "https://api.openai.com/v1/chat/completions", nil)
	if header == nil {
		header = http.Header{}
	}
	return &openai.Error{
		StatusCode: code,
		Request:    req,
		Response:   &http.Response{StatusCode: code, Header: header, Request: req},
	}
}

func TestWrapError(t *testing.T) {
	t.Run("non-API errors pass through", func(t *testing.T) {
		err := errors.New("eof")
		assert.Same(t, err, wrapError(err))
		assert.NoError(t, wrapError(nil))
	})

	t.Run("server error is transient", func(t *testing.T) {
		wrapped := wrapError(apiError(503, nil))
		assert.True(t, ai.IsTransient(wrapped))
		assert.Equal(t, 503, ai.StatusCodeOf(wrapped))
		assert.Contains(t, wrapped.Error(), "503")

		var apiErr *openai.Error
		assert.True(t, errors.As(wrapped, &apiErr))
	})

	t.Run("rate limit carries retry-after", func(t *testing.T) {
		wrapped := wrapError(apiError(429, http.Header{"Retry-After": []string{"3"}}))
		assert.True(t, ai.IsTransient(wrapped))
		assert.Equal(t, 3*time.Second, ai.RetryAfterOf(wrapped))
	})

	t.Run("bad request is user input", func(t *testing.T) {
		assert.True(t, ai.IsUserInput(wrapError(apiError(400, nil))))
	})

	t.Run("invalid key is permanent", func(t *testing.T) {
		assert.True(t, ai.IsPermanent(wrapError(apiError(401, nil))))
	})
}

func TestBuildParams(t *testing.T) {
	t.Run("system message precedes prompt", func(t *testing.T) {
		c := New("test-key")
		p := c.buildParams("q", ai.ApplyOptions(ai.WithSystem("sys"), ai.WithTemperature(0.2)))
		require.Len(t, p.Messages, 2)
		assert.NotNil(t, p.Messages[0].OfSystem)
		assert.NotNil(t, p.Messages[1].OfUser)
		assert.True(t, p.Temperature.Valid())
	})

	t.Run("reasoning models drop sampling parameters", func(t *testing.T) {
		c := New("test-key", WithModel(GPT5Mini))
		p := c.buildParams("q", ai.ApplyOptions(ai.WithTemperature(0.2), ai.WithTopP(0.9)))
		assert.False(t, p.Temperature.Valid())
		assert.False(t, p.TopP.Valid())
	})
}

func TestSupportsSampling(t *testing.T) {
	assert.True(t, GPT41.SupportsSampling())
	assert.False(t, GPT52.SupportsSampling())
	assert.False(t, O4Mini.SupportsSampling())
}
