package scout

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrEmptyInput(t *testing.T) {
	t.Run("is a sentinel error", func(t *testing.T) {
		assert.Error(t, ErrEmptyInput)
		assert.Equal(t, "empty input", ErrEmptyInput.Error())
	})

	t.Run("can be compared with errors.Is", func(t *testing.T) {
		err := fmt.Errorf("question: %w", ErrEmptyInput)
		assert.True(t, errors.Is(err, ErrEmptyInput))
	})
}

func TestCategorizedError(t *testing.T) {
	t.Run("transient errors are retryable", func(t *testing.T) {
		err := NewTransientErrorWithRetry("rate limited", 429, 2*time.Second, errors.New("slow down"))

		assert.True(t, IsTransient(err))
		assert.False(t, IsPermanent(err))
		assert.True(t, err.Retryable())
		assert.Equal(t, 429, StatusCodeOf(err))
		assert.Equal(t, 2*time.Second, RetryAfterOf(err))
		assert.Equal(t, "rate limited: slow down", err.Error())
	})

	t.Run("categories survive wrapping", func(t *testing.T) {
		err := fmt.Errorf("generate: %w", NewPermanentError("bad key", 401, nil))

		assert.True(t, IsPermanent(err))
		assert.False(t, IsUserInput(err))
		assert.Equal(t, 401, StatusCodeOf(err))
	})

	t.Run("uncategorized errors report zero values", func(t *testing.T) {
		err := errors.New("plain")

		assert.False(t, IsTransient(err))
		assert.Equal(t, 0, StatusCodeOf(err))
		assert.Equal(t, time.Duration(0), RetryAfterOf(err))
	})

	t.Run("user input errors", func(t *testing.T) {
		err := NewUserInputError("prompt blocked", 400, nil)
		assert.True(t, IsUserInput(err))
		assert.Equal(t, "prompt blocked", err.Error())
	})
}

func TestCategorizeStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorCategory
	}{
		{429, ErrorTransient},
		{500, ErrorTransient},
		{503, ErrorTransient},
		{529, ErrorTransient},
		{401, ErrorPermanent},
		{403, ErrorPermanent},
		{400, ErrorUserInput},
		{404, ErrorUserInput},
		{413, ErrorUserInput},
		{422, ErrorUserInput},
		{409, ErrorPermanent},
		{418, ErrorPermanent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategorizeStatusCode(tt.code), "code %d", tt.code)
	}
}

func TestNewStatusError(t *testing.T) {
	cause := errors.New("upstream")

	t.Run("category follows status code", func(t *testing.T) {
		assert.True(t, IsTransient(NewStatusError("m", 502, 0, cause)))
		assert.True(t, IsUserInput(NewStatusError("m", 400, 0, cause)))
		assert.True(t, IsPermanent(NewStatusError("m", 401, 0, cause)))
	})

	t.Run("retry delay forces transient", func(t *testing.T) {
		err := NewStatusError("m", 400, 5*time.Second, cause)
		assert.True(t, IsTransient(err))
		assert.Equal(t, 5*time.Second, RetryAfterOf(err))
		assert.Equal(t, 400, StatusCodeOf(err))
		assert.ErrorIs(t, err, cause)
	})
}

func TestParseRetryAfter(t *testing.T) {
	header := func(v string) *http.Response {
		return &http.Response{Header: http.Header{"Retry-After": []string{v}}}
	}

	assert.Zero(t, ParseRetryAfter(nil))
	assert.Zero(t, ParseRetryAfter(&http.Response{Header: http.Header{}}))
	assert.Zero(t, ParseRetryAfter(header("soon")))
	assert.Zero(t, ParseRetryAfter(header("0")))
	assert.Equal(t, 3*time.Second, ParseRetryAfter(header("3")))

	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	d := ParseRetryAfter(header(future))
	assert.Greater(t, d, 30*time.Second)
	assert.LessOrEqual(t, d, time.Minute)
}

func TestConnectionError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ConnectionError{Op: "connect", URL: "http://localhost:3000/sse", Err: cause}

	assert.Equal(t, "tool backend connect failed for http://localhost:3000/sse: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))

	var target *ConnectionError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Equal(t, "connect", target.Op)
}

func TestProtocolError(t *testing.T) {
	t.Run("wraps the malformed envelope sentinel", func(t *testing.T) {
		err := &ProtocolError{Method: "tools/call", Err: ErrMalformedEnvelope}

		assert.Equal(t, "tools/call: malformed response envelope", err.Error())
		assert.True(t, errors.Is(err, ErrMalformedEnvelope))
	})

	t.Run("wraps context deadlines", func(t *testing.T) {
		err := &ProtocolError{Method: "tools/list", Err: fmt.Errorf("send: %w", errors.ErrUnsupported)}
		assert.True(t, errors.Is(err, errors.ErrUnsupported))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("no JSON object found")
		err := &ParseError{Text: "hello", Err: cause}

		assert.Equal(t, "unparseable decision: no JSON object found", err.Error())
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("without cause", func(t *testing.T) {
		err := &ParseError{Text: "hello"}
		assert.Equal(t, "unparseable decision", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}

func TestUnknownActionError(t *testing.T) {
	err := &UnknownActionError{Action: "SEARCH"}
	assert.Equal(t, `unknown action "SEARCH"`, err.Error())
}

func TestRemoteError(t *testing.T) {
	tests := []struct {
		name     string
		err      *RemoteError
		expected string
	}{
		{"with code", &RemoteError{Code: -32602, Message: "invalid params"}, "tool error -32602: invalid params"},
		{"without code", &RemoteError{Message: "not found"}, "tool error: not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
