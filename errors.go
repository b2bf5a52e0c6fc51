package scout

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrEmptyInput is returned when a required input is empty.
var ErrEmptyInput = errors.New("empty input")

// ErrMalformedEnvelope is wrapped by a ProtocolError when a tool response
// carries neither an error, content, nor a result value.
var ErrMalformedEnvelope = errors.New("malformed response envelope")

// ErrIterationExhausted marks a question that reached its iteration bound
// without the reasoner choosing to answer. It is a soft outcome: the loop
// still produces a synthesized answer.
var ErrIterationExhausted = errors.New("iteration limit reached")

// ErrorCategory classifies reasoner failures. The HTTP API maps each
// category to a response status.
type ErrorCategory string

const (
	// ErrorTransient indicates the reasoning backend is temporarily unable to
	// answer: rate limits, overload, server errors.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates a failure the caller cannot fix by asking
	// again: invalid API key, missing permissions.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the question itself was rejected: malformed
	// request, oversized prompt, content policy.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool          // convenience: returns true if Category == ErrorTransient
	StatusCode() int          // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error         // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorTransient,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewTransientErrorWithRetry creates a transient error with a suggested retry delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{
		Msg:        msg,
		Cat:        ErrorTransient,
		Code:       statusCode,
		RetryDelay: retryAfter,
		Cause:      cause,
	}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorPermanent,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewUserInputError creates an error indicating invalid user input.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorUserInput,
		Code:  statusCode,
		Cause: cause,
	}
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
// It checks if the error or any wrapped error implements CategorizedError.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput returns true if the error is categorized as user input error.
// It checks if the error or any wrapped error implements CategorizedError.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// CategorizeStatusCode maps an HTTP status code returned by a reasoning
// backend to an ErrorCategory. 529 is Anthropic's overload status.
func CategorizeStatusCode(code int) ErrorCategory {
	switch {
	case code == http.StatusTooManyRequests || code == 529:
		return ErrorTransient
	case code >= 500 && code < 600:
		return ErrorTransient
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrorPermanent
	case code == http.StatusBadRequest || code == http.StatusNotFound ||
		code == http.StatusRequestEntityTooLarge || code == http.StatusUnprocessableEntity:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// NewStatusError categorizes a backend failure by its HTTP status code. A
// positive retryAfter always yields a transient error.
func NewStatusError(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	if retryAfter > 0 {
		return NewTransientErrorWithRetry(msg, statusCode, retryAfter, cause)
	}
	switch CategorizeStatusCode(statusCode) {
	case ErrorTransient:
		return NewTransientError(msg, statusCode, cause)
	case ErrorUserInput:
		return NewUserInputError(msg, statusCode, cause)
	default:
		return NewPermanentError(msg, statusCode, cause)
	}
}

// ParseRetryAfter reads the Retry-After header of resp, in seconds or as an
// HTTP date. It returns 0 when the header is absent, unparseable or past.
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

// ConnectionError reports a failed session handshake with the tool backend.
type ConnectionError struct {
	Op  string // "connect" or "initialize"
	URL string
	Err error
}

// Error returns a formatted error message describing the connection failure.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("tool backend %s failed for %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a failed or malformed exchange with the tool backend.
type ProtocolError struct {
	Method string // JSON-RPC method, e.g. "tools/list"
	Err    error
}

// Error returns a formatted error message describing the protocol failure.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ParseError reports reasoner output that could not be read as a decision.
type ParseError struct {
	Text string // raw reasoner output
	Err  error
}

// Error returns the error message. The raw text is not included.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparseable decision: %v", e.Err)
	}
	return "unparseable decision"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnknownActionError reports a well-formed decision whose action tag is not
// recognized.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Action)
}

// RemoteError is an error reported by the tool backend inside an otherwise
// valid response. It is data, not a failure of the exchange.
type RemoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("tool error %d: %s", e.Code, e.Message)
	}
	return "tool error: " + e.Message
}
