package agent

import (
	"errors"
)

// ErrTimeout indicates the per-question timeout was exceeded.
var ErrTimeout = errors.New("agent: timeout exceeded")
