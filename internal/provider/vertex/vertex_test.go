package vertex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequiresProject(t *testing.T) {
	_, err := New(context.Background(), "", "")
	assert.ErrorContains(t, err, "project is required")
}
