package main

import (
	"context"
	"testing"
	"time"

	ai "github.com/spetersoncode/scout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoHandler(t *testing.T) {
	out, err := echoHandler(context.Background(), ai.ParamsOf("text", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = echoHandler(context.Background(), ai.NewParams())
	assert.ErrorContains(t, err, "text")
}

func TestTimeHandler(t *testing.T) {
	fixed := time.Date(2025, 3, 4, 15, 4, 5, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	tests := []struct {
		format   string
		expected string
	}{
		{"rfc3339", "2025-03-04T15:04:05Z"},
		{"unix", "1741100645"},
		{"", "Tuesday, March 4, 2025 at 3:04 PM UTC"},
	}
	for _, tt := range tests {
		out, err := timeHandler(context.Background(), ai.ParamsOf("format", tt.format))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, out, "format %q", tt.format)
	}
}

func TestCalculateHandler(t *testing.T) {
	tests := []struct {
		name     string
		args     *ai.Params
		expected string
		errMsg   string
	}{
		{"multiply strings", ai.ParamsOf("operation", "multiply", "a", "12", "b", "7"), "84", ""},
		{"numbers accepted", ai.ParamsOf("operation", "add", "a", 1.5, "b", 2.0), "3.5", ""},
		{"divide", ai.ParamsOf("operation", "divide", "a", "1", "b", "4"), "0.25", ""},
		{"divide by zero", ai.ParamsOf("operation", "divide", "a", "1", "b", "0"), "", "divide by zero"},
		{"unknown operation", ai.ParamsOf("operation", "pow", "a", "1", "b", "2"), "", "unknown operation"},
		{"missing operand", ai.ParamsOf("operation", "add", "a", "1"), "", "missing required argument: b"},
		{"not a number", ai.ParamsOf("operation", "add", "a", "x", "b", "1"), "", "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := calculateHandler(context.Background(), tt.args)
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestDemoToolsAllHaveHandlers(t *testing.T) {
	for _, tool := range demoTools() {
		assert.NotNil(t, tool.Handler, tool.Descriptor.Name)
		assert.NotEmpty(t, tool.Descriptor.Description, tool.Descriptor.Name)
	}
}
