package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	ai "github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/mcp"
)

func demoTools() []mcp.ServerTool {
	return []mcp.ServerTool{
		{
			Descriptor: ai.ToolDescriptor{
				Name:        "echo",
				Description: "Echo back the input text",
				Parameters: []ai.ToolParameter{
					{Name: "text", Description: "The text to echo back", Required: true},
				},
			},
			Handler: echoHandler,
		},
		{
			Descriptor: ai.ToolDescriptor{
				Name:        "time",
				Description: "Get the current time",
				Parameters: []ai.ToolParameter{
					{Name: "format", Description: "Time format: 'rfc3339', 'unix', or 'human' (default)"},
				},
			},
			Handler: timeHandler,
		},
		{
			Descriptor: ai.ToolDescriptor{
				Name:        "calculate",
				Description: "Perform basic arithmetic on two numbers",
				Parameters: []ai.ToolParameter{
					{Name: "operation", Description: "One of add, subtract, multiply, divide", Required: true},
					{Name: "a", Description: "First number", Required: true},
					{Name: "b", Description: "Second number", Required: true},
				},
			},
			Handler: calculateHandler,
		},
	}
}

func echoHandler(_ context.Context, args *ai.Params) (string, error) {
	text, ok := stringArg(args, "text")
	if !ok {
		return "", fmt.Errorf("missing required argument: text")
	}
	return text, nil
}

var now = time.Now

func timeHandler(_ context.Context, args *ai.Params) (string, error) {
	t := now()
	format, _ := stringArg(args, "format")

	switch strings.ToLower(format) {
	case "rfc3339":
		return t.Format(time.RFC3339), nil
	case "unix":
		return strconv.FormatInt(t.Unix(), 10), nil
	default:
		return t.Format("Monday, January 2, 2006 at 3:04 PM MST"), nil
	}
}

func calculateHandler(_ context.Context, args *ai.Params) (string, error) {
	op, _ := stringArg(args, "operation")
	a, err := floatArg(args, "a")
	if err != nil {
		return "", err
	}
	b, err := floatArg(args, "b")
	if err != nil {
		return "", err
	}

	var result float64
	switch strings.ToLower(op) {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return "", fmt.Errorf("cannot divide by zero")
		}
		result = a / b
	default:
		return "", fmt.Errorf("unknown operation: %s", op)
	}

	return fmt.Sprintf("%.6g", result), nil
}

// stringArg returns a parameter rendered as a string. Reasoners sometimes
// send numbers where the schema declares strings.
func stringArg(args *ai.Params, key string) (string, bool) {
	if args == nil {
		return "", false
	}
	v, ok := args.Get(key)
	if !ok || v == nil {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

func floatArg(args *ai.Params, key string) (float64, error) {
	s, ok := stringArg(args, key)
	if !ok {
		return 0, fmt.Errorf("missing required argument: %s", key)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("argument %s is not a number: %q", key, s)
	}
	return f, nil
}
