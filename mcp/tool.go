// Package mcp connects the reasoning loop to an MCP (Model Context Protocol)
// tool backend.
//
//   - Client: session handshake over SSE, cached tool listing, tool invocation
//     with response normalization.
//   - Server: expose Go handlers as an MCP tool backend, used by the demo
//     backend command and by tests.
//
// # Consuming a Tool Backend
//
//	c := mcp.NewClient("http://localhost:3000/sse")
//	if err := c.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	catalog, err := c.ListTools(ctx)
//	out, err := c.CallTool(ctx, "search", scout.ParamsOf("query", "lease"))
package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/scout"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type wireProperty struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type wireTool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema struct {
		Properties *orderedmap.OrderedMap[string, wireProperty] `json:"properties"`
		Required   []string                                     `json:"required"`
	} `json:"inputSchema"`
}

type wireToolList struct {
	Tools []wireTool `json:"tools"`
}

// decodeToolList reads a tools/list result, keeping parameters in the order
// the schema declares them.
func decodeToolList(raw json.RawMessage) ([]ai.ToolDescriptor, error) {
	if isNull(raw) {
		return nil, ai.ErrMalformedEnvelope
	}
	var list wireToolList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode tool list: %w", err)
	}

	tools := make([]ai.ToolDescriptor, 0, len(list.Tools))
	for _, wt := range list.Tools {
		if wt.Name == "" {
			continue
		}
		tools = append(tools, fromWireTool(wt))
	}
	return tools, nil
}

// fromWireTool converts a decoded tool entry to a descriptor.
func fromWireTool(wt wireTool) ai.ToolDescriptor {
	d := ai.ToolDescriptor{Name: wt.Name, Description: wt.Description}
	props := wt.InputSchema.Properties
	if props == nil {
		return d
	}
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		d.Parameters = append(d.Parameters, ai.ToolParameter{
			Name:        pair.Key,
			Description: pair.Value.Description,
			Required:    slices.Contains(wt.InputSchema.Required, pair.Key),
		})
	}
	return d
}

type wireContent struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type wireCallResult struct {
	Content []json.RawMessage `json:"content"`
	IsError bool              `json:"isError"`
}

// normalizeCall maps a tools/call response onto a ToolOutcome. The accepted
// shapes, checked in order:
//
//  1. an error member: the backend's error
//  2. a result with a non-empty content list: the first element's text
//  3. any other non-null result: a string value as-is, anything else
//     serialized as JSON
//
// Anything else returns ErrMalformedEnvelope.
func normalizeCall(resp *transport.JSONRPCResponse) (ai.ToolOutcome, error) {
	if resp.Error != nil {
		return ai.ToolOutcome{Error: &ai.RemoteError{Code: resp.Error.Code, Message: resp.Error.Message}}, nil
	}
	if isNull(resp.Result) {
		return ai.ToolOutcome{}, ai.ErrMalformedEnvelope
	}

	var res wireCallResult
	if err := json.Unmarshal(resp.Result, &res); err == nil && len(res.Content) > 0 {
		text := firstText(res.Content[0])
		if res.IsError {
			return ai.ToolOutcome{Error: &ai.RemoteError{Message: text}}, nil
		}
		return ai.ToolOutcome{Result: text}, nil
	}

	return ai.ToolOutcome{Result: scalarText(resp.Result)}, nil
}

// scalarText renders a bare result value as text. JSON strings are
// unquoted; anything else keeps its JSON form.
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// firstText returns the text of a content element, or the element itself
// serialized when it carries no text.
func firstText(raw json.RawMessage) string {
	var c wireContent
	if err := json.Unmarshal(raw, &c); err == nil && c.Text != nil {
		return *c.Text
	}
	return string(bytes.TrimSpace(raw))
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// ToMCPTool converts a descriptor to an MCP tool with a string-typed input
// schema whose properties keep the descriptor's parameter order.
func ToMCPTool(d ai.ToolDescriptor) mcp.Tool {
	props := orderedmap.New[string, wireProperty]()
	var required []string
	for _, p := range d.Parameters {
		props.Set(p.Name, wireProperty{Type: "string", Description: p.Description})
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := struct {
		Type       string                                       `json:"type"`
		Properties *orderedmap.OrderedMap[string, wireProperty] `json:"properties"`
		Required   []string                                     `json:"required,omitempty"`
	}{Type: "object", Properties: props, Required: required}

	raw, err := json.Marshal(schema)
	if err != nil {
		raw = []byte(`{"type":"object","properties":{}}`)
	}
	return mcp.NewToolWithRawSchema(d.Name, d.Description, raw)
}
