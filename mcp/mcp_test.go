package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	ai "github.com/spetersoncode/scout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a scripted transport.Interface.
type fakeTransport struct {
	mu        sync.Mutex
	methods   []string
	params    []any
	startErr  error
	sessionID string
	closed    bool
	respond   func(ctx context.Context, req transport.JSONRPCRequest) (*transport.JSONRPCResponse, error)
}

func (f *fakeTransport) Start(ctx context.Context) error { return f.startErr }

func (f *fakeTransport) SendRequest(ctx context.Context, req transport.JSONRPCRequest) (*transport.JSONRPCResponse, error) {
	f.mu.Lock()
	f.methods = append(f.methods, req.Method)
	f.params = append(f.params, req.Params)
	f.mu.Unlock()
	if req.Method == "initialize" {
		return &transport.JSONRPCResponse{ID: req.ID, Result: json.RawMessage(`{"protocolVersion":"2025-06-18"}`)}, nil
	}
	return f.respond(ctx, req)
}

func (f *fakeTransport) SendNotification(ctx context.Context, n mcp.JSONRPCNotification) error {
	return nil
}

func (f *fakeTransport) SetNotificationHandler(func(mcp.JSONRPCNotification)) {}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) GetSessionId() string { return f.sessionID }

func (f *fakeTransport) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.methods {
		if m == method {
			n++
		}
	}
	return n
}

func result(raw string) func(context.Context, transport.JSONRPCRequest) (*transport.JSONRPCResponse, error) {
	return func(_ context.Context, req transport.JSONRPCRequest) (*transport.JSONRPCResponse, error) {
		return &transport.JSONRPCResponse{ID: req.ID, Result: json.RawMessage(raw)}, nil
	}
}

func newFakeClient(t *testing.T, ft *fakeTransport, opts ...Option) *Client {
	t.Helper()
	c := NewClient("fake://backend/sse", append([]Option{WithTransport(ft)}, opts...)...)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSessionIDFromEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		expected string
	}{
		{"trailing path segment", "http://localhost:3000/messages/abc123", "abc123"},
		{"trailing slash", "/messages/abc123/", "abc123"},
		{"sessionId query", "http://localhost:3000/message?sessionId=5f1c", "5f1c"},
		{"session_id query", "/messages/?session_id=xyz", "xyz"},
		{"bare id", "abc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SessionIDFromEndpoint(tt.endpoint))
		})
	}
}

func TestNormalizeCall(t *testing.T) {
	tests := []struct {
		name      string
		resp      *transport.JSONRPCResponse
		result    string
		remoteErr string
		malformed bool
	}{
		{
			name:   "first content text",
			resp:   &transport.JSONRPCResponse{Result: json.RawMessage(`{"content":[{"type":"text","text":"X"},{"type":"text","text":"Y"}]}`)},
			result: "X",
		},
		{
			name:      "error member",
			resp:      &transport.JSONRPCResponse{Error: &mcp.JSONRPCErrorDetails{Code: -32602, Message: "bad params"}},
			remoteErr: "tool error -32602: bad params",
		},
		{
			name:      "tool reported error",
			resp:      &transport.JSONRPCResponse{Result: json.RawMessage(`{"content":[{"type":"text","text":"not found"}],"isError":true}`)},
			remoteErr: "tool error: not found",
		},
		{
			name:   "content without text",
			resp:   &transport.JSONRPCResponse{Result: json.RawMessage(`{"content":[{"type":"image","data":"AA=="}]}`)},
			result: `{"type":"image","data":"AA=="}`,
		},
		{
			name:   "bare result value",
			resp:   &transport.JSONRPCResponse{Result: json.RawMessage(`{"rows":3}`)},
			result: `{"rows":3}`,
		},
		{
			name:   "bare string result is unquoted",
			resp:   &transport.JSONRPCResponse{Result: json.RawMessage(`"plain"`)},
			result: "plain",
		},
		{
			name:   "bare string result with escapes",
			resp:   &transport.JSONRPCResponse{Result: json.RawMessage(`"line\nnext \"q\""`)},
			result: "line\nnext \"q\"",
		},
		{
			name:   "bare number result",
			resp:   &transport.JSONRPCResponse{Result: json.RawMessage(` 42 `)},
			result: "42",
		},
		{
			name:      "neither error nor result",
			resp:      &transport.JSONRPCResponse{},
			malformed: true,
		},
		{
			name:      "null result",
			resp:      &transport.JSONRPCResponse{Result: json.RawMessage(`null`)},
			malformed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := normalizeCall(tt.resp)
			if tt.malformed {
				assert.ErrorIs(t, err, ai.ErrMalformedEnvelope)
				return
			}
			require.NoError(t, err)
			if tt.remoteErr != "" {
				require.True(t, out.IsError())
				assert.Equal(t, tt.remoteErr, out.Error.Error())
				return
			}
			assert.False(t, out.IsError())
			assert.Equal(t, tt.result, out.Result)
		})
	}
}

func TestDecodeToolList(t *testing.T) {
	t.Run("keeps declared parameter order", func(t *testing.T) {
		raw := json.RawMessage(`{"tools":[{"name":"search","description":"Search.\nMore.","inputSchema":{"type":"object","properties":{"zeta":{"type":"string","description":"last letter"},"alpha":{"type":"string","description":"first letter"}},"required":["alpha"]}},{"name":"today","description":"Date","inputSchema":{"type":"object"}}]}`)
		tools, err := decodeToolList(raw)
		require.NoError(t, err)
		require.Len(t, tools, 2)

		params := tools[0].Parameters
		require.Len(t, params, 2)
		assert.Equal(t, ai.ToolParameter{Name: "zeta", Description: "last letter"}, params[0])
		assert.Equal(t, ai.ToolParameter{Name: "alpha", Description: "first letter", Required: true}, params[1])
		assert.Empty(t, tools[1].Parameters)
	})

	t.Run("null result is malformed", func(t *testing.T) {
		_, err := decodeToolList(json.RawMessage(`null`))
		assert.ErrorIs(t, err, ai.ErrMalformedEnvelope)
	})

	t.Run("invalid shape", func(t *testing.T) {
		_, err := decodeToolList(json.RawMessage(`{"tools":"nope"}`))
		assert.Error(t, err)
	})
}

func TestToMCPTool(t *testing.T) {
	d := ai.ToolDescriptor{
		Name:        "search",
		Description: "Search statutes",
		Parameters: []ai.ToolParameter{
			{Name: "query", Description: "keywords", Required: true},
			{Name: "limit", Description: "max hits"},
		},
	}
	tool := ToMCPTool(d)

	assert.Equal(t, "search", tool.Name)
	assert.Equal(t, "Search statutes", tool.Description)
	assert.Equal(t,
		`{"type":"object","properties":{"query":{"type":"string","description":"keywords"},"limit":{"type":"string","description":"max hits"}},"required":["query"]}`,
		string(tool.RawInputSchema))
}

func TestClientWithFakeTransport(t *testing.T) {
	t.Run("list is requested once and cached", func(t *testing.T) {
		ft := &fakeTransport{sessionID: "s-1", respond: result(`{"tools":[{"name":"a","description":"A"}]}`)}
		c := newFakeClient(t, ft)

		first, err := c.ListTools(context.Background())
		require.NoError(t, err)
		second, err := c.ListTools(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, ft.count("tools/list"))
		assert.Equal(t, 1, ft.count("initialize"))
		assert.Equal(t, "s-1", c.SessionID())
	})

	t.Run("concurrent first calls issue one request", func(t *testing.T) {
		ft := &fakeTransport{respond: func(ctx context.Context, req transport.JSONRPCRequest) (*transport.JSONRPCResponse, error) {
			time.Sleep(10 * time.Millisecond)
			return &transport.JSONRPCResponse{Result: json.RawMessage(`{"tools":[]}`)}, nil
		}}
		c := newFakeClient(t, ft)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.ListTools(context.Background())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, ft.count("tools/list"))
	})

	t.Run("list failure is a protocol error and is not cached", func(t *testing.T) {
		fail := true
		ft := &fakeTransport{}
		ft.respond = func(ctx context.Context, req transport.JSONRPCRequest) (*transport.JSONRPCResponse, error) {
			if fail {
				return nil, errors.New("connection reset")
			}
			return &transport.JSONRPCResponse{Result: json.RawMessage(`{"tools":[{"name":"a"}]}`)}, nil
		}
		c := newFakeClient(t, ft)

		_, err := c.ListTools(context.Background())
		var pe *ai.ProtocolError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "tools/list", pe.Method)
		assert.Nil(t, c.Catalog())
		assert.Equal(t, "(tool list not loaded yet)", c.DescribeTools())

		fail = false
		cat, err := c.ListTools(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, cat.Len())
	})

	t.Run("list JSON-RPC error is a protocol error", func(t *testing.T) {
		ft := &fakeTransport{respond: func(ctx context.Context, req transport.JSONRPCRequest) (*transport.JSONRPCResponse, error) {
			return &transport.JSONRPCResponse{Error: &mcp.JSONRPCErrorDetails{Code: -32601, Message: "method not found"}}, nil
		}}
		c := newFakeClient(t, ft)

		_, err := c.ListTools(context.Background())
		var re *ai.RemoteError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, -32601, re.Code)
	})

	t.Run("call sends ordered arguments", func(t *testing.T) {
		ft := &fakeTransport{respond: result(`{"content":[{"type":"text","text":"ok"}]}`)}
		c := newFakeClient(t, ft)

		out, err := c.CallTool(context.Background(), "search", ai.ParamsOf("query", "lease", "limit", 2))
		require.NoError(t, err)
		assert.Equal(t, "ok", out.Result)

		data, err := json.Marshal(ft.params[len(ft.params)-1])
		require.NoError(t, err)
		assert.Equal(t, `{"name":"search","arguments":{"query":"lease","limit":2}}`, string(data))
	})

	t.Run("call with nil params sends an empty object", func(t *testing.T) {
		ft := &fakeTransport{respond: result(`{"content":[{"type":"text","text":"ok"}]}`)}
		c := newFakeClient(t, ft)

		_, err := c.CallTool(context.Background(), "today", nil)
		require.NoError(t, err)
		data, _ := json.Marshal(ft.params[len(ft.params)-1])
		assert.Equal(t, `{"name":"today","arguments":{}}`, string(data))
	})

	t.Run("malformed envelope is a protocol error", func(t *testing.T) {
		ft := &fakeTransport{respond: result(`null`)}
		c := newFakeClient(t, ft)

		_, err := c.CallTool(context.Background(), "x", nil)
		var pe *ai.ProtocolError
		require.True(t, errors.As(err, &pe))
		assert.ErrorIs(t, err, ai.ErrMalformedEnvelope)
	})

	t.Run("call timeout aborts the exchange", func(t *testing.T) {
		ft := &fakeTransport{respond: func(ctx context.Context, req transport.JSONRPCRequest) (*transport.JSONRPCResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
		c := newFakeClient(t, ft, WithCallTimeout(20*time.Millisecond))

		start := time.Now()
		_, err := c.CallTool(context.Background(), "slow", nil)
		assert.Less(t, time.Since(start), time.Second)

		var pe *ai.ProtocolError
		require.True(t, errors.As(err, &pe))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("start failure is a connection error", func(t *testing.T) {
		ft := &fakeTransport{startErr: errors.New("refused")}
		c := newFakeClient(t, ft)

		err := c.Connect(context.Background())
		var ce *ai.ConnectionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "connect", ce.Op)
		assert.True(t, ft.closed)

		_, err = c.ListTools(context.Background())
		assert.True(t, errors.As(err, &ce))
	})

	t.Run("operations after close fail", func(t *testing.T) {
		ft := &fakeTransport{respond: result(`{"tools":[]}`)}
		c := newFakeClient(t, ft)
		require.NoError(t, c.Connect(context.Background()))
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())

		err := c.Connect(context.Background())
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func newTestBackend(t *testing.T) string {
	t.Helper()
	tools := []ServerTool{
		{
			Descriptor: ai.ToolDescriptor{
				Name:        "echo",
				Description: "Echo back the input text",
				Parameters:  []ai.ToolParameter{{Name: "text", Description: "text to echo", Required: true}},
			},
			Handler: func(ctx context.Context, args *ai.Params) (string, error) {
				v, _ := args.Get("text")
				return fmt.Sprint(v), nil
			},
		},
		{
			Descriptor: ai.ToolDescriptor{Name: "fail", Description: "Always fails"},
			Handler: func(ctx context.Context, args *ai.Params) (string, error) {
				return "", errors.New("statute database offline")
			},
		},
		{
			Descriptor: ai.ToolDescriptor{Name: "client_side", Description: "No handler"},
		},
	}
	ts := server.NewTestServer(NewServer(tools, WithName("test-backend")))
	t.Cleanup(ts.Close)
	return ts.URL + "/sse"
}

func TestClientAgainstSSEServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := NewClient(newTestBackend(t))
	defer c.Close()

	require.NoError(t, c.Connect(ctx))
	assert.NotEmpty(t, c.SessionID())
	assert.NotContains(t, c.SessionID(), "/")

	cat, err := c.ListTools(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"echo", "fail"}, cat.Names())

	desc := c.DescribeTools()
	assert.Contains(t, desc, "- echo: Echo back the input text")
	assert.Contains(t, desc, "    - text: text to echo (required)")
	assert.Equal(t, desc, c.DescribeTools())

	out, err := c.CallTool(ctx, "echo", ai.ParamsOf("text", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Result)

	out, err = c.CallTool(ctx, "fail", nil)
	require.NoError(t, err)
	require.True(t, out.IsError())
	assert.True(t, strings.Contains(out.Text(), "statute database offline"))
}

func TestConnectToUnreachableBackend(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/sse", WithConnectTimeout(2*time.Second))
	defer c.Close()

	err := c.Connect(context.Background())
	var ce *ai.ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "http://127.0.0.1:1/sse", ce.URL)
}
