package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/scout"
)

// ErrHandshakeTimeout is wrapped by a ConnectionError when the backend does
// not announce its message endpoint in time.
var ErrHandshakeTimeout = errors.New("timeout waiting for endpoint event")

// ErrClosed is returned by operations on a closed Client.
var ErrClosed = errors.New("client closed")

const notLoadedHint = "(tool list not loaded yet)"

// Client talks to one MCP tool backend over one session.
//
// The tool list is fetched at most once and cached for the lifetime of the
// Client; [Client.DescribeTools] renders the cached list. Client is safe for
// concurrent use, but a single question issues one request at a time.
type Client struct {
	url  string
	opts *Options
	log  *slog.Logger

	mu        sync.Mutex
	tr        transport.Interface
	cancel    context.CancelFunc
	connected bool
	closed    bool
	sessionID string

	listMu  sync.Mutex
	catalog atomic.Pointer[ai.Catalog]

	nextID atomic.Int64
}

// NewClient creates a client for the SSE endpoint at url (for example
// "http://localhost:3000/sse"). No network activity happens until
// [Client.Connect] or the first request.
func NewClient(url string, opts ...Option) *Client {
	o := applyOptions(opts...)
	return &Client{
		url:  url,
		opts: o,
		log:  o.Logger.With("component", "mcp", "url", url),
	}
}

// URL returns the backend URL the client was created with.
func (c *Client) URL() string { return c.url }

// SessionID returns the session identifier assigned during the handshake,
// or "" before Connect succeeds.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Connect performs the session handshake: it opens the event stream, waits
// for the endpoint announcement, then runs the MCP initialize exchange.
// It is a no-op once it has succeeded. Failures are *scout.ConnectionError.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return &ai.ConnectionError{Op: "connect", URL: c.url, Err: ErrClosed}
	}
	if c.connected {
		return nil
	}

	start := time.Now()
	tr := c.opts.Transport
	if tr == nil {
		sse, err := transport.NewSSE(c.url, c.sseOptions()...)
		if err != nil {
			return &ai.ConnectionError{Op: "connect", URL: c.url, Err: err}
		}
		tr = sse
	}

	// The stream outlives this call, so it gets its own context.
	streamCtx, cancel := context.WithCancel(context.Background())
	started := make(chan error, 1)
	go func() { started <- tr.Start(streamCtx) }()

	timer := time.NewTimer(c.opts.ConnectTimeout)
	defer timer.Stop()

	var err error
	select {
	case err = <-started:
	case <-ctx.Done():
		err = ctx.Err()
	case <-timer.C:
		err = ErrHandshakeTimeout
	}
	if err != nil {
		cancel()
		_ = tr.Close()
		c.log.Warn("handshake failed", "error", err)
		return &ai.ConnectionError{Op: "connect", URL: c.url, Err: err}
	}

	c.tr = tr
	c.cancel = cancel
	c.sessionID = sessionIDOf(tr)

	if err := c.initialize(ctx); err != nil {
		c.teardown()
		c.log.Warn("initialize failed", "error", err)
		return &ai.ConnectionError{Op: "initialize", URL: c.url, Err: err}
	}

	c.connected = true
	c.log.Info("session established",
		"session_id", c.sessionID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (c *Client) initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
	defer cancel()

	params := mcp.InitializeParams{
		ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
		Capabilities:    mcp.ClientCapabilities{},
		ClientInfo: mcp.Implementation{
			Name:    c.opts.ClientName,
			Version: c.opts.ClientVersion,
		},
	}
	resp, err := c.tr.SendRequest(ctx, c.newRequest(string(mcp.MethodInitialize), params))
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return &ai.RemoteError{Code: resp.Error.Code, Message: resp.Error.Message}
	}

	return c.tr.SendNotification(ctx, mcp.JSONRPCNotification{
		JSONRPC:      mcp.JSONRPC_VERSION,
		Notification: mcp.Notification{Method: "notifications/initialized"},
	})
}

// ListTools returns the backend's tool catalog. The first successful call
// performs one tools/list exchange; later calls return the cached catalog.
// Failures are *scout.ProtocolError and are not cached, so a later call
// tries again.
func (c *Client) ListTools(ctx context.Context) (*ai.Catalog, error) {
	if cat := c.catalog.Load(); cat != nil {
		return cat, nil
	}

	c.listMu.Lock()
	defer c.listMu.Unlock()

	if cat := c.catalog.Load(); cat != nil {
		return cat, nil
	}
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.send(ctx, c.opts.ListTimeout, string(mcp.MethodToolsList), struct{}{})
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &ai.ProtocolError{
			Method: string(mcp.MethodToolsList),
			Err:    &ai.RemoteError{Code: resp.Error.Code, Message: resp.Error.Message},
		}
	}

	tools, err := decodeToolList(resp.Result)
	if err != nil {
		return nil, &ai.ProtocolError{Method: string(mcp.MethodToolsList), Err: err}
	}

	cat := ai.NewCatalog(tools...)
	c.catalog.Store(cat)
	c.log.Debug("tools listed",
		"count", cat.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cat, nil
}

// Catalog returns the cached catalog, or nil before ListTools succeeds.
func (c *Client) Catalog() *ai.Catalog {
	return c.catalog.Load()
}

// DescribeTools renders the cached catalog for the reasoner. It never
// performs I/O; before the catalog is loaded it returns a fixed hint.
func (c *Client) DescribeTools() string {
	cat := c.catalog.Load()
	if cat == nil {
		return notLoadedHint
	}
	return cat.Describe()
}

// CallTool invokes one tool and normalizes the response envelope.
//
// A tool-level error reported by the backend is returned as an outcome with
// Error set and a nil error. Transport failures, timeouts and envelopes of
// unknown shape are *scout.ProtocolError.
func (c *Client) CallTool(ctx context.Context, name string, params *ai.Params) (ai.ToolOutcome, error) {
	if err := c.Connect(ctx); err != nil {
		return ai.ToolOutcome{}, err
	}
	if params == nil {
		params = ai.NewParams()
	}

	start := time.Now()
	resp, err := c.send(ctx, c.opts.CallTimeout, string(mcp.MethodToolsCall), callParams{Name: name, Arguments: params})
	if err != nil {
		c.log.Warn("tool call failed", "tool", name, "error", err)
		return ai.ToolOutcome{}, err
	}

	out, err := normalizeCall(resp)
	if err != nil {
		return ai.ToolOutcome{}, &ai.ProtocolError{Method: string(mcp.MethodToolsCall), Err: err}
	}
	c.log.Debug("tool called",
		"tool", name,
		"is_error", out.IsError(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Close ends the session. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.teardown()
}

// teardown releases the transport. Callers hold c.mu.
func (c *Client) teardown() error {
	c.connected = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.tr == nil {
		return nil
	}
	err := c.tr.Close()
	c.tr = nil
	return err
}

type callParams struct {
	Name      string     `json:"name"`
	Arguments *ai.Params `json:"arguments"`
}

// send performs one JSON-RPC exchange bounded by timeout. The in-flight HTTP
// request is aborted when the deadline passes.
func (c *Client) send(ctx context.Context, timeout time.Duration, method string, params any) (*transport.JSONRPCResponse, error) {
	c.mu.Lock()
	tr := c.tr
	c.mu.Unlock()
	if tr == nil {
		return nil, &ai.ProtocolError{Method: method, Err: ErrClosed}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := tr.SendRequest(ctx, c.newRequest(method, params))
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return nil, &ai.ProtocolError{Method: method, Err: err}
	}
	if resp == nil {
		return nil, &ai.ProtocolError{Method: method, Err: ai.ErrMalformedEnvelope}
	}
	return resp, nil
}

func (c *Client) newRequest(method string, params any) transport.JSONRPCRequest {
	return transport.JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(c.nextID.Add(1)),
		Method:  method,
		Params:  params,
	}
}

func (c *Client) sseOptions() []transport.ClientOption {
	opts := []transport.ClientOption{transport.WithSSELogger(sseLogger{c.log})}
	if c.opts.HTTPClient != nil {
		opts = append(opts, transport.WithHTTPClient(c.opts.HTTPClient))
	}
	if len(c.opts.Headers) > 0 {
		opts = append(opts, transport.WithHeaders(c.opts.Headers))
	}
	return opts
}

type endpointer interface {
	GetEndpoint() *url.URL
}

func sessionIDOf(tr transport.Interface) string {
	if ep, ok := tr.(endpointer); ok {
		if u := ep.GetEndpoint(); u != nil {
			return SessionIDFromEndpoint(u.String())
		}
	}
	return tr.GetSessionId()
}

// SessionIDFromEndpoint extracts the session identifier from the endpoint
// announced during the handshake. A sessionId (or session_id, session)
// query parameter wins; otherwise the trailing path segment is used.
func SessionIDFromEndpoint(endpoint string) string {
	path := endpoint
	if u, err := url.Parse(endpoint); err == nil {
		q := u.Query()
		for _, key := range []string{"sessionId", "session_id", "session"} {
			if v := q.Get(key); v != "" {
				return v
			}
		}
		path = u.Path
	}
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// sseLogger routes transport logs through slog.
type sseLogger struct {
	l *slog.Logger
}

func (s sseLogger) Infof(format string, v ...any) {
	s.l.Debug(fmt.Sprintf(format, v...))
}

func (s sseLogger) Errorf(format string, v ...any) {
	s.l.Warn(fmt.Sprintf(format, v...))
}
