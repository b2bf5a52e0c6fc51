package mcp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/client/transport"
)

// Default exchange timeouts.
const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultListTimeout    = 30 * time.Second
	DefaultCallTimeout    = 60 * time.Second
)

// Options configures a Client.
type Options struct {
	ConnectTimeout time.Duration
	ListTimeout    time.Duration
	CallTimeout    time.Duration
	HTTPClient     *http.Client
	Headers        map[string]string
	Logger         *slog.Logger
	ClientName     string
	ClientVersion  string
	// Transport replaces the SSE transport, e.g. with an in-process one.
	Transport transport.Interface
}

// Option is a functional option for configuring a Client.
type Option func(*Options)

// WithConnectTimeout bounds the handshake.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ConnectTimeout = d
	}
}

// WithListTimeout bounds the tools/list exchange.
func WithListTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ListTimeout = d
	}
}

// WithCallTimeout bounds each tools/call exchange.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.CallTimeout = d
	}
}

// WithHTTPClient sets the HTTP client used by the SSE transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

// WithHeaders sets extra HTTP headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(o *Options) {
		o.Headers = h
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithClientInfo sets the name and version reported during initialize.
func WithClientInfo(name, version string) Option {
	return func(o *Options) {
		o.ClientName = name
		o.ClientVersion = version
	}
}

// WithTransport uses t instead of dialing the URL over SSE.
func WithTransport(t transport.Interface) Option {
	return func(o *Options) {
		o.Transport = t
	}
}

func applyOptions(opts ...Option) *Options {
	o := &Options{
		ConnectTimeout: DefaultConnectTimeout,
		ListTimeout:    DefaultListTimeout,
		CallTimeout:    DefaultCallTimeout,
		ClientName:     "scout",
		ClientVersion:  "1.0.0",
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
