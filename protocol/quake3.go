// Package protocol implements the Quake 3 out-of-band getstatus query:
// a single connectionless UDP exchange that returns server metadata and
// the connected player list.
package protocol

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultPort is the standard Quake 3 server port.
	DefaultPort = 27960

	// DefaultTimeout bounds each blocking socket operation.
	DefaultTimeout = 5 * time.Second

	// DefaultBufferSize caps the reply datagram. Bytes beyond the
	// buffer are silently truncated; raise it via WithBufferSize for
	// servers with long status lines.
	DefaultBufferSize = 1024
)

// statusRequest is the 13-byte getstatus datagram: the connectionless
// prefix followed by the command, no terminator or length field.
var statusRequest = append([]byte{0xFF, 0xFF, 0xFF, 0xFF}, "getstatus"...)

// Options configures the socket operations of a Client.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// DefaultOptions returns the default client options.
func DefaultOptions() *Options {
	return &Options{
		ReadTimeout:  DefaultTimeout,
		WriteTimeout: DefaultTimeout,
		BufferSize:   DefaultBufferSize,
	}
}

// Option is a functional option for configuring a Client.
type Option func(*Options)

// WithReadTimeout bounds the blocking receive.
func WithReadTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ReadTimeout = d
	}
}

// WithWriteTimeout bounds the blocking send.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.WriteTimeout = d
	}
}

// WithTimeout sets both the read and write timeouts.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ReadTimeout = d
		o.WriteTimeout = d
	}
}

// WithBufferSize sets the reply buffer size in bytes.
func WithBufferSize(n int) Option {
	return func(o *Options) {
		o.BufferSize = n
	}
}

// Client queries a single Quake 3 server. It holds no socket between
// calls, so one client can serve repeated and concurrent queries.
type Client struct {
	addr string
	opts Options
}

// NewClient creates a client for the given server address. A missing
// port defaults to the standard Quake 3 port.
func NewClient(addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		// No port specified - check if it's IPv6 with brackets but no port
		if len(addr) > 2 && addr[0] == '[' && addr[len(addr)-1] == ']' {
			host = addr[1 : len(addr)-1]
		} else {
			host = addr
		}
		portStr = strconv.Itoa(DefaultPort)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid port: %s", portStr)
	}

	return &Client{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		opts: *options,
	}, nil
}

// Addr returns the normalized host:port the client queries.
func (c *Client) Addr() string { return c.addr }

// GetStatus performs one getstatus exchange and decodes the reply. The
// socket is ephemeral and closed on every exit path. A failure at any
// step aborts the query; there is no retry and no partial result.
func (c *Client) GetStatus(ctx context.Context) (*ServerStatus, error) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, &TransportError{Op: OpBind, Err: err}
	}
	defer conn.Close()

	// An unresolvable target is a send failure, same as unreachable.
	raddr, err := net.ResolveUDPAddr("udp", c.addr)
	if err != nil {
		return nil, &TransportError{Op: OpSend, Err: err}
	}

	if err := conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		return nil, &TransportError{Op: OpDeadline, Err: err}
	}
	if _, err := conn.WriteTo(statusRequest, raddr); err != nil {
		return nil, &TransportError{Op: OpSend, Err: err}
	}

	if err := conn.SetReadDeadline(readDeadline(ctx, c.opts.ReadTimeout)); err != nil {
		return nil, &TransportError{Op: OpDeadline, Err: err}
	}
	reply := make([]byte, c.opts.BufferSize)
	n, _, err := conn.ReadFrom(reply)
	if err != nil {
		return nil, &TransportError{Op: OpReceive, Err: err}
	}

	return decodeStatus(reply[:n])
}

// readDeadline returns the earlier of the configured timeout and the
// context deadline.
func readDeadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}
