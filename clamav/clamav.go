package clamav

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

var (
	ErrScanFailed    = errors.New("scan failed")
	ErrEngineError   = errors.New("scan engine error")
	ErrInvalidConfig = errors.New("invalid scanner configuration")
)

// Result is a scan verdict.
type Result struct {
	Infected  bool
	Signature string // Malware signature name when infected
}

// Scanner is the malware-scanning contract consumed by the upload pipeline.
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) (Result, error)
}

// Client scans content against a clamd daemon over TCP using INSTREAM.
type Client struct {
	addr      string
	timeout   time.Duration
	chunkSize int
	dial      func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Option configures the client.
type Option func(*Client)

// WithTimeout bounds a single scan, connection included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithChunkSize overrides the INSTREAM chunk size.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithDialer substitutes the network dialer, for tests.
func WithDialer(dial func(ctx context.Context, network, addr string) (net.Conn, error)) Option {
	return func(c *Client) { c.dial = dial }
}

// New creates a clamd client for the given address (host:port).
func New(addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, ErrInvalidConfig
	}

	c := &Client{
		addr:      addr,
		timeout:   30 * time.Second,
		chunkSize: 32 * 1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dial == nil {
		d := &net.Dialer{}
		c.dial = d.DialContext
	}
	return c, nil
}

// Scan streams content to clamd and parses the verdict.
func (c *Client) Scan(ctx context.Context, r io.Reader) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dial(ctx, "tcp", c.addr)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEngineError, err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEngineError, err)
	}

	buf := make([]byte, c.chunkSize)
	var size [4]byte
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			binary.BigEndian.PutUint32(size[:], uint32(n))
			if _, err := conn.Write(size[:]); err != nil {
				return Result{}, fmt.Errorf("%w: %v", ErrEngineError, err)
			}
			if _, err := conn.Write(buf[:n]); err != nil {
				return Result{}, fmt.Errorf("%w: %v", ErrEngineError, err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrScanFailed, readErr)
		}
	}

	// Zero-length chunk terminates the stream
	binary.BigEndian.PutUint32(size[:], 0)
	if _, err := conn.Write(size[:]); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEngineError, err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\x00')
	if err != nil && reply == "" {
		return Result{}, fmt.Errorf("%w: %v", ErrEngineError, err)
	}

	return parseReply(strings.TrimRight(reply, "\x00"))
}

// parseReply interprets a clamd verdict line such as "stream: OK" or
// "stream: Eicar-Test-Signature FOUND".
func parseReply(reply string) (Result, error) {
	reply = strings.TrimSpace(reply)
	switch {
	case strings.HasSuffix(reply, "OK"):
		return Result{}, nil
	case strings.HasSuffix(reply, "FOUND"):
		sig := strings.TrimSuffix(reply, " FOUND")
		if i := strings.Index(sig, ": "); i >= 0 {
			sig = sig[i+2:]
		}
		return Result{Infected: true, Signature: sig}, nil
	case strings.HasSuffix(reply, "ERROR"):
		return Result{}, fmt.Errorf("%w: %s", ErrEngineError, reply)
	}
	return Result{}, fmt.Errorf("%w: unexpected reply %q", ErrScanFailed, reply)
}
