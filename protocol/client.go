package protocol

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Transport is the byte-level link to the bootloader. It is opened and
// configured by the caller and used by one Client at a time.
type Transport interface {
	// WriteByte sends one byte.
	WriteByte(b byte) error

	// ReadByteTimeout blocks until one byte is received or timeout expires.
	// An expired wait must be reported with an error matching ErrTimeout.
	ReadByteTimeout(timeout time.Duration) (byte, error)
}

// Client issues register write commands over a Transport.
type Client struct {
	transport   Transport
	readTimeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAckTimeout sets how long the client waits for the acknowledgement byte.
func WithAckTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}

// NewClient creates a Client on t.
func NewClient(t Transport, opts ...ClientOption) *Client {
	if t == nil {
		panic("transport cannot be nil")
	}

	c := &Client{
		transport:   t,
		readTimeout: DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AckTimeout returns the configured acknowledgement timeout.
func (c *Client) AckTimeout() time.Duration {
	return c.readTimeout
}

// WriteRegister sends cmd followed by value and waits for the single
// acknowledgement byte, which is discarded. There is no retry.
func (c *Client) WriteRegister(ctx context.Context, cmd byte, value byte) error {
	frame, err := BuildWriteCmd(cmd, value)
	if err != nil {
		return err
	}

	_, err = c.Send(ctx, frame)
	return err
}

// Send writes frame byte by byte, then performs exactly one bounded read and
// returns the received byte. The byte's meaning is not defined by the
// bootloader; callers should not rely on it.
//
// The context is only checked before the first byte goes out, so a frame is
// never left half written.
func (c *Client) Send(ctx context.Context, frame []byte) (byte, error) {
	if len(frame) == 0 {
		return 0, fmt.Errorf("frame cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("cancelled: %w", err)
	}

	for _, b := range frame {
		if err := c.transport.WriteByte(b); err != nil {
			return 0, fmt.Errorf("write command: %w", err)
		}
	}

	ack, err := c.transport.ReadByteTimeout(c.readTimeout)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return 0, &TimeoutError{Command: frame[0], Timeout: c.readTimeout}
		}
		return 0, fmt.Errorf("read acknowledgement: %w", err)
	}

	return ack, nil
}
