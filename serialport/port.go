package serialport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/moffa90/go-avrfuse/protocol"
)

// DefaultBaudRate is the line speed used when no option overrides it.
const DefaultBaudRate = 38400

// rawPort is the subset of serial.Port the bootloader link needs.
type rawPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Config holds the line settings applied when a port is opened.
type Config struct {
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
}

func defaultConfig() Config {
	return Config{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Option configures a port before it is opened.
type Option func(*Config)

// WithBaudRate sets the line speed. Non-positive values are ignored.
func WithBaudRate(baud int) Option {
	return func(c *Config) {
		if baud > 0 {
			c.BaudRate = baud
		}
	}
}

// WithParity sets the parity mode.
func WithParity(p serial.Parity) Option {
	return func(c *Config) {
		c.Parity = p
	}
}

// WithStopBits sets the number of stop bits.
func WithStopBits(s serial.StopBits) Option {
	return func(c *Config) {
		c.StopBits = s
	}
}

// Port is a serial line to the bootloader. It implements protocol.Transport.
type Port struct {
	port    rawPort
	path    string
	timeout time.Duration
}

// Open opens the serial device at path in 8N1 mode and discards any bytes
// already waiting in the input buffer.
func Open(path string, opts ...Option) (*Port, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	}
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	port, err := newPort(p, path)
	if err != nil {
		p.Close()
		return nil, err
	}
	return port, nil
}

func newPort(p rawPort, path string) (*Port, error) {
	if err := p.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("reset input buffer on %s: %w", path, err)
	}
	return &Port{port: p, path: path}, nil
}

// List returns the names of the serial ports present on the system.
func List() ([]string, error) {
	return serial.GetPortsList()
}

// Path returns the device path the port was opened on.
func (p *Port) Path() string {
	return p.path
}

// WriteByte sends one byte.
func (p *Port) WriteByte(b byte) error {
	n, err := p.port.Write([]byte{b})
	if err != nil {
		return err
	}
	if n != 1 {
		return io.ErrShortWrite
	}
	return nil
}

// ReadByteTimeout waits up to timeout for one byte. A read that returns no
// data is reported as protocol.ErrTimeout.
func (p *Port) ReadByteTimeout(timeout time.Duration) (byte, error) {
	if timeout != p.timeout {
		if err := p.port.SetReadTimeout(timeout); err != nil {
			return 0, fmt.Errorf("set read timeout: %w", err)
		}
		p.timeout = timeout
	}

	buf := make([]byte, 1)
	n, err := p.port.Read(buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, protocol.ErrTimeout
	}
	return buf[0], nil
}

// Close releases the serial device.
func (p *Port) Close() error {
	return p.port.Close()
}
