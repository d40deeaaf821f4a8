package bootloader

import (
	"time"

	"github.com/moffa90/go-avrfuse/protocol"
)

// Config holds the session configuration.
type Config struct {
	// WriteCallback is called after every register is handled (optional)
	WriteCallback WriteCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// ReadTimeout bounds the wait for each acknowledgement byte
	ReadTimeout time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ReadTimeout: protocol.DefaultReadTimeout,
	}
}

// Option is a functional option for configuring the Session.
type Option func(*Config)

// WithWriteCallback sets a callback invoked for each register write or skip.
//
// Example:
//
//	sess, _ := bootloader.New(port, fuse.ATmega88, original,
//	    bootloader.WithWriteCallback(func(r bootloader.WriteResult) {
//	        fmt.Printf("%s: 0x%02X written=%t\n", r.Register, r.Value, r.Written)
//	    }),
//	)
func WithWriteCallback(callback WriteCallback) Option {
	return func(c *Config) {
		c.WriteCallback = callback
	}
}

// WithLogger sets a logger for the session operations.
//
// Example:
//
//	sess, _ := bootloader.New(port, profile, original, bootloader.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithReadTimeout sets how long to wait for the bootloader to acknowledge a write.
//
// Example:
//
//	sess, _ := bootloader.New(port, profile, original, bootloader.WithReadTimeout(5*time.Second))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}
