package bootloader

import "github.com/moffa90/go-avrfuse/fuse"

// WriteResult describes how one register was handled.
// Passed to WriteCallback and returned by ApplyAll and Pending.
type WriteResult struct {
	// Register is the register concerned
	Register fuse.Register

	// Command is the protocol command code for the register
	Command byte

	// Original is the byte captured when the session was opened
	Original byte

	// HasOriginal is false when the session has no captured byte for Register
	HasOriginal bool

	// Value is the encoded byte
	Value byte

	// Written is true if the command was (or, for Pending, would be) sent.
	// It is false when Value equals Original.
	Written bool
}

// WriteCallback is called after each register is written or skipped.
// Implementations should return quickly to avoid blocking the session.
type WriteCallback func(WriteResult)

// Logger is an optional logging interface that can be provided to the session.
// This allows integration with any logging framework; *slog.Logger satisfies it.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	sess, _ := bootloader.New(port, profile, original, bootloader.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
