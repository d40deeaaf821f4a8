package protocol

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by a Transport when no byte arrived within the
// requested wait.
var ErrTimeout = errors.New("read timeout")

// TimeoutError indicates that the bootloader did not acknowledge a command
// within the read timeout. It wraps ErrTimeout.
type TimeoutError struct {
	// Command is the command code that was not acknowledged
	Command byte

	// Timeout is the wait that expired
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s (%q): no acknowledgement within %s", CommandName(e.Command), e.Command, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// UnknownCommandError indicates a command code the protocol does not define.
type UnknownCommandError struct {
	Command byte
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command code 0x%02X", e.Command)
}

// IsTimeout returns true if err is or wraps a transport timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
