package bootloader

import (
	"fmt"

	"github.com/moffa90/go-avrfuse/fuse"
)

// EncodeError indicates that field values for a register could not be encoded.
type EncodeError struct {
	Register fuse.Register
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s register: %v", e.Register, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// WriteError indicates that a register write failed on the transport.
type WriteError struct {
	Register fuse.Register
	Value    byte
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s register (0x%02X): %v", e.Register, e.Value, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// SnapshotError indicates a captured register the profile does not define.
type SnapshotError struct {
	Profile  string
	Register fuse.Register
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot holds a %s register but %s has none", e.Register, e.Profile)
}
