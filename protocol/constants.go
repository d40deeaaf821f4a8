package protocol

import "time"

// Command codes understood by the serial bootloader. Each is followed by a
// single payload byte.
const (
	// CmdWriteLock writes the lock byte ('l')
	CmdWriteLock = 'l'

	// CmdWriteExtendedFuse writes the extended fuse byte ('q')
	CmdWriteExtendedFuse = 'q'

	// CmdWriteHighFuse writes the high fuse byte ('n')
	CmdWriteHighFuse = 'n'

	// CmdWriteFuse writes the low fuse byte ('f')
	CmdWriteFuse = 'f'
)

// Frame sizes.
const (
	// WriteFrameSize is the size of a write request: [CMD][VALUE]
	WriteFrameSize = 2

	// AckSize is the size of the bootloader's reply to a write request
	AckSize = 1
)

// DefaultReadTimeout bounds the wait for an acknowledgement byte.
const DefaultReadTimeout = 2 * time.Second
