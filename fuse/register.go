package fuse

import (
	"fmt"
	"strings"
)

// Register identifies one of the configuration bytes a device exposes.
type Register int

const (
	// RegisterLock is the lock byte (memory, application and boot section locks)
	RegisterLock Register = iota

	// RegisterFuse is the low fuse byte (clock source, start-up time)
	RegisterFuse

	// RegisterExtendedFuse is the extended fuse byte (not present on every device)
	RegisterExtendedFuse

	// RegisterHighFuse is the high fuse byte
	RegisterHighFuse
)

// WriteOrder is the order in which registers are written to a device.
// The lock byte goes last: once a memory lock is programmed the bootloader
// refuses further fuse writes.
var WriteOrder = []Register{RegisterFuse, RegisterHighFuse, RegisterExtendedFuse, RegisterLock}

func (r Register) String() string {
	switch r {
	case RegisterLock:
		return "lock"
	case RegisterFuse:
		return "fuse"
	case RegisterExtendedFuse:
		return "extended"
	case RegisterHighFuse:
		return "high"
	default:
		return fmt.Sprintf("register(%d)", int(r))
	}
}

// ParseRegister converts a register name into a Register.
// Besides the String() forms it accepts the avrdude-style names
// lfuse, hfuse and efuse.
func ParseRegister(s string) (Register, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lock", "lockbits", "lock_bits":
		return RegisterLock, nil
	case "fuse", "low", "lfuse":
		return RegisterFuse, nil
	case "extended", "ext", "efuse":
		return RegisterExtendedFuse, nil
	case "high", "hfuse":
		return RegisterHighFuse, nil
	default:
		return 0, fmt.Errorf("unknown register %q", s)
	}
}
