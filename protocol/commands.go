package protocol

// BuildWriteCmd constructs a register write request.
//
// Frame structure:
//
//	[CMD][VALUE]
//
// Returns an UnknownCommandError if cmd is not one of the Cmd* write codes.
func BuildWriteCmd(cmd byte, value byte) ([]byte, error) {
	if !IsWriteCommand(cmd) {
		return nil, &UnknownCommandError{Command: cmd}
	}

	frame := make([]byte, 0, WriteFrameSize)
	frame = append(frame, cmd, value)

	return frame, nil
}

// IsWriteCommand reports whether cmd is a register write code.
func IsWriteCommand(cmd byte) bool {
	switch cmd {
	case CmdWriteLock, CmdWriteExtendedFuse, CmdWriteHighFuse, CmdWriteFuse:
		return true
	default:
		return false
	}
}

// CommandName returns a human-readable name for a command code.
func CommandName(cmd byte) string {
	switch cmd {
	case CmdWriteLock:
		return "write lock bits"
	case CmdWriteExtendedFuse:
		return "write extended fuse bits"
	case CmdWriteHighFuse:
		return "write high fuse bits"
	case CmdWriteFuse:
		return "write fuse bits"
	default:
		return "unknown command"
	}
}
