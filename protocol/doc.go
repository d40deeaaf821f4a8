// Package protocol implements the command protocol of the AVR serial bootloader
// for lock and fuse bytes.
//
// # Protocol Overview
//
// Every register write is a two byte request answered by one byte:
//
//	Request:  [CMD][VALUE]
//	Response: [ACK]
//
// Where CMD is one of:
//   - 'l' = write lock bits
//   - 'f' = write fuse bits
//   - 'n' = write high fuse bits
//   - 'q' = write extended fuse bits
//
// The content of ACK is not defined by the bootloader. It is read so the
// host stays in step with the device, then ignored.
//
// # Transport
//
// The package does not open ports. Callers provide a Transport with two
// operations, WriteByte and ReadByteTimeout, a read bounded by a timeout:
//
//	client := protocol.NewClient(port, protocol.WithAckTimeout(time.Second))
//	err := client.WriteRegister(ctx, protocol.CmdWriteHighFuse, 0xDF)
//
// # Error Handling
//
// A missing acknowledgement is reported as a TimeoutError, which matches
// ErrTimeout with errors.Is:
//
//	if protocol.IsTimeout(err) {
//	    // device did not answer; retry policy belongs to the caller
//	}
package protocol
