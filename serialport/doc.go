// Package serialport opens the serial line to an AVR bootloader.
//
// A Port satisfies protocol.Transport and can be handed straight to
// bootloader.New:
//
//	port, err := serialport.Open("/dev/ttyUSB0", serialport.WithBaudRate(19200))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
// The line is always 8 data bits. Reads are bounded by the timeout passed to
// ReadByteTimeout; a read that times out with no data returns an error
// matching protocol.ErrTimeout.
package serialport
