// Package bootloader provides a high-level API for editing AVR lock and fuse
// bytes through a serial bootloader.
//
// # Overview
//
// A Session ties together:
//   - the device profile (register layouts, see package fuse)
//   - the register bytes read when the session was opened (Snapshot)
//   - the command protocol client (see package protocol)
//
// One Session type serves every supported device; the profile supplies the
// per-device differences.
//
// # Basic Usage
//
//	// User provides the serial link (protocol.Transport)
//	port, err := serialport.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	// Register bytes read by the caller's read path
//	original := bootloader.Snapshot{
//	    fuse.RegisterLock:     0xFF,
//	    fuse.RegisterFuse:     0x62,
//	    fuse.RegisterHighFuse: 0xDF,
//	}
//
//	sess, err := bootloader.New(port, fuse.ATmega8535, original)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	high, _ := sess.Decode(fuse.RegisterHighFuse)
//	high.Set(fuse.FieldEEPROMSave, true)
//
//	written, err := sess.Apply(context.Background(), fuse.RegisterHighFuse, high)
//
// # Unchanged Registers
//
// WriteRegister compares the new byte with the byte captured at session
// start and sends nothing when they are equal. The captured bytes are never
// updated, so writing the original value back after a change is skipped too.
//
// # Write Order
//
// ApplyAll writes fuse, high and extended bytes before the lock byte.
// A programmed memory lock stops the bootloader from accepting fuse writes.
//
// # Configuration Options
//
//	sess, err := bootloader.New(port, profile, original,
//	    bootloader.WithLogger(slog.Default()),
//	    bootloader.WithReadTimeout(3*time.Second),
//	    bootloader.WithWriteCallback(func(r bootloader.WriteResult) { ... }),
//	)
//
// # Error Handling
//
// The package provides structured error types:
//   - EncodeError: field values could not be encoded (wraps fuse errors)
//   - WriteError: the transport failed (wraps protocol.TimeoutError and others)
//   - SnapshotError: the snapshot names a register the device lacks
package bootloader
