// Package fuse models the lock and fuse registers of AVR microcontrollers.
//
// # Register Model
//
// Each supported device has a Profile holding one Layout per register:
//
//	lock      lock bits (memory, application and boot section locks)
//	fuse      low fuse byte (clock source, start-up time, ...)
//	high      high fuse byte (brown-out, watchdog, serial programming, ...)
//	extended  extended fuse byte (not present on the ATmega8535)
//
// A Layout lists FieldSpecs. Bits not covered by any field are reserved and
// always written as 1, the unprogrammed state.
//
// # Polarity
//
// Most single-bit fuses are active-low: a programmed fuse reads as 0. The
// codec hides this, so Values always use Enabled for an active feature:
//
//	v, _ := fuse.ATmega88.Decode(fuse.RegisterHighFuse, 0xDF)
//	v.Enabled(fuse.FieldSerialProgramming) // true, bit 5 is 0
//
// # Encoding
//
//	raw, err := fuse.ATmega88.Encode(fuse.RegisterLock, fuse.Values{
//	    fuse.FieldMemoryLock: fuse.MemoryLockNone,
//	    fuse.FieldAppLock:    fuse.SectionLockWrite,
//	    fuse.FieldBootLock:   fuse.SectionLockNone,
//	})
//	// raw == 0xFB
//
// Encode needs a value for every field of the layout (MissingFieldError)
// and rejects values outside the field's range (InvalidValueError).
// Choosing MemoryLockReadWrite yields LockedOut (0xFC) whatever the section
// locks are.
//
// # Brown-out Fields
//
// On the ATmega48/88/168, ATtiny2313 and ATtiny261 brownout_level is a
// four-step index (disabled, 1.8v, 2.7v, 4.3v). The ATmega8535 instead has a
// brownout_enable flag plus a brownout_level_4v0 flag that selects 4.0V
// over 2.7V, so a settings file written for one family is rejected by the
// other rather than silently reinterpreted.
//
// # Settings Files
//
// LoadSettings reads YAML documents that list field values by name, using
// the labels returned by FieldSpec.Label. MarshalSettings writes them.
// Numbers are read as written: use 0b0010 for a bit pattern, since a
// leading-zero decimal such as 0010 is rejected.
package fuse
