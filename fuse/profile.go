package fuse

import (
	"fmt"
	"strings"
)

// Family groups devices that share register layouts.
type Family int

const (
	// FamilyMegaX8 covers ATmega48, ATmega88 and ATmega168
	FamilyMegaX8 Family = iota

	// FamilyMega8535 covers the ATmega8535
	FamilyMega8535

	// FamilyTiny2313 covers the ATtiny2313
	FamilyTiny2313

	// FamilyTiny261 covers the ATtiny261
	FamilyTiny261
)

func (f Family) String() string {
	switch f {
	case FamilyMegaX8:
		return "megaX8"
	case FamilyMega8535:
		return "mega8535"
	case FamilyTiny2313:
		return "tiny2313"
	case FamilyTiny261:
		return "tiny261"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Field names used across profiles.
const (
	FieldMemoryLock        = "memory_lock"
	FieldAppLock           = "app_lock"
	FieldBootLock          = "boot_lock"
	FieldClockSource       = "clock_source"
	FieldStartupTime       = "startup_time"
	FieldClockOutput       = "clock_output"
	FieldClockDiv8         = "clock_div8"
	FieldBrownoutEnable    = "brownout_enable"
	FieldBrownoutLevel     = "brownout_level"
	FieldBrownoutLevel4V0  = "brownout_level_4v0"
	FieldSelfProgramming   = "self_programming"
	FieldBootReset         = "boot_reset"
	FieldBootSize          = "boot_size"
	FieldEEPROMSave        = "eeprom_save"
	FieldWatchdogOn        = "watchdog_on"
	FieldSerialProgramming = "serial_programming"
	FieldDebugWire         = "debugwire"
	FieldResetDisable      = "reset_disable"
	FieldOscillatorOptions = "oscillator_options"
	FieldCompatibilityMode = "compatibility_mode"
)

// Memory lock values.
const (
	MemoryLockNone      Value = 0
	MemoryLockWrite     Value = 1
	MemoryLockReadWrite Value = 2
)

// Section (application and boot) lock values.
const (
	SectionLockNone      Value = 0
	SectionLockWrite     Value = 1
	SectionLockReadWrite Value = 2
	SectionLockRead      Value = 3
)

// LockedOut is the lock byte written when memory lock is MemoryLockReadWrite.
const LockedOut byte = 0xFC

// Profile is the register model of one device.
type Profile struct {
	// Name is the canonical device name, e.g. "ATmega88"
	Name string

	// Family is the layout family the device belongs to
	Family Family

	// Aliases are extra lookup names accepted by ByName
	Aliases []string

	// Layouts holds one layout per register the device exposes
	Layouts map[Register]*Layout
}

// Has reports whether the device exposes reg.
func (p *Profile) Has(reg Register) bool {
	_, ok := p.Layouts[reg]
	return ok
}

// Layout returns the layout for reg.
func (p *Profile) Layout(reg Register) (*Layout, error) {
	l, ok := p.Layouts[reg]
	if !ok {
		return nil, &UnsupportedRegisterError{Profile: p.Name, Register: reg}
	}
	return l, nil
}

// Registers returns the registers of the device in WriteOrder.
func (p *Profile) Registers() []Register {
	regs := make([]Register, 0, len(p.Layouts))
	for _, r := range WriteOrder {
		if p.Has(r) {
			regs = append(regs, r)
		}
	}
	return regs
}

// Decode splits a raw register byte into field values.
func (p *Profile) Decode(reg Register, raw byte) (Values, error) {
	l, err := p.Layout(reg)
	if err != nil {
		return nil, err
	}
	return l.Decode(raw), nil
}

// Encode packs field values into a raw register byte.
func (p *Profile) Encode(reg Register, v Values) (byte, error) {
	l, err := p.Layout(reg)
	if err != nil {
		return 0xFF, err
	}
	return l.Encode(v)
}

var (
	memoryLockChoices  = []string{"none", "write", "read-write"}
	sectionLockChoices = []string{"none", "write", "read-write", "read"}
	brownoutChoices    = []string{"disabled", "1.8v", "2.7v", "4.3v"}
	bootSizeChoices    = []string{"largest", "large", "small", "smallest"}
)

func activeLow(name string, offset uint, desc string) FieldSpec {
	return FieldSpec{Name: name, Offset: offset, Width: 1, Kind: KindActiveLow, Description: desc}
}

func lockLayout() *Layout {
	return &Layout{
		Register: RegisterLock,
		Fields: []FieldSpec{
			{
				Name: FieldMemoryLock, Offset: 0, Width: 2, Kind: KindTable,
				Raw:         []byte{3, 2, 0},
				Choices:     memoryLockChoices,
				Description: "flash, EEPROM and fuse protection",
			},
			{
				Name: FieldAppLock, Offset: 2, Width: 2, Kind: KindTable,
				Raw:         []byte{3, 2, 0, 1},
				Choices:     sectionLockChoices,
				Description: "application section protection",
			},
			{
				Name: FieldBootLock, Offset: 4, Width: 2, Kind: KindTable,
				Raw:         []byte{3, 2, 0, 1},
				Choices:     sectionLockChoices,
				Description: "boot section protection",
			},
		},
		Override: func(v Values) (byte, bool) {
			if mem, ok := v[FieldMemoryLock]; ok && mem == MemoryLockReadWrite {
				return LockedOut, true
			}
			return 0, false
		},
	}
}

func clockFields() []FieldSpec {
	return []FieldSpec{
		{Name: FieldClockSource, Offset: 0, Width: 4, Kind: KindRaw, Description: "CKSEL3..0 clock source select"},
		{Name: FieldStartupTime, Offset: 4, Width: 2, Kind: KindRaw, Description: "SUT1..0 start-up time select"},
	}
}

func megaX8Fuse() *Layout {
	return &Layout{
		Register: RegisterFuse,
		Fields: append(clockFields(),
			activeLow(FieldClockOutput, 6, "clock output on CLKO"),
			activeLow(FieldClockDiv8, 7, "divide clock by 8"),
		),
	}
}

func brownoutLevel(offset uint) FieldSpec {
	return FieldSpec{
		Name: FieldBrownoutLevel, Offset: offset, Width: 2, Kind: KindReversed,
		Choices:     brownoutChoices,
		Description: "brown-out detector trigger level",
	}
}

func bootSize(offset uint) FieldSpec {
	return FieldSpec{
		Name: FieldBootSize, Offset: offset, Width: 2, Kind: KindReversed,
		Choices:     bootSizeChoices,
		Description: "boot section size",
	}
}

// megaX8High is shared by the ATmega48/88/168 and ATtiny261.
// Bit 2 is reserved and always written as 1.
func megaX8High() *Layout {
	return &Layout{
		Register: RegisterHighFuse,
		Fields: []FieldSpec{
			brownoutLevel(0),
			activeLow(FieldEEPROMSave, 3, "preserve EEPROM through chip erase"),
			activeLow(FieldWatchdogOn, 4, "watchdog always on"),
			activeLow(FieldSerialProgramming, 5, "serial programming enabled"),
			activeLow(FieldDebugWire, 6, "debugWIRE enabled"),
			activeLow(FieldResetDisable, 7, "external reset disabled"),
		},
	}
}

func selfProgrammingExt() *Layout {
	return &Layout{
		Register: RegisterExtendedFuse,
		Fields: []FieldSpec{
			activeLow(FieldSelfProgramming, 0, "self-programming enabled"),
		},
	}
}

func megaX8BootExt() *Layout {
	return &Layout{
		Register: RegisterExtendedFuse,
		Fields: []FieldSpec{
			activeLow(FieldBootReset, 0, "reset into bootloader"),
			bootSize(1),
		},
	}
}

func mega8535Fuse() *Layout {
	return &Layout{
		Register: RegisterFuse,
		Fields: append(clockFields(),
			activeLow(FieldBrownoutEnable, 6, "brown-out detector enabled"),
			activeLow(FieldBrownoutLevel4V0, 7, "brown-out level 4.0V instead of 2.7V"),
		),
	}
}

func mega8535High() *Layout {
	return &Layout{
		Register: RegisterHighFuse,
		Fields: []FieldSpec{
			activeLow(FieldBootReset, 0, "reset into bootloader"),
			bootSize(1),
			activeLow(FieldEEPROMSave, 3, "preserve EEPROM through chip erase"),
			activeLow(FieldOscillatorOptions, 4, "oscillator options"),
			activeLow(FieldSerialProgramming, 5, "serial programming enabled"),
			activeLow(FieldWatchdogOn, 6, "watchdog always on"),
			activeLow(FieldCompatibilityMode, 7, "ATmega8515/8535 compatibility mode"),
		},
	}
}

// tiny2313High has the brown-out level at bits 1:3 with bit 3 reserved.
func tiny2313High() *Layout {
	return &Layout{
		Register: RegisterHighFuse,
		Fields: []FieldSpec{
			activeLow(FieldResetDisable, 0, "external reset disabled"),
			brownoutLevel(1),
			activeLow(FieldWatchdogOn, 4, "watchdog always on"),
			activeLow(FieldSerialProgramming, 5, "serial programming enabled"),
			activeLow(FieldEEPROMSave, 6, "preserve EEPROM through chip erase"),
			activeLow(FieldDebugWire, 7, "debugWIRE enabled"),
		},
	}
}

func newMegaX8(name string, ext *Layout, aliases ...string) *Profile {
	return &Profile{
		Name:    name,
		Family:  FamilyMegaX8,
		Aliases: aliases,
		Layouts: map[Register]*Layout{
			RegisterLock:         lockLayout(),
			RegisterFuse:         megaX8Fuse(),
			RegisterHighFuse:     megaX8High(),
			RegisterExtendedFuse: ext,
		},
	}
}

// Built-in device profiles.
var (
	ATmega48  = newMegaX8("ATmega48", selfProgrammingExt(), "m48", "mega48")
	ATmega88  = newMegaX8("ATmega88", megaX8BootExt(), "m88", "mega88")
	ATmega168 = newMegaX8("ATmega168", megaX8BootExt(), "m168", "mega168")

	ATmega8535 = &Profile{
		Name:    "ATmega8535",
		Family:  FamilyMega8535,
		Aliases: []string{"m8535", "mega8535"},
		Layouts: map[Register]*Layout{
			RegisterLock:     lockLayout(),
			RegisterFuse:     mega8535Fuse(),
			RegisterHighFuse: mega8535High(),
		},
	}

	ATtiny2313 = &Profile{
		Name:    "ATtiny2313",
		Family:  FamilyTiny2313,
		Aliases: []string{"t2313", "tiny2313"},
		Layouts: map[Register]*Layout{
			RegisterLock:         lockLayout(),
			RegisterFuse:         megaX8Fuse(),
			RegisterHighFuse:     tiny2313High(),
			RegisterExtendedFuse: selfProgrammingExt(),
		},
	}

	ATtiny261 = &Profile{
		Name:    "ATtiny261",
		Family:  FamilyTiny261,
		Aliases: []string{"t261", "tiny261"},
		Layouts: map[Register]*Layout{
			RegisterLock:         lockLayout(),
			RegisterFuse:         megaX8Fuse(),
			RegisterHighFuse:     megaX8High(),
			RegisterExtendedFuse: selfProgrammingExt(),
		},
	}
)

// Profiles returns every built-in profile.
func Profiles() []*Profile {
	return []*Profile{ATmega48, ATmega88, ATmega168, ATmega8535, ATtiny2313, ATtiny261}
}

// ByName looks up a profile by name or alias, ignoring case.
func ByName(name string) (*Profile, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, p := range Profiles() {
		if strings.ToLower(p.Name) == n {
			return p, nil
		}
		for _, a := range p.Aliases {
			if a == n {
				return p, nil
			}
		}
	}
	return nil, &UnknownProfileError{Name: name}
}
