package fuse

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the semantic value of one field.
//
// Boolean fields use Disabled and Enabled, enumerated fields use the index of
// the choice, and raw fields carry the sub-field bits unchanged.
type Value int

const (
	// Unrecognized is returned by Decode for raw bits that have no meaning
	// for the field (for example memory lock raw value 1).
	Unrecognized Value = -1

	// Disabled is the value of an inactive boolean field
	Disabled Value = 0

	// Enabled is the value of an active boolean field
	Enabled Value = 1
)

// Kind selects how a field maps between raw bits and its Value.
type Kind int

const (
	// KindRaw passes the sub-field bits through unchanged
	KindRaw Kind = iota

	// KindActiveLow is a single bit where raw 0 means Enabled
	KindActiveLow

	// KindReversed stores (1<<Width)-1 minus the value, so index 0 is all ones
	KindReversed

	// KindTable maps value i to FieldSpec.Raw[i]
	KindTable
)

// FieldSpec describes one named sub-field of a register byte.
type FieldSpec struct {
	// Name is the field key used in Values and settings files
	Name string

	// Offset is the bit position of the least significant bit
	Offset uint

	// Width is the number of bits
	Width uint

	// Kind selects the raw to value mapping
	Kind Kind

	// Raw lists the raw bits for each value of a KindTable field
	Raw []byte

	// Choices are human labels indexed by value (enumerated fields only)
	Choices []string

	// Description is a one-line explanation of the field
	Description string
}

func (f *FieldSpec) mask() byte {
	return byte((1<<f.Width)-1) << f.Offset
}

func (f *FieldSpec) maxRaw() byte {
	return byte((1 << f.Width) - 1)
}

// Max returns the largest legal value of the field.
func (f *FieldSpec) Max() Value {
	switch f.Kind {
	case KindActiveLow:
		return Enabled
	case KindTable:
		return Value(len(f.Raw) - 1)
	default:
		return Value(f.maxRaw())
	}
}

// IsBool reports whether the field is a single active-low flag.
func (f *FieldSpec) IsBool() bool {
	return f.Kind == KindActiveLow
}

func (f *FieldSpec) decode(b byte) Value {
	raw := (b & f.mask()) >> f.Offset
	switch f.Kind {
	case KindActiveLow:
		if raw == 0 {
			return Enabled
		}
		return Disabled
	case KindReversed:
		return Value(f.maxRaw() - raw)
	case KindTable:
		for i, r := range f.Raw {
			if r == raw {
				return Value(i)
			}
		}
		return Unrecognized
	default:
		return Value(raw)
	}
}

// encode returns the field bits already shifted into position.
func (f *FieldSpec) encode(v Value) (byte, bool) {
	if v < 0 || v > f.Max() {
		return 0, false
	}

	var raw byte
	switch f.Kind {
	case KindActiveLow:
		if v == Disabled {
			raw = 1
		}
	case KindReversed:
		raw = f.maxRaw() - byte(v)
	case KindTable:
		raw = f.Raw[v]
	default:
		raw = byte(v)
	}
	return (raw << f.Offset) & f.mask(), true
}

// Label returns a human readable form of v.
func (f *FieldSpec) Label(v Value) string {
	if v == Unrecognized {
		return "unrecognized"
	}
	switch {
	case f.Kind == KindActiveLow:
		if v == Enabled {
			return "enabled"
		}
		return "disabled"
	case v >= 0 && int(v) < len(f.Choices):
		return f.Choices[v]
	case f.Kind == KindRaw:
		return fmt.Sprintf("0b%0*b", f.Width, int(v))
	default:
		return strconv.Itoa(int(v))
	}
}

// ParseValue converts user input into a value for this field.
//
// Accepted forms are the Choices labels, boolean words for active-low
// fields, and decimal, 0x hex or 0b binary numbers. Decimals with leading
// zeros are rejected. The result is range
// checked against Max.
func (f *FieldSpec) ParseValue(s string) (Value, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if f.IsBool() {
		switch s {
		case "true", "on", "yes", "enabled", "enable", "programmed":
			return Enabled, nil
		case "false", "off", "no", "disabled", "disable", "unprogrammed":
			return Disabled, nil
		}
	}

	for i, c := range f.Choices {
		if s == c {
			return Value(i), nil
		}
	}

	// "0010" would parse as octal; bit patterns need an explicit prefix.
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		return 0, fmt.Errorf("field %q: ambiguous number %q, write 0b%s for binary or drop the leading zeros", f.Name, s, s)
	}

	n, err := strconv.ParseInt(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("field %q: cannot parse %q", f.Name, s)
	}
	v := Value(n)
	if v < 0 || v > f.Max() {
		return 0, fmt.Errorf("field %q: value %d is out of range 0-%d", f.Name, v, f.Max())
	}
	return v, nil
}
