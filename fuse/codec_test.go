package fuse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legalValues enumerates every legal Values assignment of a layout.
func legalValues(l *Layout) []Values {
	out := []Values{{}}
	for i := range l.Fields {
		f := &l.Fields[i]
		next := make([]Values, 0, len(out)*int(f.Max()+1))
		for _, partial := range out {
			for v := Value(0); v <= f.Max(); v++ {
				c := partial.Clone()
				c[f.Name] = v
				next = append(next, c)
			}
		}
		out = next
	}
	return out
}

func forEachLayout(t *testing.T, fn func(t *testing.T, p *Profile, l *Layout)) {
	for _, p := range Profiles() {
		for _, reg := range p.Registers() {
			l, err := p.Layout(reg)
			require.NoError(t, err)
			t.Run(fmt.Sprintf("%s/%s", p.Name, reg), func(t *testing.T) {
				fn(t, p, l)
			})
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	forEachLayout(t, func(t *testing.T, p *Profile, l *Layout) {
		for _, v := range legalValues(l) {
			if l.Register == RegisterLock && v[FieldMemoryLock] == MemoryLockReadWrite {
				// section locks are discarded by the lock-out rule
				continue
			}
			raw, err := l.Encode(v)
			require.NoError(t, err)
			assert.Equal(t, v, l.Decode(raw), "raw 0x%02X", raw)
		}
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	forEachLayout(t, func(t *testing.T, p *Profile, l *Layout) {
		reserved := l.ReservedMask()
		for b := 0; b <= 0xFF; b++ {
			raw := byte(b)
			v := l.Decode(raw)

			if l.Register == RegisterLock {
				mem := raw & 0x03
				if mem == 1 {
					assert.Equal(t, Unrecognized, v[FieldMemoryLock])
					continue
				}
				if mem == 0 {
					got, err := l.Encode(v)
					require.NoError(t, err)
					assert.Equal(t, LockedOut, got)
					continue
				}
			}

			got, err := l.Encode(v)
			require.NoError(t, err, "raw 0x%02X", raw)
			assert.Equal(t, raw|reserved, got, "raw 0x%02X", raw)
		}
	})
}

func TestEncodeNeverProducesMemoryLockOne(t *testing.T) {
	l, err := ATmega88.Layout(RegisterLock)
	require.NoError(t, err)

	for _, v := range legalValues(l) {
		raw, err := l.Encode(v)
		require.NoError(t, err)
		assert.NotEqual(t, byte(1), raw&0x03)
		assert.Equal(t, byte(0xC0), raw&0xC0, "reserved bits must stay set")
	}
}

func TestLockedOutIgnoresSectionLocks(t *testing.T) {
	for _, p := range Profiles() {
		t.Run(p.Name, func(t *testing.T) {
			for app := SectionLockNone; app <= SectionLockRead; app++ {
				for boot := SectionLockNone; boot <= SectionLockRead; boot++ {
					raw, err := p.Encode(RegisterLock, Values{
						FieldMemoryLock: MemoryLockReadWrite,
						FieldAppLock:    app,
						FieldBootLock:   boot,
					})
					require.NoError(t, err)
					assert.Equal(t, byte(0xFC), raw)
				}
			}

			raw, err := p.Encode(RegisterLock, Values{FieldMemoryLock: MemoryLockReadWrite})
			require.NoError(t, err, "section locks are not required once locked out")
			assert.Equal(t, byte(0xFC), raw)
		})
	}
}

func TestLockEncoding(t *testing.T) {
	tests := []struct {
		name string
		mem  Value
		app  Value
		boot Value
		want byte
	}{
		{"unlocked", MemoryLockNone, SectionLockNone, SectionLockNone, 0xFF},
		{"write disabled", MemoryLockWrite, SectionLockNone, SectionLockNone, 0xFE},
		{"app write protected", MemoryLockNone, SectionLockWrite, SectionLockNone, 0xFB},
		{"app read-write protected", MemoryLockNone, SectionLockReadWrite, SectionLockNone, 0xF3},
		{"app read protected", MemoryLockNone, SectionLockRead, SectionLockNone, 0xF7},
		{"boot write protected", MemoryLockNone, SectionLockNone, SectionLockWrite, 0xEF},
		{"boot read-write protected", MemoryLockNone, SectionLockNone, SectionLockReadWrite, 0xCF},
		{"boot read protected", MemoryLockNone, SectionLockNone, SectionLockRead, 0xDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ATmega48.Encode(RegisterLock, Values{
				FieldMemoryLock: tt.mem,
				FieldAppLock:    tt.app,
				FieldBootLock:   tt.boot,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, raw)
		})
	}
}

func TestBrownoutLevelEncoding(t *testing.T) {
	base := Values{
		FieldEEPROMSave:        Disabled,
		FieldWatchdogOn:        Disabled,
		FieldSerialProgramming: Disabled,
		FieldDebugWire:         Disabled,
		FieldResetDisable:      Disabled,
	}

	want := map[Value]byte{0: 0x07, 1: 0x06, 2: 0x05, 3: 0x04}
	for _, p := range []*Profile{ATmega48, ATmega88, ATmega168} {
		for level, bits := range want {
			raw, err := p.Encode(RegisterHighFuse, base.Merge(Values{FieldBrownoutLevel: level}))
			require.NoError(t, err)
			assert.Equal(t, bits, raw&0x07, "%s level %d", p.Name, level)
			assert.Equal(t, byte(0xF8), raw&0xF8)
		}
	}
}

func TestBootSizeEncoding(t *testing.T) {
	tests := []struct {
		size Value
		want byte
	}{
		{0, 0x03},
		{1, 0x02},
		{2, 0x01},
		{3, 0x00},
	}

	for _, tt := range tests {
		raw, err := ATmega88.Encode(RegisterExtendedFuse, Values{
			FieldBootReset: Disabled,
			FieldBootSize:  tt.size,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, (raw>>1)&0x03, "boot size %d", tt.size)
		assert.Equal(t, byte(0xF9), raw&0xF9, "boot reset off, reserved bits set")
	}

	raw, err := ATmega8535.Encode(RegisterHighFuse, Values{
		FieldBootReset:         Enabled,
		FieldBootSize:          3,
		FieldEEPROMSave:        Disabled,
		FieldOscillatorOptions: Disabled,
		FieldSerialProgramming: Enabled,
		FieldWatchdogOn:        Disabled,
		FieldCompatibilityMode: Disabled,
	})
	require.NoError(t, err)
	assert.Equal(t, byte(0xD8), raw)
}

func TestUnprogrammedDevice(t *testing.T) {
	lock, err := ATmega48.Decode(RegisterLock, 0xFF)
	require.NoError(t, err)
	assert.Equal(t, Values{
		FieldMemoryLock: MemoryLockNone,
		FieldAppLock:    SectionLockNone,
		FieldBootLock:   SectionLockNone,
	}, lock)

	fuseBits, err := ATmega48.Decode(RegisterFuse, 0xFF)
	require.NoError(t, err)
	assert.False(t, fuseBits.Enabled(FieldClockOutput))
	assert.False(t, fuseBits.Enabled(FieldClockDiv8))
	assert.Equal(t, Value(0x0F), fuseBits[FieldClockSource])
	assert.Equal(t, Value(0x03), fuseBits[FieldStartupTime])

	high, err := ATmega48.Decode(RegisterHighFuse, 0xFF)
	require.NoError(t, err)
	assert.Equal(t, Value(0), high[FieldBrownoutLevel], "brown-out disabled")
	for _, name := range []string{FieldEEPROMSave, FieldWatchdogOn, FieldSerialProgramming, FieldDebugWire, FieldResetDisable} {
		assert.False(t, high.Enabled(name), name)
	}

	ext, err := ATmega48.Decode(RegisterExtendedFuse, 0xFF)
	require.NoError(t, err)
	assert.False(t, ext.Enabled(FieldSelfProgramming))
}

func TestActiveLowPolarity(t *testing.T) {
	fuseBits, err := ATmega88.Decode(RegisterFuse, 0x62)
	require.NoError(t, err)
	assert.Equal(t, Value(0x2), fuseBits[FieldClockSource])
	assert.Equal(t, Value(0x2), fuseBits[FieldStartupTime])
	assert.False(t, fuseBits.Enabled(FieldClockOutput))
	assert.True(t, fuseBits.Enabled(FieldClockDiv8))

	m8535, err := ATmega8535.Decode(RegisterFuse, 0x3F)
	require.NoError(t, err)
	assert.True(t, m8535.Enabled(FieldBrownoutEnable))
	assert.True(t, m8535.Enabled(FieldBrownoutLevel4V0))
	_, ok := m8535[FieldBrownoutLevel]
	assert.False(t, ok, "ATmega8535 has no brown-out level index")

	tiny, err := ATtiny2313.Decode(RegisterHighFuse, 0xDF)
	require.NoError(t, err)
	assert.True(t, tiny.Enabled(FieldSerialProgramming))
	assert.Equal(t, Value(0), tiny[FieldBrownoutLevel])
	assert.False(t, tiny.Enabled(FieldResetDisable))
}

func TestEncodeMissingField(t *testing.T) {
	_, err := ATmega88.Encode(RegisterHighFuse, Values{FieldBrownoutLevel: 1})
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, RegisterHighFuse, missing.Register)
	assert.Equal(t, FieldEEPROMSave, missing.Field)
	assert.True(t, IsMissingField(err))

	_, err = ATmega88.Encode(RegisterLock, Values{FieldAppLock: 0, FieldBootLock: 0})
	assert.True(t, IsMissingField(err))
}

func TestEncodeInvalidValue(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value Value
	}{
		{"unrecognized memory lock", FieldMemoryLock, Unrecognized},
		{"memory lock too large", FieldMemoryLock, 3},
		{"section lock too large", FieldAppLock, 4},
		{"negative", FieldBootLock, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Values{FieldMemoryLock: 0, FieldAppLock: 0, FieldBootLock: 0}
			v[tt.field] = tt.value

			raw, err := ATmega168.Encode(RegisterLock, v)
			var invalid *InvalidValueError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
			assert.Equal(t, byte(0xFF), raw)
		})
	}
}

func TestEncodeIgnoresExtraKeys(t *testing.T) {
	raw, err := ATmega48.Encode(RegisterExtendedFuse, Values{
		FieldSelfProgramming: Enabled,
		"unrelated":          7,
	})
	require.NoError(t, err)
	assert.Equal(t, byte(0xFE), raw)
}

func TestUnsupportedRegister(t *testing.T) {
	_, err := ATmega8535.Decode(RegisterExtendedFuse, 0xFF)
	var unsupported *UnsupportedRegisterError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, err.Error(), "ATmega8535")

	_, err = ATmega8535.Encode(RegisterExtendedFuse, Values{})
	assert.Error(t, err)
}

func TestFieldLabelAndParse(t *testing.T) {
	l, err := ATmega88.Layout(RegisterHighFuse)
	require.NoError(t, err)

	bod, ok := l.Field(FieldBrownoutLevel)
	require.True(t, ok)
	assert.Equal(t, "2.7v", bod.Label(2))

	v, err := bod.ParseValue("4.3V")
	require.NoError(t, err)
	assert.Equal(t, Value(3), v)

	_, err = bod.ParseValue("4")
	assert.Error(t, err)

	spien, ok := l.Field(FieldSerialProgramming)
	require.True(t, ok)
	assert.Equal(t, "enabled", spien.Label(Enabled))
	v, err = spien.ParseValue("yes")
	require.NoError(t, err)
	assert.Equal(t, Enabled, v)

	fl, err := ATmega88.Layout(RegisterFuse)
	require.NoError(t, err)
	cksel, ok := fl.Field(FieldClockSource)
	require.True(t, ok)
	assert.Equal(t, "0b0010", cksel.Label(2))
	v, err = cksel.ParseValue("0b1101")
	require.NoError(t, err)
	assert.Equal(t, Value(13), v)
	v, err = cksel.ParseValue("0x0f")
	require.NoError(t, err)
	assert.Equal(t, Value(15), v)

	assert.Equal(t, "unrecognized", cksel.Label(Unrecognized))

	_, err = cksel.ParseValue("0010")
	assert.ErrorContains(t, err, "ambiguous")
	v, err = cksel.ParseValue("0")
	require.NoError(t, err)
	assert.Equal(t, Value(0), v)
}

func TestLabelOutOfRange(t *testing.T) {
	l, err := ATmega88.Layout(RegisterHighFuse)
	require.NoError(t, err)
	bod, ok := l.Field(FieldBrownoutLevel)
	require.True(t, ok)

	assert.NotPanics(t, func() {
		assert.Equal(t, "-2", bod.Label(-2))
		assert.Equal(t, "7", bod.Label(7))
	})
}
