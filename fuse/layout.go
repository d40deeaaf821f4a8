package fuse

// Layout is the bit layout of one register byte.
type Layout struct {
	// Register is the register this layout describes
	Register Register

	// Fields lists the named sub-fields; bits not covered are reserved
	Fields []FieldSpec

	// Override, when set, is consulted before the fields are packed.
	// If it returns ok the returned byte is used as is and the remaining
	// fields are neither required nor merged.
	Override func(v Values) (raw byte, ok bool)
}

// Field returns the spec for the named field.
func (l *Layout) Field(name string) (*FieldSpec, bool) {
	for i := range l.Fields {
		if l.Fields[i].Name == name {
			return &l.Fields[i], true
		}
	}
	return nil, false
}

// Names returns the field names in bit order.
func (l *Layout) Names() []string {
	names := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		names[i] = f.Name
	}
	return names
}

// ReservedMask returns the bits not covered by any field.
func (l *Layout) ReservedMask() byte {
	var covered byte
	for i := range l.Fields {
		covered |= l.Fields[i].mask()
	}
	return ^covered
}

// Decode splits raw into field values. It never fails: bits without a
// meaning decode to Unrecognized.
func (l *Layout) Decode(raw byte) Values {
	v := make(Values, len(l.Fields))
	for i := range l.Fields {
		f := &l.Fields[i]
		v[f.Name] = f.decode(raw)
	}
	return v
}

// Encode packs v into a register byte. Reserved bits are set to 1.
// Every field of the layout must be present in v; keys the layout does not
// know are ignored.
func (l *Layout) Encode(v Values) (byte, error) {
	if l.Override != nil {
		if raw, ok := l.Override(v); ok {
			return raw, nil
		}
	}

	raw := l.ReservedMask()
	for i := range l.Fields {
		f := &l.Fields[i]
		val, ok := v[f.Name]
		if !ok {
			return 0xFF, &MissingFieldError{Register: l.Register, Field: f.Name}
		}
		bits, ok := f.encode(val)
		if !ok {
			return 0xFF, &InvalidValueError{
				Register: l.Register,
				Field:    f.Name,
				Value:    val,
				Max:      f.Max(),
			}
		}
		raw |= bits
	}
	return raw, nil
}
