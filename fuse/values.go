package fuse

import "sort"

// Values maps field names to field values for one register.
type Values map[string]Value

// Enabled reports whether a boolean field is set.
func (v Values) Enabled(name string) bool {
	return v[name] == Enabled
}

// Set stores a boolean field.
func (v Values) Set(name string, on bool) {
	if on {
		v[name] = Enabled
	} else {
		v[name] = Disabled
	}
}

// Clone returns a copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Merge returns a copy of v with every entry of other applied on top.
func (v Values) Merge(other Values) Values {
	out := v.Clone()
	for k, val := range other {
		out[k] = val
	}
	return out
}

// Equal reports whether both maps hold the same keys and values.
func (v Values) Equal(other Values) bool {
	if len(v) != len(other) {
		return false
	}
	for k, val := range v {
		if o, ok := other[k]; !ok || o != val {
			return false
		}
	}
	return true
}

// Keys returns the field names in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
