package fuse

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings is the content of a settings file before it is checked against
// a profile. Sections hold the unparsed field values per register.
//
// File format:
//
//	device: atmega88
//	lock:
//	  memory_lock: none
//	  app_lock: write
//	high:
//	  brownout_level: 2.7v
//	  serial_programming: true
type Settings struct {
	// Device is the optional device name (see ByName)
	Device string

	// Sections maps each register to field name / value text pairs
	Sections map[Register]map[string]string
}

var displayOrder = []Register{RegisterLock, RegisterFuse, RegisterHighFuse, RegisterExtendedFuse}

// ReadSettingsFile loads a settings file from disk.
func ReadSettingsFile(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadSettings(f)
}

// LoadSettings parses a settings document from r.
//
// Values are kept as the text written in the file and only interpreted by
// Resolve, so a number like 0010 is never reread by the YAML decoder.
// A register listed twice, also under an alias such as high and hfuse, is
// an error. A null device entry counts as absent.
func LoadSettings(r io.Reader) (*Settings, error) {
	s := &Settings{Sections: make(map[Register]map[string]string)}

	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return s, nil
		}
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if len(doc.Content) == 0 || isNull(resolveAlias(doc.Content[0])) {
		return s, nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("settings: document must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		val := resolveAlias(root.Content[i+1])

		if key == "device" {
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("settings: device must be a name")
			}
			s.Device = val.Value
			continue
		}

		reg, err := ParseRegister(key)
		if err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
		if _, dup := s.Sections[reg]; dup {
			return nil, fmt.Errorf("settings: %s register listed twice (as %q)", reg, key)
		}
		if val.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("settings: section %q must be a mapping", key)
		}

		fields := make(map[string]string, len(val.Content)/2)
		for j := 0; j+1 < len(val.Content); j += 2 {
			name := val.Content[j].Value
			fv := resolveAlias(val.Content[j+1])
			if fv.Kind != yaml.ScalarNode || isNull(fv) {
				return nil, fmt.Errorf("settings: %s field %q must be a single value", reg, name)
			}
			if _, dup := fields[name]; dup {
				return nil, fmt.Errorf("settings: %s field %q listed twice", reg, name)
			}
			fields[name] = fv.Value
		}
		s.Sections[reg] = fields
	}

	return s, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// Profile resolves the Device name. It returns fallback when the file names
// no device, and an error when the names disagree.
func (s *Settings) Profile(fallback *Profile) (*Profile, error) {
	if s.Device == "" {
		if fallback == nil {
			return nil, fmt.Errorf("settings do not name a device")
		}
		return fallback, nil
	}

	p, err := ByName(s.Device)
	if err != nil {
		return nil, err
	}
	if fallback != nil && fallback != p {
		return nil, fmt.Errorf("settings are for %s, device is %s", p.Name, fallback.Name)
	}
	return p, nil
}

// Resolve parses every section against p. The result only contains the
// fields listed in the file; merge it over decoded values before encoding.
func (s *Settings) Resolve(p *Profile) (map[Register]Values, error) {
	out := make(map[Register]Values, len(s.Sections))
	for reg, fields := range s.Sections {
		l, err := p.Layout(reg)
		if err != nil {
			return nil, err
		}

		v := make(Values, len(fields))
		for name, text := range fields {
			f, ok := l.Field(name)
			if !ok {
				return nil, &UnknownFieldError{Register: reg, Field: name}
			}
			val, err := f.ParseValue(text)
			if err != nil {
				return nil, fmt.Errorf("%s register: %w", reg, err)
			}
			v[name] = val
		}
		out[reg] = v
	}
	return out, nil
}

// MarshalSettings renders register values in the settings file format,
// fields in bit order. Unrecognized values are left out; any other value
// outside the field range is an InvalidValueError.
func MarshalSettings(p *Profile, regs map[Register]Values) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalar("!!str", "device"), scalar("!!str", p.Name))

	for _, reg := range displayOrder {
		v, ok := regs[reg]
		if !ok {
			continue
		}
		l, err := p.Layout(reg)
		if err != nil {
			return nil, err
		}

		section := &yaml.Node{Kind: yaml.MappingNode}
		for i := range l.Fields {
			f := &l.Fields[i]
			val, ok := v[f.Name]
			if !ok || val == Unrecognized {
				continue
			}
			if val < 0 || val > f.Max() {
				return nil, &InvalidValueError{Register: reg, Field: f.Name, Value: val, Max: f.Max()}
			}
			section.Content = append(section.Content, scalar("!!str", f.Name), valueNode(f, val))
		}
		root.Content = append(root.Content, scalar("!!str", reg.String()), section)
	}

	return yaml.Marshal(root)
}

func valueNode(f *FieldSpec, v Value) *yaml.Node {
	switch {
	case f.IsBool():
		return scalar("!!bool", strconv.FormatBool(v == Enabled))
	case v >= 0 && int(v) < len(f.Choices):
		return scalar("!!str", f.Choices[v])
	default:
		return scalar("!!int", strconv.Itoa(int(v)))
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
