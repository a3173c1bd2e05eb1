package region

import (
	"fmt"
	"sort"
)

// Documented DS9 defaults. Flag-valued properties store the strings "1"/"0".
var propertyDefaults = map[string]string{
	"text":     "",
	"color":    "green",
	"font":     "helvetica 10 normal roman",
	"select":   "1",
	"edit":     "1",
	"move":     "1",
	"delete":   "1",
	"highlite": "1",
	"include":  "1",
	"fixed":    "0",
}

// Properties whose stored value is interpreted as a boolean flag. The
// set is enumerated explicitly rather than inferred from key names.
var booleanProperties = map[string]bool{
	"select":   true,
	"edit":     true,
	"move":     true,
	"delete":   true,
	"highlite": true,
	"include":  true,
	"fixed":    true,
	"dash":     true,
}

// Properties holds the display and behavioral attributes attached to a
// shape, merged over the documented defaults. Instances are immutable
// value objects; the parser builds one per shape.
type Properties struct {
	values map[string]any
	tags   []string
}

// NewProperties merges the supplied overrides onto the documented defaults.
// Scalar values are strings, two-argument properties ("dashlist", "line",
// "point") are []string, and the "tag" key is a []string accumulated in
// declaration order.
func NewProperties(overrides map[string]any) *Properties {
	p := &Properties{values: make(map[string]any, len(overrides))}
	for k, v := range overrides {
		if k == "tag" {
			if ts, ok := v.([]string); ok {
				p.tags = append(p.tags, ts...)
			}
			continue
		}
		p.values[k] = v
	}
	return p
}

// Get returns the stored or default value for a property. Unknown
// properties fail with ErrUnknownProperty.
func (p *Properties) Get(name string) (any, error) {
	if v, ok := p.values[name]; ok {
		return v, nil
	}
	if v, ok := propertyDefaults[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

// GetString returns a scalar property as a string.
func (p *Properties) GetString(name string) (string, error) {
	v, err := p.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a scalar property", ErrUnknownProperty, name)
	}
	return s, nil
}

// Pair returns a two-argument property ("dashlist", "line", "point") and
// whether it was set. One trailing value may be missing.
func (p *Properties) Pair(name string) ([]string, bool) {
	v, ok := p.values[name]
	if !ok {
		return nil, false
	}
	vs, ok := v.([]string)
	return vs, ok
}

func (p *Properties) boolValue(name string) bool {
	if !booleanProperties[name] {
		return false
	}
	s, err := p.GetString(name)
	return err == nil && s == "1"
}

// Flag accessors. Each is true iff the stored value is the string "1".

func (p *Properties) Select() bool   { return p.boolValue("select") }
func (p *Properties) Edit() bool     { return p.boolValue("edit") }
func (p *Properties) Move() bool     { return p.boolValue("move") }
func (p *Properties) Delete() bool   { return p.boolValue("delete") }
func (p *Properties) Highlite() bool { return p.boolValue("highlite") }
func (p *Properties) Include() bool  { return p.boolValue("include") }
func (p *Properties) Fixed() bool    { return p.boolValue("fixed") }

func (p *Properties) Color() string {
	s, _ := p.GetString("color")
	return s
}

func (p *Properties) Text() string {
	s, _ := p.GetString("text")
	return s
}

func (p *Properties) Font() string {
	s, _ := p.GetString("font")
	return s
}

// Tag returns the accumulated tag list in declaration order.
func (p *Properties) Tag() []string { return p.tags }

// IsSource is true unless the shape was explicitly marked as background.
func (p *Properties) IsSource() bool {
	v, ok := p.values["sourcebackground"]
	if !ok {
		return true
	}
	return v != "background"
}

// IsBackground reports the complement of IsSource.
func (p *Properties) IsBackground() bool { return !p.IsSource() }

// Map returns a copy of the stored overrides, including tags under the
// "tag" key. Defaults are not included.
func (p *Properties) Map() map[string]any {
	out := make(map[string]any, len(p.values)+1)
	for k, v := range p.values {
		if vs, ok := v.([]string); ok {
			out[k] = append([]string(nil), vs...)
			continue
		}
		out[k] = v
	}
	if len(p.tags) > 0 {
		out["tag"] = append([]string(nil), p.tags...)
	}
	return out
}

// Keys returns the sorted names of all explicitly stored properties.
func (p *Properties) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
