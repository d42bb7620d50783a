package vdom

import "sort"

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// A creates an Attr.
func A(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Props is an insertion-ordered attribute bag. The zero value is empty and
// ready to use.
//
// Setting an existing key replaces its value in place, keeping its position.
type Props struct {
	attrs []Attr
	index map[string]int
}

// NewProps builds Props from attrs in order.
func NewProps(attrs ...Attr) Props {
	var p Props
	for _, a := range attrs {
		p.Set(a.Key, a.Value)
	}
	return p
}

// PropsFromMap builds Props from a map, ordering keys lexically.
func PropsFromMap(m map[string]any) Props {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var p Props
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Len returns the number of attributes.
func (p Props) Len() int { return len(p.attrs) }

// Get returns the value for key.
func (p Props) Get(key string) (any, bool) {
	if i, ok := p.index[key]; ok {
		return p.attrs[i].Value, true
	}
	return nil, false
}

// Value returns the value for key, or nil.
func (p Props) Value(key string) any {
	v, _ := p.Get(key)
	return v
}

// Has reports whether key is present.
func (p Props) Has(key string) bool {
	_, ok := p.index[key]
	return ok
}

// Set sets key to value.
func (p *Props) Set(key string, value any) {
	if i, ok := p.index[key]; ok {
		p.attrs[i].Value = value
		return
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	p.index[key] = len(p.attrs)
	p.attrs = append(p.attrs, Attr{Key: key, Value: value})
}

// Delete removes key.
func (p *Props) Delete(key string) {
	i, ok := p.index[key]
	if !ok {
		return
	}
	p.attrs = append(p.attrs[:i:i], p.attrs[i+1:]...)
	delete(p.index, key)
	for j := i; j < len(p.attrs); j++ {
		p.index[p.attrs[j].Key] = j
	}
}

// Keys returns the keys in insertion order.
func (p Props) Keys() []string {
	keys := make([]string, len(p.attrs))
	for i, a := range p.attrs {
		keys[i] = a.Key
	}
	return keys
}

// Attrs returns a copy of the attributes in insertion order.
func (p Props) Attrs() []Attr {
	out := make([]Attr, len(p.attrs))
	copy(out, p.attrs)
	return out
}

// Range calls fn for each attribute in order until fn returns false.
func (p Props) Range(fn func(key string, value any) bool) {
	for _, a := range p.attrs {
		if !fn(a.Key, a.Value) {
			return
		}
	}
}

// Clone returns a shallow copy that does not share storage with p.
func (p Props) Clone() Props {
	var out Props
	if len(p.attrs) == 0 {
		return out
	}
	out.attrs = make([]Attr, len(p.attrs))
	copy(out.attrs, p.attrs)
	out.index = make(map[string]int, len(p.index))
	for k, v := range p.index {
		out.index[k] = v
	}
	return out
}

// Context is a key/value mapping inherited down a render tree. Renderers hand
// each component its own copy, so writes stay local to that component.
type Context map[string]any

// Merge returns a new Context holding c's keys followed by extra's keys.
// Keys in extra win. Neither input is modified.
func (c Context) Merge(extra Context) Context {
	out := make(Context, len(c)+len(extra))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Value returns the value for key, or nil.
func (c Context) Value(key string) any {
	return c[key]
}
