package document

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vnode/internal/errors"
)

// Parse decodes a YAML or JSON document. name is used in error locations.
//
// A document is a mapping with a required "root" node and an optional
// "components" mapping:
//
//	components:
//	  Card:
//	    defaults: {title: Untitled}
//	    render:
//	      tag: section
//	      children:
//	        - tag: h2
//	          children: [{prop: title}]
//	        - slot: children
//	root:
//	  component: Card
//	  props: {title: Hello}
//	  children: [Some text]
func Parse(name string, data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		pos := position{file: name}
		fmt.Sscanf(err.Error(), "yaml: line %d:", &pos.line)
		return nil, pos.fail("E121").Wrap(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("E121").WithDetail("The document is empty")
	}

	p := &parser{file: name, components: make(map[string]*Component)}
	top := p.resolve(doc.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, p.at(top).fail("E121").WithDetail("The top level must be a mapping with a root key")
	}

	var rootNode *yaml.Node
	err := p.fields(top, func(key string, k, v *yaml.Node) error {
		switch key {
		case "root":
			rootNode = v
		case "components":
			return p.parseComponents(v)
		default:
			return p.at(k).fail("E121").WithDetailf("Unknown top-level key %q", key).
				WithSuggestion("Use root and components")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rootNode == nil {
		return nil, p.at(top).fail("E121").WithDetail("Missing root key")
	}

	p.current = nil
	root, err := p.parseNode(rootNode)
	if err != nil {
		return nil, err
	}
	if err := p.link(); err != nil {
		return nil, err
	}
	return &Document{Path: name, root: root, components: p.components}, nil
}

type parser struct {
	file       string
	components map[string]*Component
	refs       []*componentRef

	// current is the component whose render is being parsed, nil for root.
	current *Component
}

func (p *parser) at(n *yaml.Node) position {
	return position{file: p.file, line: n.Line, col: n.Column}
}

func (p *parser) resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// fields iterates a mapping node's pairs in document order.
func (p *parser) fields(n *yaml.Node, fn func(key string, k, v *yaml.Node) error) error {
	n = p.resolve(n)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := p.resolve(n.Content[i]), p.resolve(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return p.at(k).fail("E121").WithDetail("Mapping keys must be strings")
		}
		if err := fn(k.Value, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseComponents(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return p.at(n).fail("E124").WithDetail("components must be a mapping of name to definition")
	}
	return p.fields(n, func(name string, k, v *yaml.Node) error {
		if name == "" {
			return p.at(k).fail("E124").WithDetail("Component names must not be empty")
		}
		if _, dup := p.components[name]; dup {
			return p.at(k).fail("E124").WithDetailf("Component %q is declared twice", name)
		}
		c, err := p.parseComponent(name, v)
		if err != nil {
			return err
		}
		p.components[name] = c
		return nil
	})
}

func (p *parser) parseComponent(name string, n *yaml.Node) (*Component, error) {
	if n.Kind != yaml.MappingNode {
		return nil, p.at(n).fail("E124").WithDetailf("Component %q must be a mapping with a render key", name)
	}
	c := &Component{Name: name}
	p.current = c
	defer func() { p.current = nil }()

	var renderNode *yaml.Node
	err := p.fields(n, func(key string, k, v *yaml.Node) error {
		switch key {
		case "render":
			renderNode = v
		case "context":
			fs, err := p.parseFields(v, "context")
			if err != nil {
				return err
			}
			c.context = append([]field{}, fs...)
		case "defaults":
			// Defaults are constants: there is no scope to resolve against.
			p.current = nil
			fs, err := p.parseFields(v, "defaults")
			p.current = c
			if err != nil {
				return err
			}
			c.defaults = fs
		default:
			return p.at(k).fail("E124").WithDetailf("Unknown key %q in component %q", key, name).
				WithSuggestion("Use render, context and defaults")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if renderNode == nil {
		return nil, p.at(n).fail("E124").WithDetailf("Component %q has no render key", name)
	}
	c.render, err = p.parseNode(renderNode)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (p *parser) parseFields(n *yaml.Node, what string) ([]field, error) {
	if n.Kind != yaml.MappingNode {
		return nil, p.at(n).fail("E124").WithDetailf("%s must be a mapping", what)
	}
	var fs []field
	err := p.fields(n, func(key string, _, v *yaml.Node) error {
		t, err := p.parseValue(v)
		if err != nil {
			return err
		}
		fs = append(fs, field{key: key, value: t})
		return nil
	})
	return fs, err
}

func (p *parser) parseChildren(n *yaml.Node) ([]template, error) {
	if n.Kind != yaml.SequenceNode {
		t, err := p.parseNode(n)
		if err != nil {
			return nil, err
		}
		return []template{t}, nil
	}
	children := make([]template, 0, len(n.Content))
	for _, c := range n.Content {
		t, err := p.parseNode(p.resolve(c))
		if err != nil {
			return nil, err
		}
		children = append(children, t)
	}
	return children, nil
}

// parseNode parses a node in child position.
func (p *parser) parseNode(n *yaml.Node) (template, error) {
	n = p.resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return p.parseScalar(n)
	case yaml.SequenceNode:
		items, err := p.parseChildren(n)
		if err != nil {
			return nil, err
		}
		return &list{position: p.at(n), items: items}, nil
	case yaml.MappingNode:
	default:
		return nil, p.at(n).fail("E122")
	}

	keys := mappingKeys(n)
	if t, ok, err := p.parsePlaceholder(n, keys); ok || err != nil {
		return t, err
	}
	switch {
	case hasKey(keys, "tag"):
		return p.parseElement(n)
	case hasKey(keys, "component"):
		return p.parseComponentRef(n)
	case hasKey(keys, "text") && len(keys) == 1:
		v := p.resolve(n.Content[1])
		if v.Kind != yaml.ScalarNode {
			return nil, p.at(v).fail("E122").WithDetail("text must be a scalar")
		}
		return p.parseScalar(v)
	}
	return nil, p.at(n).fail("E122").
		WithDetailf("Mapping with keys %s is not a node", strings.Join(keys, ", ")).
		WithSuggestion("A node mapping needs a tag, component, text, prop, context, slot or expr key")
}

func (p *parser) parseScalar(n *yaml.Node) (template, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, p.at(n).fail("E121").Wrap(err)
	}
	return &literal{position: p.at(n), value: v}, nil
}

func (p *parser) parseElement(n *yaml.Node) (template, error) {
	e := &element{position: p.at(n)}
	err := p.fields(n, func(key string, k, v *yaml.Node) error {
		var err error
		switch key {
		case "tag":
			if v.Kind != yaml.ScalarNode || v.Value == "" {
				return p.at(v).fail("E122").WithDetail("tag must be a non-empty string")
			}
			e.tag = v.Value
		case "props":
			e.props, err = p.parseProps(v)
		case "children":
			e.children, err = p.parseChildren(v)
		default:
			return p.at(k).fail("E122").WithDetailf("Unknown key %q in element", key).
				WithSuggestion("Use tag, props and children")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) parseComponentRef(n *yaml.Node) (template, error) {
	r := &componentRef{position: p.at(n)}
	err := p.fields(n, func(key string, k, v *yaml.Node) error {
		var err error
		switch key {
		case "component":
			if v.Kind != yaml.ScalarNode || v.Value == "" {
				return p.at(v).fail("E122").WithDetail("component must be a non-empty name")
			}
			r.name = v.Value
		case "props":
			r.props, err = p.parseProps(v)
		case "children":
			r.children, err = p.parseChildren(v)
		default:
			return p.at(k).fail("E122").WithDetailf("Unknown key %q in component reference", key).
				WithSuggestion("Use component, props and children")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	p.refs = append(p.refs, r)
	if p.current != nil {
		p.current.uses = append(p.current.uses, r)
	}
	return r, nil
}

func (p *parser) parseProps(n *yaml.Node) ([]field, error) {
	if n.Kind != yaml.MappingNode {
		return nil, p.at(n).fail("E122").WithDetail("props must be a mapping")
	}
	var fs []field
	err := p.fields(n, func(key string, _, v *yaml.Node) error {
		t, err := p.parseValue(v)
		if err != nil {
			return err
		}
		fs = append(fs, field{key: key, value: t})
		return nil
	})
	return fs, err
}

// parseValue parses a node in prop position. Mappings that are not
// placeholders become objects, so style maps keep their declaration order.
func (p *parser) parseValue(n *yaml.Node) (template, error) {
	n = p.resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return p.parseScalar(n)
	case yaml.SequenceNode:
		l := &list{position: p.at(n)}
		for _, c := range n.Content {
			t, err := p.parseValue(c)
			if err != nil {
				return nil, err
			}
			l.items = append(l.items, t)
		}
		return l, nil
	case yaml.MappingNode:
		if t, ok, err := p.parsePlaceholder(n, mappingKeys(n)); ok || err != nil {
			return t, err
		}
		if hasKey(mappingKeys(n), "tag") {
			return p.parseElement(n)
		}
		o := &object{position: p.at(n)}
		fs, err := p.parseProps(n)
		if err != nil {
			return nil, err
		}
		o.fields = fs
		return o, nil
	}
	return nil, p.at(n).fail("E122")
}

// parsePlaceholder recognizes single-key mappings such as {prop: title}.
func (p *parser) parsePlaceholder(n *yaml.Node, keys []string) (template, bool, error) {
	if len(keys) != 1 {
		return nil, false, nil
	}
	kind := keys[0]
	switch kind {
	case placeProp, placeContext, placeSlot, placeExpr:
	default:
		return nil, false, nil
	}
	pos := p.at(n)
	if p.current == nil {
		return nil, true, pos.fail("E125").WithDetailf("{%s: ...} used outside a component render", kind).
			WithSuggestion("Move this node into a component render")
	}
	v := p.resolve(n.Content[1])
	if v.Kind != yaml.ScalarNode {
		return nil, true, p.at(v).fail("E122").WithDetailf("%s must name a value", kind)
	}
	ph := &placeholder{position: pos, kind: kind, name: v.Value}
	switch kind {
	case placeSlot:
		if ph.name == "" || v.Tag == "!!null" {
			ph.name = "children"
		}
	case placeExpr:
		prog, err := compileExpr(v.Value, p.at(v))
		if err != nil {
			return nil, true, err
		}
		ph.program = prog
	default:
		if ph.name == "" {
			return nil, true, p.at(v).fail("E122").WithDetailf("%s must name a value", kind)
		}
	}
	return ph, true, nil
}

// link resolves component references and rejects cycles.
func (p *parser) link() error {
	for _, r := range p.refs {
		def, ok := p.components[r.name]
		if !ok {
			err := r.fail("E123").WithDetailf("No component named %q", r.name)
			if names := p.names(); len(names) > 0 {
				err.WithSuggestion("Declared components: " + strings.Join(names, ", "))
			}
			return err
		}
		r.def = def
	}

	const (
		visiting = iota + 1
		done
	)
	state := make(map[*Component]int, len(p.components))
	var path []string
	var visit func(c *Component) error
	visit = func(c *Component) error {
		if state[c] != 0 {
			return nil
		}
		state[c] = visiting
		path = append(path, c.Name)
		for _, r := range c.uses {
			if state[r.def] == visiting {
				cycle := append(cycleFrom(path, r.def.Name), r.def.Name)
				return r.fail("E127").WithDetail(strings.Join(cycle, " -> "))
			}
			if err := visit(r.def); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[c] = done
		return nil
	}
	for _, name := range p.names() {
		if err := visit(p.components[name]); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) names() []string {
	names := make([]string, 0, len(p.components))
	for name := range p.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cycleFrom(path []string, name string) []string {
	for i, n := range path {
		if n == name {
			return append([]string{}, path[i:]...)
		}
	}
	return path
}

func mappingKeys(n *yaml.Node) []string {
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

func hasKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
