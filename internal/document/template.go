package document

import (
	"github.com/dop251/goja"

	"github.com/vango-dev/vnode/internal/errors"
	"github.com/vango-dev/vnode/pkg/vdom"
)

// position is the source location of a template node.
type position struct {
	file string
	line int
	col  int
}

func (p position) pos() position { return p }

// fail creates a registered error located at p.
func (p position) fail(code string) *errors.Error {
	err := errors.New(code)
	if p.file != "" && p.line > 0 {
		err.WithLocation(p.file, p.line, p.col)
	}
	return err
}

// template is a compiled document node. build produces a value suitable as a
// CreateElement child or prop value.
type template interface {
	build(s *scope) (any, error)
	pos() position
}

// scope is what placeholders resolve against: the props and context of the
// component being rendered.
type scope struct {
	props vdom.Props
	ctx   vdom.Context
	vm    *goja.Runtime
}

type field struct {
	key   string
	value template
}

func buildProps(fields []field, s *scope) (vdom.Props, error) {
	var props vdom.Props
	for _, f := range fields {
		v, err := f.value.build(s)
		if err != nil {
			return vdom.Props{}, err
		}
		props.Set(f.key, v)
	}
	return props, nil
}

func buildChildren(children []template, s *scope) ([]any, error) {
	args := make([]any, 0, len(children))
	for _, c := range children {
		v, err := c.build(s)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// literal is a scalar: string, number, bool or nil.
type literal struct {
	position
	value any
}

func (l *literal) build(*scope) (any, error) { return l.value, nil }

type list struct {
	position
	items []template
}

func (l *list) build(s *scope) (any, error) {
	return buildChildren(l.items, s)
}

// object is a mapping used as a prop value, such as a style object.
type object struct {
	position
	fields []field
}

func (o *object) build(s *scope) (any, error) {
	return buildProps(o.fields, s)
}

type element struct {
	position
	tag      string
	props    []field
	children []template
}

func (e *element) build(s *scope) (any, error) {
	props, err := buildProps(e.props, s)
	if err != nil {
		return nil, err
	}
	args, err := buildChildren(e.children, s)
	if err != nil {
		return nil, err
	}
	return vdom.CreateElement(e.tag, props, args...), nil
}

type componentRef struct {
	position
	name     string
	def      *Component
	props    []field
	children []template
}

func (c *componentRef) build(s *scope) (any, error) {
	props, err := buildProps(c.props, s)
	if err != nil {
		return nil, err
	}
	for _, d := range c.def.defaults {
		if props.Has(d.key) {
			continue
		}
		v, err := d.value.build(s)
		if err != nil {
			return nil, err
		}
		props.Set(d.key, v)
	}
	args, err := buildChildren(c.children, s)
	if err != nil {
		return nil, err
	}
	return vdom.CreateElement(c.def.Kind(), props, args...), nil
}

// Placeholder kinds.
const (
	placeProp    = "prop"
	placeContext = "context"
	placeSlot    = "slot"
	placeExpr    = "expr"
)

type placeholder struct {
	position
	kind    string
	name    string
	program *goja.Program
}

func (p *placeholder) build(s *scope) (any, error) {
	switch p.kind {
	case placeProp, placeSlot:
		return s.props.Value(p.name), nil
	case placeContext:
		return s.ctx.Value(p.name), nil
	default:
		return s.eval(p)
	}
}
