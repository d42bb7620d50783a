package document

import (
	"github.com/vango-dev/vnode/pkg/vdom"
)

// Component is a component declared under "components". A component with a
// context mapping is stateful and contributes child context; otherwise it is
// a function component.
type Component struct {
	Name string

	render   template
	context  []field
	defaults []field
	uses     []*componentRef
	kind     any
}

// Stateful reports whether the component contributes child context.
func (c *Component) Stateful() bool {
	return c.context != nil
}

// Kind returns the value passed to vdom.CreateElement for this component:
// a vdom.Class when stateful, a vdom.FuncComponent otherwise.
func (c *Component) Kind() any {
	if c.kind == nil {
		if c.Stateful() {
			c.kind = vdom.ClassFunc(func(props vdom.Props, ctx vdom.Context) vdom.Component {
				return &instance{def: c}
			})
		} else {
			c.kind = vdom.FuncComponent(c.renderNode)
		}
	}
	return c.kind
}

func (c *Component) renderNode(props vdom.Props, ctx vdom.Context) (vdom.VNode, error) {
	v, err := c.render.build(&scope{props: props, ctx: ctx})
	if err != nil {
		return nil, err
	}
	return asNode(v, c.render)
}

// instance is the per-render state of a stateful document component.
type instance struct {
	def      *Component
	disabled bool
}

func (i *instance) Render(props vdom.Props, ctx vdom.Context) (vdom.VNode, error) {
	return i.def.renderNode(props, ctx)
}

func (i *instance) ChildContext(props vdom.Props, ctx vdom.Context) (vdom.Context, error) {
	s := &scope{props: props, ctx: ctx}
	out := make(vdom.Context, len(i.def.context))
	for _, f := range i.def.context {
		v, err := f.value.build(s)
		if err != nil {
			return nil, err
		}
		out[f.key] = v
	}
	return out, nil
}

func (i *instance) SetDisabled(d bool) { i.disabled = d }
