package vdom

// Component is a stateful component instance. Render is pure with respect to
// its arguments; instances keep no per-render props or context.
type Component interface {
	Render(props Props, ctx Context) (VNode, error)
}

// Class is a stateful component definition.
type Class interface {
	New(props Props, ctx Context) Component
}

// ClassFunc adapts a constructor function to Class.
type ClassFunc func(props Props, ctx Context) Component

// New implements Class.
func (f ClassFunc) New(props Props, ctx Context) Component { return f(props, ctx) }

// FuncComponent is a stateless component.
type FuncComponent func(props Props, ctx Context) (VNode, error)

// Optional component capabilities.

// WillMounter runs before the first render.
type WillMounter interface {
	WillMount(props Props, ctx Context) error
}

// ChildContextProvider contributes context keys to descendants.
type ChildContextProvider interface {
	ChildContext(props Props, ctx Context) (Context, error)
}

// Disabler is switched off when an instance must not schedule updates, as
// during server rendering.
type Disabler interface {
	SetDisabled(disabled bool)
}

// Destroyer releases instance resources on unmount.
type Destroyer interface {
	Destroy() error
}

// HandleProvider exposes the render handle of a mounted instance.
type HandleProvider interface {
	Handle() Handle
}

// Owner records which component constructed a node. It is diagnostic only.
type Owner struct {
	Name      string
	Component Component
}

// NewOwner creates an Owner.
func NewOwner(name string, c Component) *Owner {
	return &Owner{Name: name, Component: c}
}

// CreateElement builds a node attributed to o.
func (o *Owner) CreateElement(kind any, props Props, children ...any) VNode {
	return createElement(o, kind, props, children)
}

// Composite is a stateful component node.
type Composite struct {
	Class Class
	Props Props
	Owner *Owner
	Key   string

	instance  Component
	rendered  VNode
	destroyed bool
}

// Kind implements VNode.
func (*Composite) Kind() VKind { return KindComposite }
func (*Composite) vnode()      {}

// Children returns the children prop.
func (c *Composite) Children() []VNode {
	return childrenProp(c.Props)
}

// Instance returns the owned instance, or nil before mount.
func (c *Composite) Instance() Component { return c.instance }

// Rendered returns the subtree produced by the instance, or nil.
func (c *Composite) Rendered() VNode { return c.rendered }

// Mount records the instance created for this node and the subtree it
// rendered. Called by a mounting renderer.
func (c *Composite) Mount(instance Component, rendered VNode) {
	c.instance = instance
	c.rendered = rendered
	c.destroyed = false
}

// Handle returns the instance's render handle when it exposes one.
func (c *Composite) Handle() Handle {
	if hp, ok := c.instance.(HandleProvider); ok {
		return hp.Handle()
	}
	return nil
}

// Destroy tears down the instance and its rendered subtree. Later calls are
// no-ops until the node is mounted again.
func (c *Composite) Destroy() error {
	if c.destroyed || c.instance == nil {
		return nil
	}
	c.destroyed = true
	if d, ok := c.instance.(Destroyer); ok {
		if err := d.Destroy(); err != nil {
			return err
		}
	}
	if c.rendered != nil {
		return Unmount(c.rendered, nil)
	}
	return nil
}

// Stateless is a function component node.
type Stateless struct {
	Func  FuncComponent
	Props Props
	Owner *Owner
	Key   string

	rendered  VNode
	handle    Handle
	destroyed bool
}

// Kind implements VNode.
func (*Stateless) Kind() VKind { return KindStateless }
func (*Stateless) vnode()      {}

// Children returns the children prop.
func (s *Stateless) Children() []VNode {
	return childrenProp(s.Props)
}

// Rendered returns the last rendered subtree, or nil.
func (s *Stateless) Rendered() VNode { return s.rendered }

// Mount records the rendered subtree and its handle.
func (s *Stateless) Mount(rendered VNode, h Handle) {
	s.rendered = rendered
	s.handle = h
	s.destroyed = false
}

// Handle returns the mounted render handle, or nil before mount.
func (s *Stateless) Handle() Handle { return s.handle }

// Destroy unmounts the rendered subtree.
func (s *Stateless) Destroy() error {
	if s.destroyed || s.rendered == nil {
		return nil
	}
	s.destroyed = true
	return Unmount(s.rendered, nil)
}

func childrenProp(p Props) []VNode {
	children, _ := p.Value("children").([]VNode)
	return children
}
