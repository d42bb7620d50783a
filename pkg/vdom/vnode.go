package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindInvalid   VKind = iota // nil, bool and other holes
	KindElement                // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComposite              // Stateful component
	KindStateless              // Function component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindInvalid:
		return "Invalid"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComposite:
		return "Composite"
	case KindStateless:
		return "Stateless"
	default:
		return "Unknown"
	}
}

// VNode is a canonical virtual DOM node.
//
// The set of implementations is closed: *Element, *Text, *Composite,
// *Stateless and Invalid. Consumers dispatch with a type switch.
type VNode interface {
	Kind() VKind
	vnode()
}

// Handle is an opaque reference to output produced by a renderer, such as a
// DOM node. The core never inspects it beyond the capability interfaces in
// hooks.go.
type Handle any

// Element is a tag node.
type Element struct {
	Tag      string
	Props    Props
	Children []VNode
	Ref      *RefHook
	Key      string
	Owner    *Owner

	handle Handle
}

// Kind implements VNode.
func (*Element) Kind() VKind { return KindElement }
func (*Element) vnode()      {}

// Handle returns the mounted render handle, or nil before mount.
func (e *Element) Handle() Handle { return e.handle }

// SetHandle records the render handle. Called by a mounting renderer.
func (e *Element) SetHandle(h Handle) { e.handle = h }

// Text is a text node.
type Text struct {
	Value string

	handle Handle
}

// Kind implements VNode.
func (*Text) Kind() VKind { return KindText }
func (*Text) vnode()      {}

// Handle returns the mounted render handle, or nil before mount.
func (t *Text) Handle() Handle { return t.handle }

// SetHandle records the render handle. Called by a mounting renderer.
func (t *Text) SetHandle(h Handle) { t.handle = h }

// Invalid stands for nil, booleans and other values that render to nothing.
type Invalid struct{}

// Kind implements VNode.
func (Invalid) Kind() VKind { return KindInvalid }
func (Invalid) vnode()      {}

// NewText creates a text node.
func NewText(s string) *Text {
	return &Text{Value: s}
}

// IsInvalid reports whether v renders to nothing. Nil pointers of the node
// kinds count as holes.
func IsInvalid(v VNode) bool {
	switch n := v.(type) {
	case nil, Invalid:
		return true
	case *Element:
		return n == nil
	case *Text:
		return n == nil
	case *Composite:
		return n == nil
	case *Stateless:
		return n == nil
	}
	return false
}
