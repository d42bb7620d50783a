package vdom

import (
	"errors"
	"strings"
)

// ErrHookNotAttached is returned when a hook is detached without a matching
// attach.
var ErrHookNotAttached = errors.New("vdom: hook is not attached")

// HookKind discriminates hook capability objects.
type HookKind uint8

const (
	HookRef HookKind = iota + 1
	HookHTML
	HookEvent
	HookAttribute
)

// String returns the string representation of the HookKind.
func (k HookKind) String() string {
	switch k {
	case HookRef:
		return "Ref"
	case HookHTML:
		return "HTML"
	case HookEvent:
		return "Event"
	case HookAttribute:
		return "Attribute"
	default:
		return "Unknown"
	}
}

// Hook is a capability object created during prop normalization and handed
// to a renderer. A hook instance belongs to exactly one mounted node.
type Hook interface {
	HookKind() HookKind
}

// PropertyHook is a hook bound to a named property of an element.
type PropertyHook interface {
	Hook
	Attach(h Handle, name string, previous any) error
	Unhook(h Handle, name string, next any) error
}

// Renderer capabilities. Handles implement whichever of these apply.

// EventTarget receives event listener bindings.
type EventTarget interface {
	AddEventListener(event string, handler any)
	RemoveEventListener(event string, handler any)
}

// InnerHTMLSetter accepts raw inner HTML.
type InnerHTMLSetter interface {
	SetInnerHTML(html string)
}

// NamespacedAttributeSetter accepts namespaced attributes.
type NamespacedAttributeSetter interface {
	SetAttributeNS(namespace, name, value string)
	RemoveAttributeNS(namespace, name string)
}

// Container holds rendered children.
type Container interface {
	RemoveChild(child Handle) error
}

// asHook returns v as a hook of the given kind.
func asHook(v any, kind HookKind) (Hook, bool) {
	h, ok := v.(Hook)
	if !ok || h.HookKind() != kind {
		return nil, false
	}
	return h, true
}

// RefFunc receives the handle on attach and nil on detach.
type RefFunc func(h Handle)

// Ref holds a handle while its node is mounted.
type Ref struct {
	current Handle
}

// Current returns the referenced handle, or nil when detached.
func (r *Ref) Current() Handle { return r.current }

// RefHook binds a Ref or RefFunc to a node's handle.
type RefHook struct {
	Value any

	attached bool
}

// NewRefHook wraps value, reusing it when it already is a *RefHook.
func NewRefHook(value any) *RefHook {
	if h, ok := asHook(value, HookRef); ok {
		if rh, ok := h.(*RefHook); ok {
			return rh
		}
	}
	return &RefHook{Value: value}
}

// HookKind implements Hook.
func (*RefHook) HookKind() HookKind { return HookRef }

// Attach publishes h to the ref target.
func (r *RefHook) Attach(h Handle) error {
	switch v := r.Value.(type) {
	case *Ref:
		v.current = h
	case RefFunc:
		v(h)
	case func(Handle):
		v(h)
	}
	r.attached = true
	return nil
}

// Detach clears the ref target. node is the element the ref belonged to.
func (r *RefHook) Detach(node VNode, h Handle) error {
	if !r.attached {
		return ErrHookNotAttached
	}
	switch v := r.Value.(type) {
	case *Ref:
		v.current = nil
	case RefFunc:
		v(nil)
	case func(Handle):
		v(nil)
	}
	r.attached = false
	return nil
}

// Attached reports whether the hook is bound.
func (r *RefHook) Attached() bool { return r.attached }

// InnerHTML is the author-facing dangerouslySetInnerHTML value.
type InnerHTML struct {
	HTML string
}

// HTMLHook injects raw markup into a node.
type HTMLHook struct {
	HTML string

	attached bool
}

// NewHTMLHook wraps value. It accepts InnerHTML, string, or a map with an
// "__html" key, and reuses an existing *HTMLHook.
func NewHTMLHook(value any) *HTMLHook {
	if h, ok := asHook(value, HookHTML); ok {
		if hh, ok := h.(*HTMLHook); ok {
			return hh
		}
	}
	return &HTMLHook{HTML: innerHTMLString(value)}
}

func innerHTMLString(value any) string {
	switch v := value.(type) {
	case InnerHTML:
		return v.HTML
	case *InnerHTML:
		if v != nil {
			return v.HTML
		}
	case string:
		return v
	case map[string]any:
		if s, ok := v["__html"].(string); ok {
			return s
		}
	case map[string]string:
		return v["__html"]
	case Props:
		if s, ok := v.Value("__html").(string); ok {
			return s
		}
	}
	return ""
}

// HookKind implements Hook.
func (*HTMLHook) HookKind() HookKind { return HookHTML }

// Attach sets the inner HTML when h supports it.
func (hh *HTMLHook) Attach(h Handle, name string, previous any) error {
	if s, ok := h.(InnerHTMLSetter); ok {
		if prev, ok := previous.(*HTMLHook); !ok || prev.HTML != hh.HTML {
			s.SetInnerHTML(hh.HTML)
		}
	}
	hh.attached = true
	return nil
}

// Unhook clears the inner HTML unless next carries new markup.
func (hh *HTMLHook) Unhook(h Handle, name string, next any) error {
	if !hh.attached {
		return ErrHookNotAttached
	}
	if _, replaced := next.(*HTMLHook); !replaced {
		if s, ok := h.(InnerHTMLSetter); ok {
			s.SetInnerHTML("")
		}
	}
	hh.attached = false
	return nil
}

// EventHook binds an event handler.
type EventHook struct {
	Name    string // prop name, e.g. "onClick"
	Handler any

	attached bool
}

// NewEventHook wraps handler for the prop name, reusing an existing
// *EventHook.
func NewEventHook(name string, handler any) *EventHook {
	if h, ok := asHook(handler, HookEvent); ok {
		if eh, ok := h.(*EventHook); ok {
			return eh
		}
	}
	return &EventHook{Name: name, Handler: handler}
}

// HookKind implements Hook.
func (*EventHook) HookKind() HookKind { return HookEvent }

// EventType returns the DOM event type, e.g. "click" for "onClick".
func (e *EventHook) EventType() string {
	return EventType(e.Name)
}

// Attach adds the listener when h is an EventTarget.
func (e *EventHook) Attach(h Handle, name string, previous any) error {
	if t, ok := h.(EventTarget); ok {
		t.AddEventListener(EventType(name), e.Handler)
	}
	e.attached = true
	return nil
}

// Unhook removes the listener.
func (e *EventHook) Unhook(h Handle, name string, next any) error {
	if !e.attached {
		return ErrHookNotAttached
	}
	if t, ok := h.(EventTarget); ok {
		t.RemoveEventListener(EventType(name), e.Handler)
	}
	e.attached = false
	return nil
}

// AttributeHook sets a namespaced attribute.
type AttributeHook struct {
	Namespace string
	Value     any

	attached bool
}

// NewAttributeHook wraps value, reusing an existing *AttributeHook.
func NewAttributeHook(namespace string, value any) *AttributeHook {
	if h, ok := asHook(value, HookAttribute); ok {
		if ah, ok := h.(*AttributeHook); ok {
			return ah
		}
	}
	return &AttributeHook{Namespace: namespace, Value: value}
}

// HookKind implements Hook.
func (*AttributeHook) HookKind() HookKind { return HookAttribute }

// Attach sets the attribute when h supports namespaced attributes.
func (a *AttributeHook) Attach(h Handle, name string, previous any) error {
	if s, ok := h.(NamespacedAttributeSetter); ok {
		s.SetAttributeNS(a.Namespace, name, formatScalar(a.Value))
	}
	a.attached = true
	return nil
}

// Unhook removes the attribute unless next replaces it in the same namespace.
func (a *AttributeHook) Unhook(h Handle, name string, next any) error {
	if !a.attached {
		return ErrHookNotAttached
	}
	if n, ok := next.(*AttributeHook); !ok || n.Namespace != a.Namespace {
		if s, ok := h.(NamespacedAttributeSetter); ok {
			s.RemoveAttributeNS(a.Namespace, localName(name))
		}
	}
	a.attached = false
	return nil
}

// IsEventProp reports whether a prop name denotes an event binding.
func IsEventProp(name string) bool {
	return len(name) >= 2 && name[0] == 'o' && name[1] == 'n'
}

// EventType lowercases an event prop name without its "on" prefix.
func EventType(name string) string {
	if !IsEventProp(name) {
		return strings.ToLower(name)
	}
	return strings.ToLower(name[2:])
}

func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
