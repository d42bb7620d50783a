package vdom

import "fmt"

// UnmountChildren unmounts a []VNode in order, or a single VNode.
func UnmountChildren(children any, parent Container) error {
	switch c := children.(type) {
	case nil:
		return nil
	case []VNode:
		for _, child := range c {
			if err := Unmount(child, parent); err != nil {
				return err
			}
		}
		return nil
	case VNode:
		return Unmount(c, parent)
	default:
		return fmt.Errorf("vdom: cannot unmount %T", children)
	}
}

// Unmount tears down a mounted node.
//
// Children are unmounted before the node's own event bindings are released,
// bindings before the ref is detached, and the ref before the node's handle
// is removed from parent. parent is nil for nodes whose ancestor is being
// removed as a whole. The first error stops the cascade and is returned as is.
func Unmount(node VNode, parent Container) error {
	if IsInvalid(node) {
		return nil
	}

	var handle Handle
	switch n := node.(type) {
	case *Composite:
		handle = n.Handle()
		if err := n.Destroy(); err != nil {
			return err
		}
	case *Stateless:
		handle = n.Handle()
		if err := n.Destroy(); err != nil {
			return err
		}
	case *Element:
		handle = n.handle
		if err := UnmountChildren(n.Children, nil); err != nil {
			return err
		}
		for _, a := range n.Props.attrs {
			if !IsEventProp(a.Key) {
				continue
			}
			if h, ok := a.Value.(PropertyHook); ok {
				if err := h.Unhook(handle, a.Key, nil); err != nil {
					return err
				}
			}
		}
		if n.Ref != nil {
			if err := n.Ref.Detach(n, handle); err != nil {
				return err
			}
		}
	case *Text:
		handle = n.handle
	}

	if parent != nil && handle != nil {
		return parent.RemoveChild(handle)
	}
	return nil
}
