// Package vdom provides the virtual DOM node model.
//
// A VNode is one of five kinds: Element, Text, Composite (stateful
// component), Stateless (function component) and Invalid (nil, bools and
// other holes that render to nothing). Nodes are built with CreateElement,
// which normalizes author props into canonical props and hook objects:
//
//	vdom.CreateElement("div",
//	    vdom.NewProps(
//	        vdom.A("className", "card"),
//	        vdom.A("style", vdom.NewProps(vdom.A("width", 10))),
//	        vdom.A("onClick", handler),
//	    ),
//	    vdom.CreateElement("h1", vdom.Props{}, "Title"),
//	    "body text",
//	)
//
// # Hooks
//
// Special props become capability objects a renderer attaches to its output:
// RefHook (ref), HTMLHook (dangerouslySetInnerHTML), EventHook (on* props)
// and AttributeHook (namespaced SVG attributes such as xlinkHref).
// Normalization reuses existing hook instances, so normalizing twice is safe.
//
// # Unmount
//
// Unmount releases a mounted tree depth first: children, then event
// bindings, then the ref, then the node's handle is removed from its
// container.
//
// # Owners
//
// Owner.CreateElement attributes the nodes it builds to a component. There is
// no ambient "current owner"; nodes built with CreateElement have none.
package vdom
