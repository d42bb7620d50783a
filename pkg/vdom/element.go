package vdom

import (
	"reflect"
	"strconv"
)

// emptyChildren is shared by every node constructed without children.
var emptyChildren = []VNode{}

// CreateElement builds a canonical node.
//
// kind is a tag name, a Class, a FuncComponent (or a plain function with the
// same signature), or an existing VNode which is returned unchanged. Any other
// kind yields Invalid. Children may be nodes, strings, numbers, nil/bools, or
// slices of those; slices are spliced in order, nested ones included.
func CreateElement(kind any, props Props, children ...any) VNode {
	return createElement(nil, kind, props, children)
}

// H is shorthand for CreateElement with attributes in place of Props.
func H(kind any, attrs []Attr, children ...any) VNode {
	return CreateElement(kind, NewProps(attrs...), children...)
}

func createElement(owner *Owner, kind any, props Props, args []any) VNode {
	switch k := kind.(type) {
	case string:
		return newElement(owner, k, NormalizeTagProps(props), flattenChildren(args))
	case Class:
		p := componentProps(props, args)
		return &Composite{Class: k, Props: p, Owner: owner, Key: keyString(p.Value("key"))}
	case FuncComponent:
		return newStateless(owner, k, componentProps(props, args))
	case func(Props, Context) (VNode, error):
		return newStateless(owner, k, componentProps(props, args))
	case func(Props, Context) VNode:
		fn := func(p Props, ctx Context) (VNode, error) { return k(p, ctx), nil }
		return newStateless(owner, fn, componentProps(props, args))
	case VNode:
		return k
	default:
		return Invalid{}
	}
}

func newElement(owner *Owner, tag string, props Props, children []VNode) *Element {
	el := &Element{
		Tag:      tag,
		Children: children,
		Owner:    owner,
	}
	if v, ok := props.Get("key"); ok {
		el.Key = keyString(v)
		props.Delete("key")
	}
	if v, ok := props.Get("ref"); ok {
		if rh, ok := v.(*RefHook); ok {
			el.Ref = rh
		}
		props.Delete("ref")
	}
	props.Delete("owner")
	el.Props = props
	return el
}

func newStateless(owner *Owner, fn FuncComponent, props Props) *Stateless {
	return &Stateless{Func: fn, Props: props, Owner: owner, Key: keyString(props.Value("key"))}
}

// componentProps copies props and sets the children prop. An explicit
// children prop wins over variadic children.
func componentProps(props Props, args []any) Props {
	p := NormalizeProps(nil, props)
	if v, ok := p.Get("children"); ok && v != nil {
		if _, isNodes := v.([]VNode); !isNodes {
			p.Set("children", canonicalChildren(v))
		}
		return p
	}
	p.Set("children", flattenChildren(args))
	return p
}

// canonicalChildren wraps an explicit children value into a node slice.
func canonicalChildren(v any) []VNode {
	if isSlice(v) {
		return flattenChildren([]any{v})
	}
	return []VNode{toNode(v)}
}

// flattenChildren splices slice arguments in order, descending into nested
// slices, and canonicalizes each item.
func flattenChildren(args []any) []VNode {
	children := emptyChildren
	push := func(item any) {
		if len(children) == 0 {
			children = make([]VNode, 0, len(args))
		}
		children = append(children, toNode(item))
	}
	var splice func(item any)
	splice = func(item any) {
		switch v := item.(type) {
		case []VNode:
			for _, c := range v {
				push(c)
			}
		case []any:
			for _, c := range v {
				splice(c)
			}
		case []string:
			for _, c := range v {
				push(c)
			}
		default:
			if !isSlice(item) {
				push(item)
				return
			}
			rv := reflect.ValueOf(item)
			for i := 0; i < rv.Len(); i++ {
				splice(rv.Index(i).Interface())
			}
		}
	}
	for _, arg := range args {
		splice(arg)
	}
	return children
}

func isSlice(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case []byte:
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

// toNode canonicalizes a single child value.
func toNode(v any) VNode {
	switch c := v.(type) {
	case nil, bool:
		return Invalid{}
	case VNode:
		return c
	case string:
		return NewText(c)
	case []byte:
		return NewText(string(c))
	}
	if s, ok := FormatNumber(v); ok {
		return NewText(s)
	}
	return Invalid{}
}

func keyString(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	}
	if s, ok := FormatNumber(v); ok {
		return s
	}
	return ""
}
