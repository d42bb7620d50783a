package vdom

// Namespace URIs for namespaced SVG attributes.
const (
	XLinkNamespace = "http://www.w3.org/1999/xlink"
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
)

// namespacedAttr describes an author prop that maps to a namespaced attribute.
type namespacedAttr struct {
	name      string
	namespace string
}

var namespacedAttrs = map[string]namespacedAttr{
	"xlinkActuate": {"xlink:actuate", XLinkNamespace},
	"xlinkArcrole": {"xlink:arcrole", XLinkNamespace},
	"xlinkHref":    {"xlink:href", XLinkNamespace},
	"xlinkRole":    {"xlink:role", XLinkNamespace},
	"xlinkShow":    {"xlink:show", XLinkNamespace},
	"xlinkTitle":   {"xlink:title", XLinkNamespace},
	"xlinkType":    {"xlink:type", XLinkNamespace},
	"xmlBase":      {"xml:base", XMLNamespace},
	"xmlLang":      {"xml:lang", XMLNamespace},
	"xmlSpace":     {"xml:space", XMLNamespace},
}

// NormalizeProps maps author props to canonical props for kind. String kinds
// get the tag transform; anything else (components) gets a shallow copy.
func NormalizeProps(kind any, raw Props) Props {
	if _, ok := kind.(string); ok {
		return NormalizeTagProps(raw)
	}
	return raw.Clone()
}

// NormalizeTagProps resolves special keys of a plain element into hooks and
// canonical values. Unknown keys pass through unchanged. Normalizing already
// normalized props yields the same hook instances.
func NormalizeTagProps(raw Props) Props {
	var out Props
	for _, a := range raw.attrs {
		name, value := a.Key, a.Value

		if ns, ok := namespacedAttrs[name]; ok {
			if isNamespaceValue(value) {
				out.Set(ns.name, NewAttributeHook(ns.namespace, value))
				continue
			}
			name = ns.name
		}

		switch {
		case name == "id" || name == "className" || name == "namespace":
			if value != nil {
				out.Set(name, value)
			}
		case name == "ref":
			out.Set(name, NewRefHook(value))
		case name == "dangerouslySetInnerHTML":
			out.Set(name, NewHTMLHook(value))
		case IsEventProp(name):
			out.Set(name, NewEventHook(name, value))
		case name == "defaultValue":
			if v := raw.Value("value"); Truthy(v) {
				out.Set("value", v)
			} else {
				out.Set("value", value)
			}
		case name == "style":
			if style, ok := normalizeStyle(value); ok {
				out.Set(name, style)
			}
		default:
			out.Set(name, value)
		}
	}
	return out
}

func isNamespaceValue(value any) bool {
	switch value.(type) {
	case string, bool, *AttributeHook:
		return true
	}
	return IsNumber(value)
}

// normalizeStyle keeps string styles verbatim and expands style objects into
// ordered declarations with units applied. Other types are dropped.
func normalizeStyle(value any) (any, bool) {
	if s, ok := value.(string); ok {
		return s, true
	}
	decls, ok := StyleDeclarations(value)
	if !ok {
		return nil, false
	}
	var out Props
	for _, d := range decls {
		if v, ok := StyleValue(d.Key, d.Value); ok {
			out.Set(d.Key, v)
		}
	}
	if out.Len() == 0 {
		return nil, false
	}
	return out, true
}

// StyleDeclarations lists the declarations of a style object in a stable
// order. Props and []Attr keep their order; maps are sorted by key.
func StyleDeclarations(value any) ([]Attr, bool) {
	switch v := value.(type) {
	case Props:
		return v.Attrs(), true
	case *Props:
		if v == nil {
			return nil, false
		}
		return v.Attrs(), true
	case []Attr:
		return v, true
	case map[string]any:
		return PropsFromMap(v).Attrs(), true
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return PropsFromMap(m).Attrs(), true
	}
	return nil, false
}
