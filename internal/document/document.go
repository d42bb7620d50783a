package document

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vango-dev/vnode/internal/errors"
	"github.com/vango-dev/vnode/pkg/vdom"
)

// Document is a decoded tree document. Root builds a fresh node tree on
// every call, so a Document can be rendered any number of times.
type Document struct {
	// Path is the file the document was read from, used in error locations.
	Path string

	root       template
	components map[string]*Component
}

// Load reads a document from path. Files ending in .html or .htm are parsed
// as HTML fragments; anything else as YAML or JSON.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E120").Wrap(err).
			WithSuggestion("Check that " + path + " exists and is readable")
	}
	if IsHTML(path) {
		return ParseHTML(path, bytes.NewReader(data))
	}
	return Parse(path, data)
}

// IsHTML reports whether path names an HTML fragment.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Root builds the document's root node.
func (d *Document) Root() (vdom.VNode, error) {
	v, err := d.root.build(&scope{})
	if err != nil {
		return nil, err
	}
	return asNode(v, d.root)
}

// Components returns the declared component names in sorted order.
func (d *Document) Components() []string {
	names := make([]string, 0, len(d.components))
	for name := range d.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Component returns a declared component.
func (d *Document) Component(name string) (*Component, bool) {
	c, ok := d.components[name]
	return c, ok
}

// asNode converts a built value to the single node a root or component
// render must produce.
func asNode(v any, t template) (vdom.VNode, error) {
	switch n := v.(type) {
	case nil:
		return vdom.Invalid{}, nil
	case vdom.VNode:
		return n, nil
	case []vdom.VNode:
		if len(n) == 1 {
			return n[0], nil
		}
	case []any:
		if len(n) == 1 {
			return asNode(n[0], t)
		}
	case bool:
		return vdom.Invalid{}, nil
	case string:
		return vdom.NewText(n), nil
	default:
		if s, ok := vdom.FormatNumber(n); ok {
			return vdom.NewText(s), nil
		}
	}
	return nil, t.pos().fail("E122").WithDetail("A root or component render must produce exactly one node")
}
