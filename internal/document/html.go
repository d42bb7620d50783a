package document

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/vnode/internal/errors"
)

// ParseHTML decodes an HTML fragment into a document with no components.
// The fragment must contain exactly one top-level node; surrounding
// whitespace and comments are ignored.
func ParseHTML(name string, r io.Reader) (*Document, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, errors.New("E121").Wrap(err).WithSuggestion("Check that " + name + " is an HTML fragment")
	}

	pos := position{file: name}
	var roots []template
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		if t := fromHTML(n, pos); t != nil {
			roots = append(roots, t)
		}
	}
	switch len(roots) {
	case 0:
		return nil, errors.New("E121").WithDetail("The HTML fragment has no content").
			WithLocation(name, 1, 1)
	case 1:
		return &Document{Path: name, root: roots[0], components: map[string]*Component{}}, nil
	}
	return nil, errors.New("E122").
		WithDetailf("The HTML fragment has %d top-level nodes", len(roots)).
		WithSuggestion("Wrap the fragment in a single element")
}

func fromHTML(n *html.Node, pos position) template {
	switch n.Type {
	case html.TextNode:
		return &literal{position: pos, value: n.Data}
	case html.ElementNode:
		e := &element{position: pos, tag: n.Data}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			e.props = append(e.props, field{key: key, value: &literal{position: pos, value: a.Val}})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if t := fromHTML(c, pos); t != nil {
				e.children = append(e.children, t)
			}
		}
		return e
	}
	return nil
}
