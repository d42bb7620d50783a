package render

import (
	"io"
	"strings"

	g "maragu.dev/gomponents"

	"github.com/vango-dev/vnode/pkg/vdom"
)

// Node adapts a VNode tree to a gomponents.Node rendered with the default
// renderer.
func Node(v vdom.VNode) g.Node {
	return defaultRenderer.Node(v)
}

// Node adapts a VNode tree to a gomponents.Node so it can be placed inside
// gomponents markup.
func (r *Renderer) Node(v vdom.VNode) g.Node {
	return g.NodeFunc(func(w io.Writer) error {
		return r.RenderToWriter(w, v)
	})
}

// Embed renders a gomponents node and wraps the markup in an element with the
// given tag and props. The markup is injected as trusted inner HTML.
func Embed(tag string, props vdom.Props, n g.Node) (vdom.VNode, error) {
	var b strings.Builder
	if n != nil {
		if err := n.Render(&b); err != nil {
			return nil, err
		}
	}
	p := props.Clone()
	p.Set("dangerouslySetInnerHTML", vdom.InnerHTML{HTML: b.String()})
	return vdom.CreateElement(tag, p), nil
}
