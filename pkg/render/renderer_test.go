package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/vnode/pkg/vdom"
)

func renderString(t *testing.T, node vdom.VNode) string {
	t.Helper()
	html, err := NewRenderer(RendererConfig{}).RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return html
}

func TestRenderText(t *testing.T) {
	if got := renderString(t, vdom.NewText("Hello, World!")); got != "Hello, World!" {
		t.Errorf("got %q, want %q", got, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	got := renderString(t, vdom.NewText(`<a>&"b"</a>`))
	want := "&lt;a&gt;&amp;&quot;b&quot;&lt;/a&gt;"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderInvalid(t *testing.T) {
	if got := renderString(t, vdom.Invalid{}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := renderString(t, nil); got != "" {
		t.Errorf("nil: got %q, want empty", got)
	}
	if got := renderString(t, vdom.H("p", nil, (*vdom.Element)(nil), "x")); got != "<p>x</p>" {
		t.Errorf("nil element child: got %q, want <p>x</p>", got)
	}
}

func TestRenderNestedChildSlices(t *testing.T) {
	got := renderString(t, vdom.H("ul", nil, []any{"a", []any{"b", "c"}}))
	if got != "<ul>abc</ul>" {
		t.Errorf("got %q, want <ul>abc</ul>", got)
	}
}

func TestRenderInvalidUTF8Text(t *testing.T) {
	if got := renderString(t, vdom.NewText("\xff<")); got != "\xff&lt;" {
		t.Errorf("got %q, want %q", got, "\xff&lt;")
	}
}

func TestRenderElement(t *testing.T) {
	node := vdom.H("div", []vdom.Attr{vdom.A("className", "container")},
		vdom.H("h1", nil, "Title"),
		vdom.H("p", nil, "Content ", 42),
	)
	want := `<div class="container"><h1>Title</h1><p>Content 42</p></div>`
	if got := renderString(t, node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderVoidElements(t *testing.T) {
	tests := []struct {
		name string
		node vdom.VNode
		want string
	}{
		{"img ignores children", vdom.H("img", []vdom.Attr{vdom.A("src", "x.png")}, "stray"), `<img src="x.png"/>`},
		{"br", vdom.H("br", nil), `<br/>`},
		{"input", vdom.H("input", []vdom.Attr{vdom.A("type", "text")}), `<input type="text"/>`},
		{"unknown tag is not void", vdom.H("my-widget", nil), `<my-widget></my-widget>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderString(t, tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderAttributes(t *testing.T) {
	tests := []struct {
		name  string
		attrs []vdom.Attr
		want  string
	}{
		{"escaped string", []vdom.Attr{vdom.A("title", `a "b" & c`)}, `<span title="a &quot;b&quot; &amp; c"></span>`},
		{"bare boolean", []vdom.Attr{vdom.A("hidden", true), vdom.A("draggable", false)}, `<span hidden></span>`},
		{"number", []vdom.Attr{vdom.A("tabIndex", 3), vdom.A("data-ratio", 1.5)}, `<span tabIndex="3" data-ratio="1.5"></span>`},
		{"structural props skipped", []vdom.Attr{vdom.A("key", "k"), vdom.A("children", "x")}, `<span></span>`},
		{"events dropped", []vdom.Attr{vdom.A("onClick", func() {})}, `<span></span>`},
		{"other values dropped", []vdom.Attr{vdom.A("data", struct{}{}), vdom.A("nothing", nil)}, `<span></span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderString(t, vdom.H("span", tt.attrs)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderStyle(t *testing.T) {
	tests := []struct {
		name  string
		style any
		want  string
	}{
		{"props", vdom.NewProps(vdom.A("color", "red"), vdom.A("width", 10)), `<div style="color:red;width:10px;"></div>`},
		{"unitless", vdom.NewProps(vdom.A("opacity", 0.5), vdom.A("zIndex", 2)), `<div style="opacity:0.5;z-index:2;"></div>`},
		{"vendor prefix", vdom.NewProps(vdom.A("WebkitTransition", "none"), vdom.A("msFlex", 1)), `<div style="-webkit-transition:none;-ms-flex:1;"></div>`},
		{"map sorted", map[string]any{"margin": 0, "color": "blue"}, `<div style="color:blue;margin:0px;"></div>`},
		{"string verbatim", "color: red", `<div style="color: red"></div>`},
		{"empty object", vdom.NewProps(), `<div></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := vdom.H("div", []vdom.Attr{vdom.A("style", tt.style)})
			if got := renderString(t, node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderClass(t *testing.T) {
	tests := []struct {
		name  string
		class any
		want  string
	}{
		{"string", "a b", `<i class="a b"></i>`},
		{"bool map", map[string]bool{"active": true, "hidden": false}, `<i class="active"></i>`},
		{"props", vdom.NewProps(vdom.A("x", 1), vdom.A("y", 0), vdom.A("z", "on")), `<i class="x z"></i>`},
		{"unsupported", 7, `<i></i>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := vdom.H("i", []vdom.Attr{vdom.A("className", tt.class)})
			if got := renderString(t, node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDefaultValue(t *testing.T) {
	tests := []struct {
		name  string
		attrs []vdom.Attr
		want  string
	}{
		{"defaultValue alone", []vdom.Attr{vdom.A("defaultValue", "d")}, `<input value="d"/>`},
		{"value wins", []vdom.Attr{vdom.A("value", "v"), vdom.A("defaultValue", "d")}, `<input value="v"/>`},
		{"defaultChecked alone", []vdom.Attr{vdom.A("defaultChecked", true)}, `<input checked="true"/>`},
		{"checked wins", []vdom.Attr{vdom.A("checked", true), vdom.A("defaultChecked", true)}, `<input checked/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderString(t, vdom.H("input", tt.attrs)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderInnerHTML(t *testing.T) {
	node := vdom.H("div",
		[]vdom.Attr{vdom.A("dangerouslySetInnerHTML", vdom.InnerHTML{HTML: "<b>raw</b>"})},
		"ignored",
	)
	if got := renderString(t, node); got != `<div><b>raw</b></div>` {
		t.Errorf("got %q", got)
	}

	node = vdom.H("div", []vdom.Attr{vdom.A("dangerouslySetInnerHTML", map[string]any{"__html": "<i>x</i>"})})
	if got := renderString(t, node); got != `<div><i>x</i></div>` {
		t.Errorf("map form: got %q", got)
	}
}

func TestRenderEmptyTextChild(t *testing.T) {
	if got := renderString(t, vdom.H("p", nil, "")); got != `<p> </p>` {
		t.Errorf("got %q, want %q", got, `<p> </p>`)
	}
	if got := renderString(t, vdom.H("p", nil, nil, false)); got != `<p></p>` {
		t.Errorf("holes: got %q, want %q", got, `<p></p>`)
	}
}

func TestRenderSVGNamespace(t *testing.T) {
	node := vdom.H("svg", []vdom.Attr{vdom.A("xlinkFoo", "a")},
		vdom.H("use", []vdom.Attr{vdom.A("xlinkFoo", "b")}),
		vdom.H("foreignObject", []vdom.Attr{vdom.A("xlinkFoo", "c")},
			vdom.H("a", []vdom.Attr{vdom.A("xlinkFoo", "d")}),
		),
	)
	want := `<svg xlinkFoo="a">` +
		`<use xlink:foo="b"></use>` +
		`<foreignObject xlink:foo="c"><a xlinkFoo="d"></a></foreignObject>` +
		`</svg>`
	if got := renderString(t, node); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRenderNamespacedHook(t *testing.T) {
	node := vdom.H("svg", nil, vdom.H("use", []vdom.Attr{vdom.A("xlinkHref", "#icon")}))
	want := `<svg><use xlink:href="#icon"></use></svg>`
	if got := renderString(t, node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderStaticMatchesString(t *testing.T) {
	node := vdom.H("ul", []vdom.Attr{vdom.A("id", "list")},
		vdom.H("li", nil, "one"),
		vdom.CreateElement(vdom.FuncComponent(func(p vdom.Props, ctx vdom.Context) (vdom.VNode, error) {
			return vdom.H("li", nil, "two"), nil
		}), vdom.Props{}),
	)
	r := NewRenderer(RendererConfig{})
	s, err := r.RenderToString(node)
	if err != nil {
		t.Fatal(err)
	}
	static, err := r.RenderToStaticMarkup(node)
	if err != nil {
		t.Fatal(err)
	}
	if s != static {
		t.Errorf("RenderToString %q != RenderToStaticMarkup %q", s, static)
	}

	pkgLevel, err := RenderToStaticMarkup(node)
	if err != nil {
		t.Fatal(err)
	}
	if pkgLevel != s {
		t.Errorf("package-level render = %q, want %q", pkgLevel, s)
	}
}

func TestRenderToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderToWriter(&buf, vdom.H("b", nil, "x")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<b>x</b>" {
		t.Errorf("got %q", buf.String())
	}
}

// themeProvider contributes a "theme" key to its subtree.
type themeProvider struct {
	disabled  bool
	willMount int
}

func (p *themeProvider) SetDisabled(d bool) { p.disabled = d }

func (p *themeProvider) WillMount(props vdom.Props, ctx vdom.Context) error {
	p.willMount++
	return nil
}

func (p *themeProvider) Render(props vdom.Props, ctx vdom.Context) (vdom.VNode, error) {
	return vdom.H("section", nil, props.Value("children")), nil
}

func (p *themeProvider) ChildContext(props vdom.Props, ctx vdom.Context) (vdom.Context, error) {
	return vdom.Context{"theme": props.Value("theme")}, nil
}

func themeConsumer(props vdom.Props, ctx vdom.Context) vdom.VNode {
	return vdom.H("span", nil, ctx.Value("theme"))
}

func TestRenderContextPropagation(t *testing.T) {
	var instances []*themeProvider
	provider := vdom.ClassFunc(func(props vdom.Props, ctx vdom.Context) vdom.Component {
		p := &themeProvider{}
		instances = append(instances, p)
		return p
	})

	node := vdom.H("div", nil,
		vdom.H(provider, []vdom.Attr{vdom.A("theme", "dark")},
			vdom.H(themeConsumer, nil),
			vdom.H(provider, []vdom.Attr{vdom.A("theme", "light")},
				vdom.H(themeConsumer, nil),
			),
			vdom.H(themeConsumer, nil),
		),
		vdom.H(themeConsumer, nil),
	)

	want := `<div><section><span>dark</span><section><span>light</span></section><span>dark</span></section><span></span></div>`
	if got := renderString(t, node); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}

	if len(instances) != 2 {
		t.Fatalf("instances = %d, want 2", len(instances))
	}
	for i, p := range instances {
		if !p.disabled {
			t.Errorf("instance %d was not disabled", i)
		}
		if p.willMount != 1 {
			t.Errorf("instance %d WillMount called %d times, want 1", i, p.willMount)
		}
	}
}

type themeWriter struct{}

func (themeWriter) Render(props vdom.Props, ctx vdom.Context) (vdom.VNode, error) {
	ctx["theme"] = "class-write"
	return vdom.H("b", nil, ctx.Value("theme")), nil
}

func TestRenderContextWritesStayLocal(t *testing.T) {
	provider := vdom.ClassFunc(func(vdom.Props, vdom.Context) vdom.Component {
		return &themeProvider{}
	})
	writer := vdom.FuncComponent(func(props vdom.Props, ctx vdom.Context) (vdom.VNode, error) {
		ctx["theme"] = "func-write"
		return vdom.H("i", nil, ctx.Value("theme")), nil
	})
	classWriter := vdom.ClassFunc(func(vdom.Props, vdom.Context) vdom.Component {
		return themeWriter{}
	})

	node := vdom.H(provider, []vdom.Attr{vdom.A("theme", "dark")},
		vdom.H(writer, nil),
		vdom.H(themeConsumer, nil),
		vdom.H(classWriter, nil),
		vdom.H(themeConsumer, nil),
	)

	want := `<section><i>func-write</i><span>dark</span><b>class-write</b><span>dark</span></section>`
	if got := renderString(t, node); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRenderComponentErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	failing := vdom.FuncComponent(func(vdom.Props, vdom.Context) (vdom.VNode, error) {
		return nil, boom
	})
	node := vdom.H("div", nil, vdom.H("p", nil, "before"), vdom.H(failing, nil))

	html, err := NewRenderer(RendererConfig{}).RenderToString(node)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if html != "" {
		t.Errorf("expected no partial output, got %q", html)
	}

	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderToWriter(&buf, node); !errors.Is(err, boom) {
		t.Fatalf("writer err = %v, want boom", err)
	}
	if buf.Len() != 0 {
		t.Errorf("writer got partial output %q", buf.String())
	}
}

func TestRenderNilInstance(t *testing.T) {
	broken := vdom.ClassFunc(func(vdom.Props, vdom.Context) vdom.Component { return nil })
	_, err := NewRenderer(RendererConfig{}).RenderToString(vdom.H(broken, nil))
	if err == nil || !strings.Contains(err.Error(), "nil component") {
		t.Errorf("err = %v, want nil component error", err)
	}
}

func TestRenderNilFuncComponent(t *testing.T) {
	node := &vdom.Stateless{}
	if got := renderString(t, node); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
