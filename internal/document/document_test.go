package document

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vnode/internal/errors"
	"github.com/vango-dev/vnode/pkg/render"
	"github.com/vango-dev/vnode/pkg/vdom"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func renderDocument(t *testing.T, d *Document) string {
	t.Helper()
	root, err := d.Root()
	require.NoError(t, err)
	out, err := render.RenderToString(root)
	require.NoError(t, err)
	return out
}

func TestLoadYAMLComponents(t *testing.T) {
	d, err := Load("testdata/card.yaml")
	require.NoError(t, err)
	require.Equal(t, []string{"Badge", "Card", "Theme"}, d.Components())

	theme, ok := d.Component("Theme")
	require.True(t, ok)
	require.True(t, theme.Stateful())
	require.IsType(t, vdom.ClassFunc(nil), theme.Kind())

	card, ok := d.Component("Card")
	require.True(t, ok)
	require.False(t, card.Stateful())
	require.IsType(t, vdom.FuncComponent(nil), card.Kind())

	newGoldie(t).Assert(t, "card", []byte(renderDocument(t, d)))
}

func TestLoadJSON(t *testing.T) {
	d, err := Load("testdata/card.json")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "json", []byte(renderDocument(t, d)))
}

func TestRootBuildsFreshTree(t *testing.T) {
	d, err := Load("testdata/card.yaml")
	require.NoError(t, err)

	a, err := d.Root()
	require.NoError(t, err)
	b, err := d.Root()
	require.NoError(t, err)
	require.NotSame(t, a, b)
	require.Equal(t, renderDocument(t, d), renderDocument(t, d))
}

func TestLoadHTML(t *testing.T) {
	d, err := Load("testdata/menu.html")
	require.NoError(t, err)
	require.Empty(t, d.Components())

	doc, err := htmlquery.Parse(strings.NewReader(renderDocument(t, d)))
	require.NoError(t, err)

	require.NotNil(t, htmlquery.FindOne(doc, `//ul[@class="menu"]`))
	require.Len(t, htmlquery.Find(doc, "//ul/li"), 2)

	a := htmlquery.FindOne(doc, "//li/a")
	require.NotNil(t, a)
	require.Equal(t, "/a", htmlquery.SelectAttr(a, "href"))
	require.Equal(t, "A & B", htmlquery.InnerText(a))

	li := htmlquery.FindOne(doc, `//li[@data-x="1"]`)
	require.NotNil(t, li)
	require.Equal(t, "Two", htmlquery.InnerText(li))
}

func TestParseHTMLNamespacedAttributes(t *testing.T) {
	d, err := ParseHTML("icon.html", strings.NewReader(`<svg><use xlink:href="#i"></use></svg>`))
	require.NoError(t, err)
	require.Equal(t, `<svg><use xlink:href="#i"></use></svg>`, renderDocument(t, d))
}

func TestParseHTMLErrors(t *testing.T) {
	_, err := ParseHTML("two.html", strings.NewReader("<p>a</p>\n<p>b</p>"))
	require.True(t, errors.HasCode(err, "E122"), "got %v", err)

	_, err = ParseHTML("empty.html", strings.NewReader("  <!-- nothing -->  "))
	require.True(t, errors.HasCode(err, "E121"), "got %v", err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.HasCode(err, "E120"), "got %v", err)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yml")
	require.NoError(t, os.WriteFile(path, []byte("root:\n  tag: p\n  children: [hi]\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, d.Path)
	require.Equal(t, "<p>hi</p>", renderDocument(t, d))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"syntax", "root: [", "E121"},
		{"empty", "", "E121"},
		{"not a mapping", "- a\n- b\n", "E121"},
		{"missing root", "components: {}\n", "E121"},
		{"unknown top-level key", "root: a\nextra: 1\n", "E121"},
		{"not a node", "root: {foo: 1}\n", "E122"},
		{"unknown element key", "root: {tag: p, kids: []}\n", "E122"},
		{"empty tag", "root: {tag: ''}\n", "E122"},
		{"unknown component", "root: {component: Missing}\n", "E123"},
		{"component without render", "components: {A: {defaults: {}}}\nroot: a\n", "E124"},
		{"unknown component key", "components: {A: {render: a, extra: 1}}\nroot: a\n", "E124"},
		{"placeholder in root", "root: {prop: title}\n", "E125"},
		{"placeholder in element in root", "root: {tag: p, children: [{expr: '1'}]}\n", "E125"},
		{"placeholder in defaults", "components: {A: {render: a, defaults: {x: {prop: y}}}}\nroot: a\n", "E125"},
		{"bad expression", "components: {A: {render: {expr: '1 +'}}}\nroot: {component: A}\n", "E126"},
		{"self cycle", "components: {A: {render: {component: A}}}\nroot: a\n", "E127"},
		{"cycle", "components:\n  A: {render: {tag: p, children: [{component: B}]}}\n  B: {render: {component: A}}\nroot: a\n", "E127"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.yaml", []byte(tt.src))
			require.Error(t, err)
			require.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	_, err := Parse("test.yaml", []byte("root:\n  component: Missing\n"))
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	require.Equal(t, "E123", e.Code)
	require.NotNil(t, e.Location)
	require.Equal(t, 2, e.Location.Line)
	require.Equal(t, 3, e.Location.Column)
}

func TestCycleDetail(t *testing.T) {
	src := "components:\n  A: {render: {component: B}}\n  B: {render: {component: A}}\nroot: a\n"
	_, err := Parse("test.yaml", []byte(src))
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	require.Equal(t, "A -> B -> A", e.Detail)
}

func TestRootErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"several root nodes", "root: [a, b]\n", "E122"},
		{"expression error", "components: {A: {render: {expr: 'props.x.y'}}}\nroot: {component: A}\n", "E126"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse("test.yaml", []byte(tt.src))
			require.NoError(t, err)
			root, err := d.Root()
			if err == nil {
				_, err = render.RenderToString(root)
			}
			require.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestRootScalars(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"root: hello\n", "hello"},
		{"root: 42\n", "42"},
		{"root: 1.5\n", "1.5"},
		{"root: true\n", ""},
		{"root: null\n", ""},
		{"root: {text: '<b>'}\n", "&lt;b&gt;"},
		{"root: [only]\n", "only"},
	}
	for _, tt := range tests {
		d, err := Parse("test.yaml", []byte(tt.src))
		require.NoError(t, err, tt.src)
		require.Equal(t, tt.want, renderDocument(t, d), tt.src)
	}
}

func TestSlotAndDefaults(t *testing.T) {
	src := `
components:
  Box:
    defaults: {kind: plain, style: {margin: 4}}
    render:
      tag: div
      props:
        class: {prop: kind}
        style: {prop: style}
      children: {slot: children}
root:
  tag: body
  children:
    - component: Box
      children: [one, {tag: b, children: [two]}]
    - component: Box
      props: {kind: fancy}
`
	d, err := Parse("test.yaml", []byte(src))
	require.NoError(t, err)
	require.Equal(t,
		`<body><div class="plain" style="margin:4px;">one<b>two</b></div><div class="fancy" style="margin:4px;"></div></body>`,
		renderDocument(t, d))
}

func TestExpressionScope(t *testing.T) {
	src := `
components:
  Provider:
    context: {user: {prop: user}}
    render: {slot: children}
  Greeting:
    render:
      tag: p
      props:
        title: {expr: "props.items.length + ' items'"}
      children:
        - expr: "'Hi ' + context.user.toUpperCase()"
root:
  component: Provider
  props: {user: ada}
  children:
    - component: Greeting
      props: {items: [1, 2, 3]}
`
	d, err := Parse("test.yaml", []byte(src))
	require.NoError(t, err)
	require.Equal(t, `<p title="3 items">Hi ADA</p>`, renderDocument(t, d))
}
