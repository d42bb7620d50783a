package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vnode/pkg/vdom"
)

// Entry points, used as the "entry" label on metrics and spans.
const (
	EntryString = "string"
	EntryStatic = "static"
	EntryWriter = "writer"
)

const tracerName = "github.com/vango-dev/vnode/pkg/render"

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Logger receives debug output about component execution.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics records render counts and durations. Optional.
	Metrics *Metrics

	// Tracer creates a span per top-level render.
	// Defaults to the global OpenTelemetry tracer provider.
	Tracer trace.Tracer
}

// Renderer renders VNode trees to HTML. It holds no per-render state and is
// safe for concurrent use.
type Renderer struct {
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Renderer{
		logger:  logger.With("component", "render"),
		metrics: config.Metrics,
		tracer:  tracer,
	}
}

var defaultRenderer = NewRenderer(RendererConfig{})

// RenderToString renders node with the default renderer.
func RenderToString(node vdom.VNode) (string, error) {
	return defaultRenderer.RenderToString(node)
}

// RenderToStaticMarkup renders node with the default renderer. The output is
// identical to RenderToString.
func RenderToStaticMarkup(node vdom.VNode) (string, error) {
	return defaultRenderer.RenderToStaticMarkup(node)
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node vdom.VNode) (string, error) {
	p, err := r.run(context.Background(), EntryString, node)
	if err != nil {
		return "", err
	}
	return p.buf.String(), nil
}

// RenderToStaticMarkup renders a VNode tree to an HTML string. No
// hydration markers are emitted, so the output matches RenderToString.
func (r *Renderer) RenderToStaticMarkup(node vdom.VNode) (string, error) {
	p, err := r.run(context.Background(), EntryStatic, node)
	if err != nil {
		return "", err
	}
	return p.buf.String(), nil
}

// RenderToWriter renders a VNode tree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node vdom.VNode) error {
	return r.RenderToWriterContext(context.Background(), w, node)
}

// RenderToWriterContext renders a VNode tree to w. ctx carries the parent
// trace span; rendering itself is not cancellable.
func (r *Renderer) RenderToWriterContext(ctx context.Context, w io.Writer, node vdom.VNode) error {
	p, err := r.run(ctx, EntryWriter, node)
	if err != nil {
		return err
	}
	_, err = p.buf.WriteTo(w)
	return err
}

// run renders node into a fresh buffer and records telemetry.
func (r *Renderer) run(ctx context.Context, entry string, node vdom.VNode) (*pass, error) {
	_, span := r.tracer.Start(ctx, "vnode.render", trace.WithAttributes(
		attribute.String("vnode.entry", entry),
		attribute.String("vnode.kind", kindOf(node).String()),
	))
	defer span.End()

	start := time.Now()
	p := &pass{r: r}
	err := p.node(node, nil, vdom.Context{}, false)

	r.metrics.observeRender(entry, time.Since(start), p.buf.Len(), err)
	r.metrics.observeComponents(p.compositeCount, p.statelessCount)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("vnode.bytes", p.buf.Len()),
		attribute.Int("vnode.components", p.compositeCount+p.statelessCount),
	)
	return p, nil
}

// skipAttributes are structural props that are never serialized.
var skipAttributes = map[string]bool{
	"ref":      true,
	"key":      true,
	"children": true,
	"owner":    true,
}

var xlinkAttr = regexp.MustCompile(`^xlink:?(.+)`)

// pass is the state of one top-level render.
type pass struct {
	r              *Renderer
	buf            bytes.Buffer
	compositeCount int
	statelessCount int
}

// node dispatches rendering based on node kind. parent is the node whose
// rendering produced this one; ctx is the inherited context.
func (p *pass) node(node vdom.VNode, parent vdom.VNode, ctx vdom.Context, svg bool) error {
	if vdom.IsInvalid(node) {
		return nil
	}

	switch n := node.(type) {
	case *vdom.Text:
		p.buf.WriteString(escapeHTML(n.Value))
		return nil
	case *vdom.Element:
		return p.element(n, ctx, svg)
	case *vdom.Composite:
		return p.composite(n, parent, ctx, svg)
	case *vdom.Stateless:
		return p.stateless(n, parent, ctx, svg)
	default:
		return fmt.Errorf("render: unknown node type %T", node)
	}
}

// composite instantiates a stateful component and renders its output with
// the context it contributes. The instance sees its own copy of ctx.
func (p *pass) composite(n *vdom.Composite, parent vdom.VNode, ctx vdom.Context, svg bool) error {
	p.compositeCount++
	p.r.logger.Debug("render composite", "class", fmt.Sprintf("%T", n.Class), "parent", describe(parent))

	own := ctx.Merge(nil)
	instance := n.Class.New(n.Props, own)
	if instance == nil {
		return fmt.Errorf("render: %T returned a nil component", n.Class)
	}
	if d, ok := instance.(vdom.Disabler); ok {
		d.SetDisabled(true)
	}
	if wm, ok := instance.(vdom.WillMounter); ok {
		if err := wm.WillMount(n.Props, own); err != nil {
			return err
		}
	}

	rendered, err := instance.Render(n.Props, own)
	if err != nil {
		return err
	}

	if cp, ok := instance.(vdom.ChildContextProvider); ok {
		extra, err := cp.ChildContext(n.Props, own)
		if err != nil {
			return err
		}
		ctx = ctx.Merge(extra)
	}

	return p.node(rendered, n, ctx, svg)
}

// stateless calls a function component with a copy of ctx. Stateless
// components do not contribute context.
func (p *pass) stateless(n *vdom.Stateless, parent vdom.VNode, ctx vdom.Context, svg bool) error {
	p.statelessCount++
	p.r.logger.Debug("render stateless", "parent", describe(parent))

	if n.Func == nil {
		return nil
	}
	rendered, err := n.Func(n.Props, ctx.Merge(nil))
	if err != nil {
		return err
	}
	return p.node(rendered, n, ctx, svg)
}

// element renders a tag with its attributes and children.
func (p *pass) element(el *vdom.Element, ctx vdom.Context, svg bool) error {
	b := &p.buf
	tag := el.Tag

	b.WriteByte('<')
	b.WriteString(tag)

	html := p.attributes(el.Props, svg)

	if isVoidElement(tag) {
		b.WriteString("/>")
		return nil
	}
	b.WriteByte('>')

	if html != "" {
		b.WriteString(html)
	} else {
		childSVG := svg
		switch tag {
		case "svg":
			childSVG = true
		case "foreignObject":
			childSVG = false
		}
		for _, child := range el.Children {
			if t, ok := child.(*vdom.Text); ok && t != nil {
				if t.Value == "" {
					b.WriteByte(' ')
				} else {
					b.WriteString(escapeHTML(t.Value))
				}
				continue
			}
			if err := p.node(child, el, ctx, childSVG); err != nil {
				return err
			}
		}
	}

	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return nil
}

// attributes writes the attribute list and returns captured inner HTML.
func (p *pass) attributes(props vdom.Props, svg bool) string {
	b := &p.buf
	var html string

	props.Range(func(name string, value any) bool {
		if skipAttributes[name] {
			return true
		}
		if ah, ok := value.(*vdom.AttributeHook); ok {
			value = ah.Value
		}

		switch {
		case name == "dangerouslySetInnerHTML":
			html = vdom.NewHTMLHook(value).HTML
		case name == "style":
			if style := renderStyle(value); style != "" {
				writeAttr(b, "style", style)
			}
		case name == "class" || name == "className":
			if class, ok := renderClass(value); ok {
				writeAttr(b, "class", class)
			}
		case name == "defaultValue":
			if !vdom.Truthy(props.Value("value")) {
				writeAttr(b, "value", escapeHTML(scalarString(value)))
			}
		case name == "defaultChecked":
			if !vdom.Truthy(props.Value("checked")) {
				writeAttr(b, "checked", escapeHTML(scalarString(value)))
			}
		case svg && xlinkAttr.MatchString(name):
			name = xlinkAttr.ReplaceAllString(strings.ToLower(name), "xlink:$1")
			writeAttr(b, name, escapeHTML(scalarString(value)))
		default:
			switch v := value.(type) {
			case string:
				writeAttr(b, name, escapeHTML(v))
			case bool:
				if v {
					b.WriteByte(' ')
					b.WriteString(name)
				}
			default:
				if num, ok := vdom.FormatNumber(v); ok {
					writeAttr(b, name, num)
				}
			}
		}
		return true
	})

	return html
}

func writeAttr(b *bytes.Buffer, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(value)
	b.WriteByte('"')
}

// renderStyle renders a string style verbatim, or a style object as
// "name:value;" declarations.
func renderStyle(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	decls, ok := vdom.StyleDeclarations(value)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, d := range decls {
		v, ok := vdom.StyleValue(d.Key, d.Value)
		if !ok {
			continue
		}
		b.WriteString(vdom.CSSName(d.Key))
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte(';')
	}
	return b.String()
}

// renderClass renders a class string verbatim, or the truthy keys of a class
// map joined by spaces.
func renderClass(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case map[string]bool:
		keys := make([]string, 0, len(v))
		for k, on := range v {
			if on {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		return strings.Join(keys, " "), true
	}
	decls, ok := vdom.StyleDeclarations(value)
	if !ok {
		return "", false
	}
	keys := make([]string, 0, len(decls))
	for _, d := range decls {
		if vdom.Truthy(d.Value) {
			keys = append(keys, d.Key)
		}
	}
	return strings.Join(keys, " "), true
}

// scalarString converts an attribute value to a string.
func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	if num, ok := vdom.FormatNumber(value); ok {
		return num
	}
	return fmt.Sprintf("%v", value)
}

func kindOf(node vdom.VNode) vdom.VKind {
	if vdom.IsInvalid(node) {
		return vdom.KindInvalid
	}
	return node.Kind()
}

// describe names a node for log output.
func describe(node vdom.VNode) string {
	switch n := node.(type) {
	case nil:
		return "root"
	case *vdom.Element:
		return "<" + n.Tag + ">"
	default:
		return node.Kind().String()
	}
}
