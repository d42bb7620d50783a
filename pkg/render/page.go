package render

import (
	"context"
	"fmt"
	"io"

	"github.com/vango-dev/vnode/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts contains script tags to include in the head.
	Scripts []ScriptTag

	// BodyEnd is trusted markup written just before </body>.
	BodyEnd string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Module bool
	Defer  bool
	Async  bool
}

// RenderPage renders a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	return r.RenderPageContext(context.Background(), w, page)
}

// RenderPageContext renders a complete HTML document to w.
func (r *Renderer) RenderPageContext(ctx context.Context, w io.Writer, page PageData) error {
	if err := r.writeDocumentStart(ctx, w, page); err != nil {
		return err
	}
	if err := r.RenderToWriterContext(ctx, w, page.Body); err != nil {
		return err
	}
	return writeDocumentEnd(w, page)
}

// writeDocumentStart writes everything up to and including <body>.
func (r *Renderer) writeDocumentStart(ctx context.Context, w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">", escapeHTML(lang)); err != nil {
		return err
	}
	if err := r.RenderToWriterContext(ctx, w, pageHead(page)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "<body>")
	return err
}

func writeDocumentEnd(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, page.BodyEnd); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body></html>\n")
	return err
}

// pageHead builds the document head as a node tree.
func pageHead(page PageData) vdom.VNode {
	children := []any{
		vdom.H("meta", []vdom.Attr{vdom.A("charset", "utf-8")}),
		vdom.H("meta", []vdom.Attr{
			vdom.A("name", "viewport"),
			vdom.A("content", "width=device-width, initial-scale=1"),
		}),
	}
	if page.Title != "" {
		children = append(children, vdom.H("title", nil, page.Title))
	}
	for _, m := range page.Meta {
		attrs := make([]vdom.Attr, 0, 3)
		if m.Name != "" {
			attrs = append(attrs, vdom.A("name", m.Name))
		}
		if m.Property != "" {
			attrs = append(attrs, vdom.A("property", m.Property))
		}
		attrs = append(attrs, vdom.A("content", m.Content))
		children = append(children, vdom.H("meta", attrs))
	}
	for _, href := range page.StyleSheets {
		children = append(children, vdom.H("link", []vdom.Attr{
			vdom.A("rel", "stylesheet"),
			vdom.A("href", href),
		}))
	}
	for _, s := range page.Scripts {
		attrs := []vdom.Attr{vdom.A("src", s.Src)}
		if s.Module {
			attrs = append(attrs, vdom.A("type", "module"))
		}
		attrs = append(attrs, vdom.A("defer", s.Defer), vdom.A("async", s.Async))
		children = append(children, vdom.H("script", attrs))
	}
	return vdom.CreateElement("head", vdom.Props{}, children)
}
