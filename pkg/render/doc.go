// Package render provides server-side rendering of vdom trees to HTML.
//
// The renderer reproduces, as text, what mounting a tree into a live
// document would produce:
//
//   - Component execution: stateful components are instantiated, disabled,
//     given WillMount, rendered and asked for child context; function
//     components are called
//   - Context propagation: contributed keys are merged into a fresh
//     Context visible only to the contributing component's subtree
//   - Void elements self-close and never render children
//   - Boolean true attributes render bare; style objects become
//     "name:value;" lists with px units where needed
//   - xlink attributes are rewritten inside svg (but not foreignObject)
//   - dangerouslySetInnerHTML is written without escaping
//
// # Basic Usage
//
//	html, err := render.RenderToString(node)
//
// RenderToStaticMarkup produces the same output; no hydration markers are
// emitted by either entry point.
//
// A configured Renderer adds logging, Prometheus metrics and OpenTelemetry
// spans:
//
//	r := render.NewRenderer(render.RendererConfig{
//	    Logger:  logger,
//	    Metrics: render.NewMetrics(render.WithRegistry(reg)),
//	})
//	err := r.RenderToWriterContext(ctx, w, node)
//
// # Full Pages
//
// RenderPage wraps a body tree in a complete document. StreamingRenderer
// flushes the head before rendering the body.
//
// # gomponents
//
// Node adapts a VNode to a gomponents.Node; Embed goes the other way by
// injecting gomponents output as inner HTML.
//
// # Errors
//
// Errors returned by components are passed to the caller unmodified and no
// partial output is produced.
package render
