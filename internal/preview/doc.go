// Package preview serves a document over HTTP while it is being edited.
//
// Every request to / loads and renders the document as a full page. When
// live reload is on, the page connects to /_vnode/reload and the server
// polls the document and config files, pushing a reload (or an error
// overlay when the edit does not load) to every open page.
//
// Routes:
//
//	GET /                the rendered page
//	GET /_vnode/reload   live reload websocket
//	GET /metrics         renderer metrics, when a gatherer is configured
//	GET /healthz         liveness
package preview
