package render

import (
	"context"
	"io"
	"net/http"
)

// StreamingRenderer wraps Renderer with chunked output support.
// It flushes content incrementally for faster time-to-first-byte.
type StreamingRenderer struct {
	*Renderer
	flusher http.Flusher
	w       io.Writer
}

// NewStreamingRenderer creates a streaming renderer that writes to w. If w
// implements http.Flusher, the head is flushed before the body is rendered.
func NewStreamingRenderer(w io.Writer, r *Renderer) *StreamingRenderer {
	if r == nil {
		r = defaultRenderer
	}
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer{
		Renderer: r,
		flusher:  flusher,
		w:        w,
	}
}

// RenderPage renders a complete HTML document with incremental flushing.
func (s *StreamingRenderer) RenderPage(ctx context.Context, page PageData) error {
	if err := s.writeDocumentStart(ctx, s.w, page); err != nil {
		return err
	}
	s.flush()

	if err := s.RenderToWriterContext(ctx, s.w, page.Body); err != nil {
		return err
	}
	if err := writeDocumentEnd(s.w, page); err != nil {
		return err
	}
	s.flush()
	return nil
}

// flush flushes the writer if it supports flushing.
func (s *StreamingRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// FlushableWriter wraps an io.Writer with a flush counter.
// This is useful for testing streaming behavior without an http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
