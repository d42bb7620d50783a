package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/vango-dev/vnode/internal/errors"
)

// WriterSink writes markup to an io.Writer, normally standard output.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a WriterSink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Put(_ context.Context, body []byte) error {
	if _, err := s.w.Write(body); err != nil {
		return errors.New("E151").Wrap(err)
	}
	return nil
}

func (s *WriterSink) Target() Target { return Target{Kind: KindStdout} }

// FileSink writes markup to a file. The file is replaced atomically and
// missing parent directories are created.
type FileSink struct {
	path string
}

// NewFileSink creates a FileSink.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Put(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return s.fail(err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return s.fail(err)
	}
	tmp := f.Name()

	if _, err := f.Write(body); err != nil {
		f.Close()
		os.Remove(tmp)
		return s.fail(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return s.fail(err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return s.fail(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return s.fail(err)
	}
	return nil
}

func (s *FileSink) Target() Target { return Target{Kind: KindFile, Path: s.path} }

func (s *FileSink) fail(err error) error {
	return errors.New("E151").Wrap(err).WithSuggestion("Check that " + s.path + " is writable")
}
