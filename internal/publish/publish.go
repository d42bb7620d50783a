package publish

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/vango-dev/vnode/internal/errors"
)

// Sink is a destination for rendered markup.
// Implement this interface to publish to other storage.
type Sink interface {
	// Put stores body at the sink's location.
	Put(ctx context.Context, body []byte) error

	// Target describes where Put writes.
	Target() Target
}

// Kind is the kind of a publish target.
type Kind int

const (
	KindStdout Kind = iota
	KindFile
	KindS3
)

func (k Kind) String() string {
	switch k {
	case KindStdout:
		return "stdout"
	case KindFile:
		return "file"
	case KindS3:
		return "s3"
	}
	return "unknown"
}

// Target is a parsed publish destination.
type Target struct {
	Kind Kind

	// Path is the file path for KindFile.
	Path string

	// Bucket and Key locate the object for KindS3.
	Bucket string
	Key    string
}

// DefaultKey is used when an s3 target names a bucket or a prefix ending in
// a slash.
const DefaultKey = "index.html"

// ParseTarget parses "-" (standard output), s3://bucket/key or a file path.
// An empty string means standard output.
func ParseTarget(s string) (Target, error) {
	if s == "" || s == "-" {
		return Target{Kind: KindStdout}, nil
	}
	if rest, ok := strings.CutPrefix(s, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Target{}, errors.New("E150").WithDetailf("%q has no bucket", s).
				WithSuggestion("Use s3://bucket/key")
		}
		if key == "" || strings.HasSuffix(key, "/") {
			key += DefaultKey
		}
		return Target{Kind: KindS3, Bucket: bucket, Key: key}, nil
	}
	if strings.Contains(s, "://") {
		return Target{}, errors.New("E150").WithDetailf("Unsupported scheme in %q", s).
			WithSuggestion("Use -, a file path or s3://bucket/key")
	}
	return Target{Kind: KindFile, Path: s}, nil
}

// String returns the target in the form ParseTarget accepts.
func (t Target) String() string {
	switch t.Kind {
	case KindFile:
		return t.Path
	case KindS3:
		return "s3://" + t.Bucket + "/" + t.Key
	}
	return "-"
}

// Options configure Open.
type Options struct {
	// Stdout receives output for "-" targets. Defaults to os.Stdout.
	Stdout io.Writer

	// S3 is the client for s3 targets. When nil, Open builds one from
	// Region and Endpoint.
	S3 PutObjectAPI

	Region       string
	Endpoint     string
	ContentType  string
	CacheControl string
}

// Open returns the sink for t.
func Open(t Target, opts Options) (Sink, error) {
	switch t.Kind {
	case KindStdout:
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		return NewWriterSink(w), nil
	case KindFile:
		return NewFileSink(t.Path), nil
	case KindS3:
		client := opts.S3
		if client == nil {
			client = NewS3Client(opts.Region, opts.Endpoint)
		}
		s := NewS3Sink(client, t.Bucket, t.Key)
		s.ContentType = opts.ContentType
		s.CacheControl = opts.CacheControl
		return s, nil
	}
	return nil, errors.New("E150").WithDetailf("Unknown target kind %d", t.Kind)
}

// Result describes a completed publish.
type Result struct {
	Target Target
	Bytes  int
	SHA256 string
}

// Publish writes body to sink and returns its size and digest.
func Publish(ctx context.Context, sink Sink, body []byte) (Result, error) {
	if err := sink.Put(ctx, body); err != nil {
		return Result{}, err
	}
	sum := sha256.Sum256(body)
	return Result{
		Target: sink.Target(),
		Bytes:  len(body),
		SHA256: hex.EncodeToString(sum[:]),
	}, nil
}
