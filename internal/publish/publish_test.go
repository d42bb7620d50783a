package publish

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vnode/internal/errors"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
	}{
		{"", Target{Kind: KindStdout}},
		{"-", Target{Kind: KindStdout}},
		{"out/index.html", Target{Kind: KindFile, Path: "out/index.html"}},
		{"s3://site/page.html", Target{Kind: KindS3, Bucket: "site", Key: "page.html"}},
		{"s3://site/docs/", Target{Kind: KindS3, Bucket: "site", Key: "docs/index.html"}},
		{"s3://site", Target{Kind: KindS3, Bucket: "site", Key: "index.html"}},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseTargetErrors(t *testing.T) {
	for _, in := range []string{"s3://", "s3:///key", "gs://bucket/key"} {
		_, err := ParseTarget(in)
		require.True(t, errors.HasCode(err, "E150"), "%s: got %v", in, err)
	}
}

func TestTargetString(t *testing.T) {
	for _, in := range []string{"-", "out/a.html", "s3://b/k.html"} {
		tgt, err := ParseTarget(in)
		require.NoError(t, err)
		require.Equal(t, in, tgt.String())
	}
	require.Equal(t, "s3", KindS3.String())
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink, err := Open(Target{Kind: KindStdout}, Options{Stdout: &buf})
	require.NoError(t, err)

	res, err := Publish(context.Background(), sink, []byte("<p>hi</p>"))
	require.NoError(t, err)
	require.Equal(t, "<p>hi</p>", buf.String())
	require.Equal(t, 9, res.Bytes)
	require.Equal(t, KindStdout, res.Target.Kind)
	require.Len(t, res.SHA256, 64)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriterSinkError(t *testing.T) {
	err := NewWriterSink(failingWriter{}).Put(context.Background(), []byte("x"))
	require.True(t, errors.HasCode(err, "E151"))
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", "nested", "index.html")
	sink, err := Open(Target{Kind: KindFile, Path: path}, Options{})
	require.NoError(t, err)

	_, err = Publish(context.Background(), sink, []byte("first"))
	require.NoError(t, err)
	res, err := Publish(context.Background(), sink, []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
	require.Equal(t, path, res.Target.Path)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileSinkError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := NewFileSink(filepath.Join(blocker, "index.html")).Put(context.Background(), []byte("x"))
	require.True(t, errors.HasCode(err, "E151"), "got %v", err)
}

func TestFileSinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewFileSink(filepath.Join(t.TempDir(), "a.html")).Put(ctx, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	client := &fakeS3{}
	tgt, err := ParseTarget("s3://site/docs/")
	require.NoError(t, err)
	sink, err := Open(tgt, Options{S3: client, CacheControl: "max-age=60"})
	require.NoError(t, err)

	res, err := Publish(context.Background(), sink, []byte("<main></main>"))
	require.NoError(t, err)
	require.Equal(t, "s3://site/docs/index.html", res.Target.String())

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	require.Equal(t, "site", aws.ToString(in.Bucket))
	require.Equal(t, "docs/index.html", aws.ToString(in.Key))
	require.Equal(t, "text/html; charset=utf-8", aws.ToString(in.ContentType))
	require.Equal(t, "max-age=60", aws.ToString(in.CacheControl))
	require.Equal(t, int64(13), aws.ToInt64(in.ContentLength))
	require.Contains(t, in.Metadata, "publish-time")
	require.Equal(t, "<main></main>", client.bodies[0])
}

func TestS3SinkError(t *testing.T) {
	cause := stderrors.New("access denied")
	sink := NewS3Sink(&fakeS3{err: cause}, "b", "k")
	sink.ContentType = "text/plain"

	err := sink.Put(context.Background(), []byte("x"))
	require.True(t, errors.HasCode(err, "E152"))
	require.ErrorIs(t, err, cause)
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	c := NewS3Client("", "http://localhost:9000")
	require.Equal(t, "us-east-1", c.Options().Region)
	require.True(t, c.Options().UsePathStyle)
	require.Equal(t, "http://localhost:9000", aws.ToString(c.Options().BaseEndpoint))

	t.Setenv("AWS_ACCESS_KEY_ID", "")
	_, err := c.Options().Credentials.Retrieve(context.Background())
	require.Error(t, err)

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := NewS3Client("eu-west-1", "").Options().Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "id", creds.AccessKeyID)
}
