package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vnode/internal/errors"
)

// PutObjectAPI is the part of *s3.Client that S3Sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads markup to an S3 object.
//
// Example usage:
//
//	client := publish.NewS3Client("eu-west-1", "")
//	sink := publish.NewS3Sink(client, "my-site", "index.html")
//	res, err := publish.Publish(ctx, sink, html)
type S3Sink struct {
	client PutObjectAPI
	bucket string
	key    string

	// ContentType defaults to text/html; charset=utf-8.
	ContentType  string
	CacheControl string
}

// NewS3Sink creates an S3Sink.
func NewS3Sink(client PutObjectAPI, bucket, key string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, key: key}
}

func (s *S3Sink) Put(ctx context.Context, body []byte) error {
	contentType := s.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"publish-time": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if s.CacheControl != "" {
		in.CacheControl = aws.String(s.CacheControl)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return errors.New("E152").Wrap(fmt.Errorf("s3 upload failed: %w", err)).
			WithSuggestion("Check the bucket name, region and AWS credentials")
	}
	return nil
}

func (s *S3Sink) Target() Target {
	return Target{Kind: KindS3, Bucket: s.bucket, Key: s.key}
}

// NewS3Client builds an S3 client with credentials from the standard AWS_*
// environment variables. A non-empty endpoint selects path-style addressing
// for S3-compatible stores. An empty region falls back to AWS_REGION and
// then us-east-1.
func NewS3Client(region, endpoint string) *s3.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}
