// Package publish writes rendered markup to standard output, files or S3.
//
// Targets are parsed from strings:
//
//	-                   standard output
//	out/index.html      a file, replaced atomically
//	s3://bucket/key     an S3 object; a trailing slash appends index.html
//
// Publish returns the size and SHA-256 digest of what was written so callers
// can record it.
package publish
