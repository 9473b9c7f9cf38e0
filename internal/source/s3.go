// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type (
	// S3API is the slice of the S3 client the fetcher needs. *s3.Client
	// satisfies it; tests supply fakes.
	S3API interface {
		GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	}

	// S3Fetcher fetches artifact bodies from S3.
	S3Fetcher struct {
		client S3API
	}
)

// NewS3Fetcher creates a Fetcher backed by the given S3 client.
func NewS3Fetcher(client S3API) *S3Fetcher {
	return &S3Fetcher{client: client}
}

// Fetch downloads one object and returns its full body. Any S3 or read
// failure wraps ErrUnavailable so callers can skip the artifact uniformly.
func (f *S3Fetcher) Fetch(ctx context.Context, ref Ref) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get s3://%s/%s: %w", ErrUnavailable, ref.Bucket, ref.Key, err)
	}
	defer func() { _ = out.Body.Close() }()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read s3://%s/%s: %w", ErrUnavailable, ref.Bucket, ref.Key, err)
	}
	return body, nil
}
