package modules

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Registry resolves modules from objects in an S3 bucket. The module
// name maps to a key as prefix + name + ".js".
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	reg := modules.NewS3Registry(s3.NewFromConfig(cfg), "my-bucket", "modules/")
type S3Registry struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Registry creates a registry over the given bucket and key prefix.
func NewS3Registry(client *s3.Client, bucket, prefix string) *S3Registry {
	return &S3Registry{client: client, bucket: bucket, prefix: prefix}
}

// Resolve implements Registry by fetching the module object.
func (r *S3Registry) Resolve(ctx context.Context, name string) ([]byte, error) {
	key := r.prefix + name + ".js"
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("modules: fetch %q: %w", key, err)
	}
	defer out.Body.Close()

	src, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("modules: read %q: %w", key, err)
	}
	return src, nil
}
