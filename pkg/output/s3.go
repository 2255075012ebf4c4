package output

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
)

// ObjectDeleter is the part of the S3 client the cleaner uses.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3CleanerParams struct {
	Client ObjectDeleter
	// Bucket is used for paths that do not name one as s3://bucket/key.
	Bucket string
}

// S3Cleaner deletes artifacts stored as S3 objects.
type S3Cleaner struct {
	client ObjectDeleter
	bucket string
}

func NewS3Cleaner(params S3CleanerParams) *S3Cleaner {
	return &S3Cleaner{client: params.Client, bucket: params.Bucket}
}

// NewS3Client builds a client from the default AWS credential chain. A non empty endpoint
// points the client at an S3 compatible service using path style addressing.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Clean deletes every path and reports all failures together. Deleting a missing object
// succeeds.
func (c *S3Cleaner) Clean(ctx context.Context, paths []string) error {
	var errs *multierror.Error
	for _, path := range paths {
		bucket, key, err := c.locate(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		_, err = c.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to delete s3://%s/%s: %w", bucket, key, err))
			continue
		}
		log.Ctx(ctx).Debug().Str("bucket", bucket).Str("key", key).Msg("deleted output artifact")
	}
	return errs.ErrorOrNil()
}

func (c *S3Cleaner) locate(path string) (string, string, error) {
	if rest, ok := strings.CutPrefix(path, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return "", "", fmt.Errorf("invalid s3 path %q", path)
		}
		return bucket, key, nil
	}
	if c.bucket == "" {
		return "", "", fmt.Errorf("no bucket configured for artifact %q", path)
	}
	return c.bucket, strings.TrimPrefix(path, "/"), nil
}

// compile-time check whether the S3Cleaner implementation satisfies the interface.
var _ Cleaner = (*S3Cleaner)(nil)
