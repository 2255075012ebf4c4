//go:build unit || !integration

package output

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	deleted []string
	fail    map[string]bool
}

func (f *fakeDeleter) DeleteObject(
	_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	path := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	if f.fail[path] {
		return nil, errors.New("access denied")
	}
	f.deleted = append(f.deleted, path)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3CleanerResolvesPaths(t *testing.T) {
	deleter := &fakeDeleter{}
	cleaner := NewS3Cleaner(S3CleanerParams{Client: deleter, Bucket: "outputs"})

	err := cleaner.Clean(context.Background(), []string{"s3://archive/job/1/stdout", "/job/1/stderr", "job/1/log"})
	require.NoError(t, err)
	assert.Equal(t, []string{"archive/job/1/stdout", "outputs/job/1/stderr", "outputs/job/1/log"}, deleter.deleted)
}

func TestS3CleanerCollectsFailures(t *testing.T) {
	deleter := &fakeDeleter{fail: map[string]bool{"outputs/a": true}}
	cleaner := NewS3Cleaner(S3CleanerParams{Client: deleter, Bucket: "outputs"})

	err := cleaner.Clean(context.Background(), []string{"a", "s3://bad", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "invalid s3 path")
	assert.Equal(t, []string{"outputs/b"}, deleter.deleted)
}

func TestS3CleanerWithoutBucket(t *testing.T) {
	cleaner := NewS3Cleaner(S3CleanerParams{Client: &fakeDeleter{}})
	assert.Error(t, cleaner.Clean(context.Background(), []string{"a"}))
	assert.NoError(t, NoopCleaner{}.Clean(context.Background(), []string{"a"}))
}
