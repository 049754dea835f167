package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const DefaultRegion = "us-east-1"

// S3API is the part of *s3.Client the store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Settings struct {
	Bucket string
	Prefix string
	Region string
}

type s3Store struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Store(client S3API, bucket, prefix string) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	return &s3Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// NewS3StoreFromConfig builds the client from the default AWS credential chain.
func NewS3StoreFromConfig(ctx context.Context, settings S3Settings) (Store, error) {
	region := settings.Region
	if region == "" {
		region = DefaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return NewS3Store(s3.NewFromConfig(cfg), settings.Bucket, settings.Prefix)
}

func (s *s3Store) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	cleaned, err := cleanName(name)
	if err != nil {
		return "", err
	}

	// PutObject needs a seekable body to sign the payload.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read asset %s: %w", cleaned, err)
	}

	key := path.Join(s.prefix, cleaned)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put s3 object %s: %w", key, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

func (s *s3Store) Open(ctx context.Context, ref string) ([]byte, error) {
	bucket, key := s.locate(ref)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(bucket),
		Key:    awssdk.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get s3 object %s: %w", ref, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object %s: %w", ref, err)
	}
	return data, nil
}

// locate accepts either an s3://bucket/key reference or a bare key relative to
// the configured prefix.
func (s *s3Store) locate(ref string) (string, string) {
	if rest, ok := strings.CutPrefix(ref, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		return bucket, key
	}
	return s.bucket, path.Join(s.prefix, strings.TrimPrefix(ref, "/"))
}
