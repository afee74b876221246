package manifest

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 implements Store on an S3-compatible backend (AWS S3 or MinIO). Minimal
// surface area: single bucket, keys map to object keys directly.
type S3 struct {
	client *s3.Client
	bucket string
}

// S3Config holds explicit construction parameters (mostly for tests). For prod
// we rely primarily on environment variables.
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; if set enables custom endpoint (e.g. MinIO)
	PathStyle bool
}

// Environment variables:
//   SLOTGATE_MANIFEST_DRIVER=s3
//   SLOTGATE_MANIFEST_S3_BUCKET=<bucket> (required)
//   SLOTGATE_MANIFEST_S3_REGION=<region> (default us-east-1)
//   SLOTGATE_MANIFEST_S3_ENDPOINT=<url> (optional, for MinIO)
//   SLOTGATE_MANIFEST_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// NewS3 creates an S3 manifest store from S3Config.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// OpenS3FromEnv constructs an S3 store from process environment.
func OpenS3FromEnv(ctx context.Context) (*S3, error) {
	bucket := os.Getenv("SLOTGATE_MANIFEST_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("SLOTGATE_MANIFEST_S3_BUCKET required for s3 driver")
	}
	cfg := S3Config{
		Bucket:    bucket,
		Region:    os.Getenv("SLOTGATE_MANIFEST_S3_REGION"),
		Endpoint:  os.Getenv("SLOTGATE_MANIFEST_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("SLOTGATE_MANIFEST_S3_PATH_STYLE"), "true"),
	}
	return NewS3(ctx, cfg)
}

// Driver implements Store.
func (s *S3) Driver() Driver { return DriverS3 }

// Put implements Store. Manifests are republishable, so existing objects are
// overwritten.
func (s *S3) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &k, Body: strings.NewReader(string(data))}
	if opts.ContentType != "" {
		input.ContentType = &opts.ContentType
	}
	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		return Info{}, err
	}
	info := Info{
		Key:          k,
		Size:         int64(len(data)),
		ContentType:  opts.ContentType,
		LastModified: time.Now().UTC(),
	}
	if out.ETag != nil {
		info.ETag = strings.Trim(*out.ETag, "\"")
	}
	return info, nil
}

// Get implements Store.
func (s *S3) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return Info{}, nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &k})
	if err != nil {
		return Info{}, nil, err
	}
	info := Info{Key: k}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		info.ContentType = *out.ContentType
	}
	if out.ETag != nil {
		info.ETag = strings.Trim(*out.ETag, "\"")
	}
	if out.LastModified != nil {
		info.LastModified = out.LastModified.UTC()
	}
	return info, out.Body, nil
}

// List implements Store.
func (s *S3) List(ctx context.Context, prefix string) ([]Info, error) {
	var out []Info
	var token *string
	for {
		input := &s3.ListObjectsV2Input{Bucket: &s.bucket, ContinuationToken: token}
		if prefix != "" {
			input.Prefix = &prefix
		}
		page, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			info := Info{}
			if obj.Key != nil {
				info.Key = *obj.Key
			}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			if obj.ETag != nil {
				info.ETag = strings.Trim(*obj.ETag, "\"")
			}
			if obj.LastModified != nil {
				info.LastModified = obj.LastModified.UTC()
			}
			out = append(out, info)
		}
		if page.IsTruncated == nil || !*page.IsTruncated {
			break
		}
		token = page.NextContinuationToken
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
