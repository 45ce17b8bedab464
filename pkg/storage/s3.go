package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/google/uuid"
)

// Config S3 호환 버킷 설정 (AWS S3, R2, MinIO)
type Config struct {
	Endpoint        string // 비어 있으면 AWS 기본 엔드포인트
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string // 설정 시 공개 URL 의 기준
	BasePath        string // 모든 키 앞에 붙는 prefix
	ForcePathStyle  bool
}

// Object is a stored object and the address clients fetch it from
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Bucket stores profile pictures in one S3-compatible bucket
type Bucket struct {
	client   *s3.Client
	name     string
	basePath string
	baseURL  string
}

// New builds a Bucket. Credentials are static; no request is made here.
func New(cfg Config) (*Bucket, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.ForcePathStyle,
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	b := &Bucket{
		client:   client,
		name:     cfg.Bucket,
		basePath: strings.Trim(cfg.BasePath, "/"),
		baseURL:  publicBase(cfg),
	}

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Str("public_base", b.baseURL).
		Msg("avatar bucket ready")
	return b, nil
}

// publicBase CDN > path-style 엔드포인트 > AWS virtual-host 순
func publicBase(cfg Config) string {
	switch {
	case cfg.CDNURL != "":
		return strings.TrimRight(cfg.CDNURL, "/")
	case cfg.Endpoint != "" && cfg.ForcePathStyle:
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}
}

// fullKey prefixes key with the configured base path
func (b *Bucket) fullKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if b.basePath == "" {
		return key
	}
	return b.basePath + "/" + key
}

// Put uploads body under key and returns where it can be fetched
func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*Object, error) {
	full := b.fullKey(key)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(full),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := b.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("put object %s: %w", full, err)
	}

	return &Object{
		Key:         full,
		URL:         b.baseURL + "/" + full,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Remove deletes an object by the Key returned from Put
func (b *Bucket) Remove(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// ObjectKey builds "<prefix>/<uuid><ext>". Only the lower-cased extension of
// filename survives, and only when it is plain alphanumeric.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if !isSimpleExt(ext) {
		ext = ""
	}
	return strings.Trim(prefix, "/") + "/" + uuid.NewString() + ext
}

func isSimpleExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
