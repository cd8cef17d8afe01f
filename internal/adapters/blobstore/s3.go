// Package blobstore implements ports.BlobStore on S3-compatible storage and in memory.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BlobStore = (*S3Store)(nil)

const (
	codeNoSuchKey    = "NoSuchKey"
	codeNoSuchBucket = "NoSuchBucket"
	defaultRegion    = "us-east-1"
	defaultType      = "application/octet-stream"
)

// S3Config configures an S3Store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PageSize bounds the keys returned per List call.
	PageSize int
}

// S3Store is a BlobStore backed by an S3-compatible service.
type S3Store struct {
	client   *minio.Client
	core     *minio.Core
	pageSize int
}

// NewS3Store creates a store talking to cfg.Endpoint. No request is made until first use.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, zerr.Wrap(domain.ErrConfigInvalid, "s3 endpoint is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	var creds *credentials.Credentials
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
		})
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create s3 client"), "endpoint", endpoint)
	}

	return &S3Store{
		client:   client,
		core:     &minio.Core{Client: client},
		pageSize: cfg.PageSize,
	}, nil
}

// Get returns the object stored under key, or domain.ErrObjectNotFound.
func (s *S3Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.getError(err, bucket, key)
	}
	defer obj.Close() //nolint:errcheck // read-only object

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.getError(err, bucket, key)
	}
	return data, nil
}

func (s *S3Store) getError(err error, bucket, key string) error {
	wrapped := zerr.Wrap(err, domain.ErrStorageGetFailed.Error())
	switch minio.ToErrorResponse(err).Code {
	case codeNoSuchKey, codeNoSuchBucket:
		wrapped = zerr.Wrap(domain.ErrObjectNotFound, err.Error())
	}
	return zerr.With(zerr.With(wrapped, domain.MetaBucket, bucket), domain.MetaKey, key)
}

// Put stores body under key with a content type derived from the key's extension.
func (s *S3Store) Put(ctx context.Context, bucket, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType(key),
	})
	if err != nil {
		err = zerr.Wrap(err, domain.ErrStoragePutFailed.Error())
		return zerr.With(zerr.With(err, domain.MetaBucket, bucket), domain.MetaKey, key)
	}
	return nil
}

// List returns one page of the keys in bucket using ListObjectsV2 continuation tokens.
func (s *S3Store) List(ctx context.Context, bucket, continuationToken string) (domain.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ListPage{}, zerr.With(zerr.Wrap(err, domain.ErrStorageListFailed.Error()), domain.MetaBucket, bucket)
	}

	res, err := s.core.ListObjectsV2(bucket, "", "", continuationToken, "", s.pageSize)
	if err != nil {
		return domain.ListPage{}, zerr.With(zerr.Wrap(err, domain.ErrStorageListFailed.Error()), domain.MetaBucket, bucket)
	}

	page := domain.ListPage{
		Keys:                  make([]string, 0, len(res.Contents)),
		NextContinuationToken: res.NextContinuationToken,
		IsTruncated:           res.IsTruncated,
	}
	for _, obj := range res.Contents {
		page.Keys = append(page.Keys, obj.Key)
	}
	if page.IsTruncated && page.NextContinuationToken == "" {
		return domain.ListPage{}, zerr.With(
			zerr.Wrap(errors.New("truncated listing without continuation token"), domain.ErrStorageListFailed.Error()),
			domain.MetaBucket, bucket,
		)
	}
	return page, nil
}

func contentType(key string) string {
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return defaultType
}
