package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/rvec/blobstore"
	"github.com/hupe1980/rvec/blobstore/minio"
	s3store "github.com/hupe1980/rvec/blobstore/s3"
	"github.com/hupe1980/rvec/blobstore/sqlite"
	"github.com/hupe1980/rvec/internal/cache"
	"github.com/hupe1980/rvec/resource"
)

// Open builds the blob store described by s. The caller closes stores that
// implement io.Closer. Remote stores are wrapped in a
// block cache charged to rc when BlockCacheBytes is positive.
func (s Storage) Open(ctx context.Context, rc *resource.Controller) (blobstore.Store, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var (
		store  blobstore.Store
		remote bool
	)
	switch s.Backend {
	case "", BackendMemory:
		return blobstore.NewMemoryStore(), nil
	case BackendLocal:
		return blobstore.NewLocalStore(s.Path), nil
	case BackendSQLite:
		st, err := sqlite.Open(ctx, s.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case BackendS3:
		st, err := s.openS3(ctx)
		if err != nil {
			return nil, err
		}
		store, remote = st, true
	case BackendMinio:
		client, err := miniogo.New(s.Endpoint, &miniogo.Options{
			Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
			Secure: s.UseSSL,
			Region: s.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		store, remote = minio.NewStore(client, s.Bucket, s.Prefix), true
	}

	if remote && s.BlockCacheBytes > 0 {
		store = blobstore.NewCachingStore(store, cache.NewLRUBlockCache(s.BlockCacheBytes, rc), s.BlockSize)
	}
	return store, nil
}

func (s Storage) openS3(ctx context.Context) (blobstore.Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if s.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})
	st := s3store.NewStore(client, s.Bucket, s.Prefix)
	if s.DynamoDBTable == "" {
		return st, nil
	}
	baseURI := "s3://" + path.Join(s.Bucket, s.Prefix) + "/"
	return s3store.NewDDBCommitStore(st, dynamodb.NewFromConfig(awsCfg), s.DynamoDBTable, baseURI), nil
}
