package oss

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"NewTube.com/config"
	"NewTube.com/pkg/breaker"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	Region        string
	PublicBaseURL string
	FetchTimeout  time.Duration
}

func FromConfig() Options {
	c := config.ConfigInfo.Minio
	return Options{
		Endpoint:      c.Endpoint,
		AccessKey:     c.AccessKey,
		SecretKey:     c.SecretKey,
		UseSSL:        c.UseSSL,
		Bucket:        c.Bucket,
		Region:        c.Region,
		PublicBaseURL: c.PublicBaseURL,
	}
}

// NewStorage 连接MinIO并确保存储桶存在
func NewStorage(ctx context.Context, opts Options) (*Storage, error) {
	hlog.Infof("Initializing MinIO client with endpoint: %s, bucket: %s", opts.Endpoint, opts.Bucket)
	minioClient, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client failed")
	}

	exists, err := minioClient.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %s failed", opts.Bucket)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s failed", opts.Bucket)
		}
		hlog.Infof("Created bucket: %s", opts.Bucket)
	}

	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	fetcher, err := client.NewClient(
		client.WithDialer(standard.NewDialer()),
		client.WithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
		client.WithDialTimeout(opts.FetchTimeout),
		client.WithClientReadTimeout(opts.FetchTimeout),
	)
	if err != nil {
		return nil, errors.WithMessage(err, "create fetch client failed")
	}

	hlog.Info("Connect Minio Success")
	return &Storage{
		client:  minioClient,
		bucket:  opts.Bucket,
		baseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		fetcher: fetcher,
		breaker: breaker.New[*fetched]("asset-fetch"),
	}, nil
}
