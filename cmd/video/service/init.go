package service

import (
	"context"
	"time"

	"NewTube.com/pkg/mq"
	"NewTube.com/pkg/mux"
	"NewTube.com/pkg/oss"
)

// Pipeline Mux Video API
type Pipeline interface {
	CreateUpload(ctx context.Context, passthrough string) (*mux.Upload, error)
	RetrieveUpload(ctx context.Context, uploadId string) (*mux.Upload, error)
	RetrieveAsset(ctx context.Context, assetId string) (*mux.Asset, error)
}

// BlobStore 保存封面和预览图
type BlobStore interface {
	UploadFromURL(ctx context.Context, srcURL, key string) (*oss.File, error)
	Delete(ctx context.Context, keys ...string) error
}

type Deps struct {
	Pipeline           Pipeline
	Blobs              BlobStore
	Publisher          mq.Publisher
	WebhookSecret      string
	SignatureTolerance time.Duration
	Now                func() time.Time
}

var deps = Deps{Publisher: mq.Noop{}, Now: time.Now}

func Init(d Deps) {
	if d.Publisher == nil {
		d.Publisher = mq.Noop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	deps = d
}
