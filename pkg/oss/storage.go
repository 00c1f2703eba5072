package oss

import (
	"bytes"
	"context"

	"NewTube.com/pkg/breaker"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// File 已保存的对象
type File struct {
	Key string `json:"key"`
	Url string `json:"url"`
}

// Storage MinIO 上的公开资源(封面/预览)
type Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	fetcher *client.Client
	breaker *breaker.Breaker[*fetched]
}

type fetched struct {
	body        []byte
	contentType string
}

// UploadFromURL 下载 srcURL 并以 key 保存, 同一key重复上传会覆盖
func (s *Storage) UploadFromURL(ctx context.Context, srcURL, key string) (*File, error) {
	f, err := s.breaker.Execute(func() (*fetched, error) {
		return s.fetch(ctx, srcURL)
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "fetch %s failed", srcURL)
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(f.body), int64(len(f.body)), minio.PutObjectOptions{
		ContentType: f.contentType,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "put object %s failed", key)
	}
	return &File{Key: key, Url: s.URL(key)}, nil
}

// Delete 删除对象, 对象不存在不算错误
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return errors.Wrapf(err, "remove object %s failed", key)
		}
	}
	return nil
}

func (s *Storage) URL(key string) string {
	return s.baseURL + "/" + s.bucket + "/" + key
}

func (s *Storage) fetch(ctx context.Context, srcURL string) (*fetched, error) {
	req, resp := protocol.AcquireRequest(), protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()
	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(srcURL)
	if err := s.fetcher.Do(ctx, req, resp); err != nil {
		return nil, err
	}
	if code := resp.StatusCode(); code != consts.StatusOK {
		return nil, errors.Errorf("unexpected status %d", code)
	}
	contentType := string(resp.Header.ContentType())
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &fetched{body: append([]byte(nil), resp.Body()...), contentType: contentType}, nil
}
