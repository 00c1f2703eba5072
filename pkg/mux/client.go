package mux

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"NewTube.com/pkg/breaker"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://api.mux.com"

// ErrNotFound 上传或资源在Mux侧不存在
var ErrNotFound = errors.New("mux: resource not found")

type Config struct {
	BaseURL     string
	TokenId     string
	TokenSecret string
	CorsOrigin  string
	Timeout     time.Duration
}

type Upload struct {
	Id      string `json:"id"`
	Url     string `json:"url"`
	Status  string `json:"status"`
	AssetId string `json:"asset_id"`
}

type PlaybackId struct {
	Id     string `json:"id"`
	Policy string `json:"policy"`
}

type Asset struct {
	Id          string       `json:"id"`
	Status      string       `json:"status"`
	UploadId    string       `json:"upload_id"`
	PlaybackIds []PlaybackId `json:"playback_ids"`
	// 秒
	Duration float64 `json:"duration"`
}

// PlaybackId 第一个播放id, 没有时为空
func (a *Asset) PlaybackId() string {
	if len(a.PlaybackIds) == 0 {
		return ""
	}
	return a.PlaybackIds[0].Id
}

func (a *Asset) DurationMillis() int64 {
	return DurationMillis(a.Duration)
}

func DurationMillis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}

// Client Mux Video API, 所有请求经过熔断器
type Client struct {
	cfg     Config
	auth    string
	cli     *client.Client
	breaker *breaker.Breaker[[]byte]
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	cli, err := client.NewClient(
		client.WithDialer(standard.NewDialer()),
		client.WithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
		client.WithDialTimeout(cfg.Timeout),
		client.WithClientReadTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, errors.WithMessage(err, "create mux http client failed")
	}
	return &Client{
		cfg:     cfg,
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.TokenId+":"+cfg.TokenSecret)),
		cli:     cli,
		breaker: breaker.New[[]byte]("mux-api", ErrNotFound),
	}, nil
}

type generatedSubtitle struct {
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
}

type assetInput struct {
	GeneratedSubtitles []generatedSubtitle `json:"generated_subtitles"`
}

type newAssetSettings struct {
	Passthrough    string       `json:"passthrough"`
	PlaybackPolicy []string     `json:"playback_policy"`
	Input          []assetInput `json:"input"`
}

type createUploadRequest struct {
	CorsOrigin       string           `json:"cors_origin"`
	NewAssetSettings newAssetSettings `json:"new_asset_settings"`
}

// CreateUpload 创建直传地址, passthrough 为上传者id
func (c *Client) CreateUpload(ctx context.Context, passthrough string) (*Upload, error) {
	body, err := json.Marshal(createUploadRequest{
		CorsOrigin: c.cfg.CorsOrigin,
		NewAssetSettings: newAssetSettings{
			Passthrough:    passthrough,
			PlaybackPolicy: []string{"public"},
			Input: []assetInput{{
				GeneratedSubtitles: []generatedSubtitle{{
					LanguageCode: constants.MuxSubtitleLanguage,
					Name:         constants.MuxSubtitleName,
				}},
			}},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal upload request failed")
	}
	var upload Upload
	if err := c.call(ctx, consts.MethodPost, "/video/v1/uploads", body, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

func (c *Client) RetrieveUpload(ctx context.Context, uploadId string) (*Upload, error) {
	var upload Upload
	if err := c.call(ctx, consts.MethodGet, "/video/v1/uploads/"+uploadId, nil, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

func (c *Client) RetrieveAsset(ctx context.Context, assetId string) (*Asset, error) {
	var asset Asset
	if err := c.call(ctx, consts.MethodGet, "/video/v1/assets/"+assetId, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, out interface{}) error {
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, method, path, body)
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return errno.ExternalServiceErr.WithMessage(fmt.Sprintf("mux %s %s: %v", method, path, err))
	}
	var env dataEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errno.ExternalServiceErr.WithMessage("mux returned malformed body: " + err.Error())
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errno.ExternalServiceErr.WithMessage("mux returned malformed data: " + err.Error())
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, resp := protocol.AcquireRequest(), protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(method)
	req.SetRequestURI(c.cfg.BaseURL + path)
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(body)
	}

	if err := c.cli.Do(ctx, req, resp); err != nil {
		return nil, err
	}
	switch code := resp.StatusCode(); {
	case code == consts.StatusNotFound:
		return nil, ErrNotFound
	case code < 200 || code >= 300:
		return nil, errors.Errorf("unexpected status %d", code)
	}
	// resp 会被回收, 复制一份
	return append([]byte(nil), resp.Body()...), nil
}
