package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/cmd/video/dal/db"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/database"
	"NewTube.com/pkg/mq"
	"NewTube.com/pkg/mux"
	"NewTube.com/pkg/oss"
	"github.com/pkg/errors"
)

const (
	creatorId = "00000000-0000-0000-0000-00000000c001"
	otherId   = "00000000-0000-0000-0000-00000000c002"
	videoId   = "00000000-0000-0000-0000-00000000000a"
	uploadId  = "upload-1"
	secret    = "whsec_test"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakePipeline struct {
	upload *mux.Upload
	asset  *mux.Asset
	err    error
}

func (f *fakePipeline) CreateUpload(ctx context.Context, passthrough string) (*mux.Upload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.upload, nil
}

func (f *fakePipeline) RetrieveUpload(ctx context.Context, uploadId string) (*mux.Upload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.upload, nil
}

func (f *fakePipeline) RetrieveAsset(ctx context.Context, assetId string) (*mux.Asset, error) {
	if f.asset == nil {
		return nil, mux.ErrNotFound
	}
	return f.asset, nil
}

type fakeBlobs struct {
	mu       sync.Mutex
	fail     bool
	uploaded []string
	deleted  []string
}

func (f *fakeBlobs) UploadFromURL(ctx context.Context, srcURL, key string) (*oss.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("fetch failed")
	}
	f.uploaded = append(f.uploaded, srcURL)
	return &oss.File{Key: key, Url: "https://cdn.test/" + key}, nil
}

func (f *fakeBlobs) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, keys...)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	videos []*mq.VideoEvent
}

func (f *fakePublisher) PublishVideoEvent(ctx context.Context, event *mq.VideoEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos = append(f.videos, event)
	return nil
}

func (f *fakePublisher) PublishReactionEvent(ctx context.Context, event *mq.ReactionEvent) error {
	return nil
}

type fixture struct {
	ctx       context.Context
	pipeline  *fakePipeline
	blobs     *fakeBlobs
	publisher *fakePublisher
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db.Init(database.NewTestDB(t))
	for _, u := range []model.User{
		{Id: creatorId, ExternalId: "ext_creator", Name: "creator"},
		{Id: otherId, ExternalId: "ext_other", Name: "other"},
	} {
		u := u
		if err := db.DB.Create(&u).Error; err != nil {
			t.Fatal(err)
		}
	}
	f := &fixture{
		ctx:       context.Background(),
		pipeline:  &fakePipeline{},
		blobs:     &fakeBlobs{},
		publisher: &fakePublisher{},
	}
	Init(Deps{
		Pipeline:           f.pipeline,
		Blobs:              f.blobs,
		Publisher:          f.publisher,
		WebhookSecret:      secret,
		SignatureTolerance: mux.DefaultTolerance,
		Now:                func() time.Time { return now },
	})
	return f
}

func seedUploadedVideo(t *testing.T) {
	t.Helper()
	upload := uploadId
	video := &model.Video{
		Id:          videoId,
		UserId:      creatorId,
		Title:       constants.DefaultVideoTitle,
		Visibility:  constants.VisibilityPrivate,
		MuxStatus:   constants.VideoStatusWaiting,
		MuxUploadId: &upload,
		CreatedAt:   now.Add(-time.Hour),
		UpdatedAt:   now.Add(-time.Hour),
	}
	if err := db.DB.Create(video).Error; err != nil {
		t.Fatal(err)
	}
}

func loadVideo(t *testing.T) *model.Video {
	t.Helper()
	video, err := db.GetVideo(context.Background(), videoId)
	if err != nil {
		t.Fatal(err)
	}
	return video
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
