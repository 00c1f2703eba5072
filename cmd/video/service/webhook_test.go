package service

import (
	"testing"
	"time"

	"NewTube.com/cmd/video/dal/db"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/mux"
	"NewTube.com/pkg/oss"
)

const readyBody = `{"type":"video.asset.ready","data":{"id":"asset-1","upload_id":"upload-1","status":"ready","duration":12.3456,"playback_ids":[{"id":"pb-1","policy":"public"}]}}`

func receive(f *fixture, body string) error {
	header := mux.SignatureHeader([]byte(body), secret, now)
	return NewWebhookService(f.ctx).Receive(header, []byte(body))
}

func TestWebhookReceiveRejects(t *testing.T) {
	f := setup(t)
	seedUploadedVideo(t)

	t.Run("MissingHeader", func(t *testing.T) {
		err := NewWebhookService(f.ctx).Receive("", []byte(readyBody))
		if !errno.Is(err, errno.SignatureErr) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("BadSignature", func(t *testing.T) {
		header := mux.SignatureHeader([]byte(readyBody), "wrong", now)
		err := NewWebhookService(f.ctx).Receive(header, []byte(readyBody))
		if !errno.Is(err, errno.SignatureErr) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("EmptyBody", func(t *testing.T) {
		if err := receive(f, ""); !errno.Is(err, errno.ParamErr) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("MissingPlaybackId", func(t *testing.T) {
		body := `{"type":"video.asset.ready","data":{"id":"asset-1","upload_id":"upload-1","status":"ready","playback_ids":[]}}`
		if err := receive(f, body); !errno.Is(err, errno.ParamErr) {
			t.Fatalf("err = %v", err)
		}
	})

	// 被拒绝的请求不能修改任何数据
	if video := loadVideo(t); video.MuxStatus != "waiting" || video.MuxPlaybackId != nil {
		t.Fatalf("video changed: %+v", video)
	}
}

func TestWebhookAssetReady(t *testing.T) {
	f := setup(t)
	seedUploadedVideo(t)
	before := loadVideo(t).UpdatedAt

	for i := 0; i < 2; i++ {
		if err := receive(f, readyBody); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
	}

	video := loadVideo(t)
	if video.MuxStatus != "ready" || deref(video.MuxAssetId) != "asset-1" || deref(video.MuxPlaybackId) != "pb-1" {
		t.Fatalf("video = %+v", video)
	}
	if video.Duration != 12346 {
		t.Errorf("duration = %d, want 12346", video.Duration)
	}
	if deref(video.ThumbnailKey) != oss.ThumbnailKey(videoId) || deref(video.PreviewKey) != oss.PreviewKey(videoId) {
		t.Errorf("keys = %s %s", deref(video.ThumbnailKey), deref(video.PreviewKey))
	}
	if deref(video.ThumbnailUrl) != "https://cdn.test/"+oss.ThumbnailKey(videoId) {
		t.Errorf("thumbnail url = %s", deref(video.ThumbnailUrl))
	}
	if !video.UpdatedAt.Equal(before) {
		t.Errorf("updated_at moved from %v to %v", before, video.UpdatedAt)
	}
	if len(f.blobs.uploaded) != 4 || f.blobs.uploaded[0] != mux.ThumbnailURL("pb-1") || f.blobs.uploaded[1] != mux.PreviewURL("pb-1") {
		t.Errorf("uploaded = %v", f.blobs.uploaded)
	}
	// 固定key, 重放不会删除刚写入的对象
	if len(f.blobs.deleted) != 0 {
		t.Errorf("deleted = %v", f.blobs.deleted)
	}
	if len(f.publisher.videos) != 2 {
		t.Errorf("published %d events", len(f.publisher.videos))
	}
}

func TestWebhookAssetReadyBlobFailure(t *testing.T) {
	f := setup(t)
	seedUploadedVideo(t)
	f.blobs.fail = true

	if err := receive(f, readyBody); !errno.Is(err, errno.ExternalServiceErr) {
		t.Fatalf("err = %v", err)
	}
	video := loadVideo(t)
	if video.MuxStatus != "ready" || deref(video.MuxAssetId) != "asset-1" {
		t.Errorf("status step not applied: %+v", video)
	}
	if video.MuxPlaybackId != nil || video.ThumbnailUrl != nil {
		t.Errorf("playback id must stay unset: %+v", video)
	}
}

func TestWebhookUnknownUpload(t *testing.T) {
	f := setup(t)
	seedUploadedVideo(t)

	for _, body := range []string{
		`{"type":"video.asset.created","data":{"id":"asset-x","upload_id":"nope","status":"preparing"}}`,
		`{"type":"video.asset.ready","data":{"id":"asset-x","upload_id":"nope","status":"ready","playback_ids":[{"id":"pb-x"}]}}`,
		`{"type":"video.asset.errored","data":{"upload_id":"nope","status":"errored"}}`,
		`{"type":"video.asset.deleted","data":{"id":"asset-x","upload_id":"nope"}}`,
		`{"type":"video.asset.track.ready","data":{"id":"track-x","asset_id":"nope","status":"ready"}}`,
		`{"type":"video.upload.cancelled","data":{"id":"x"}}`,
	} {
		if err := receive(f, body); err != nil {
			t.Fatalf("%s: %v", body, err)
		}
	}
	if video := loadVideo(t); video.MuxStatus != "waiting" {
		t.Errorf("status = %s", video.MuxStatus)
	}
	if len(f.blobs.uploaded) != 0 || len(f.publisher.videos) != 0 {
		t.Errorf("side effects: uploaded=%v published=%d", f.blobs.uploaded, len(f.publisher.videos))
	}
}

func TestWebhookLifecycle(t *testing.T) {
	f := setup(t)
	seedUploadedVideo(t)

	t.Run("Created", func(t *testing.T) {
		body := `{"type":"video.asset.created","data":{"id":"asset-1","upload_id":"upload-1","status":"preparing"}}`
		if err := receive(f, body); err != nil {
			t.Fatal(err)
		}
		video := loadVideo(t)
		if video.MuxStatus != "preparing" || deref(video.MuxAssetId) != "asset-1" {
			t.Fatalf("video = %+v", video)
		}
	})

	t.Run("TrackReady", func(t *testing.T) {
		body := `{"type":"video.asset.track.ready","data":{"id":"track-1","asset_id":"asset-1","status":"ready"}}`
		if err := receive(f, body); err != nil {
			t.Fatal(err)
		}
		video := loadVideo(t)
		if deref(video.MuxTrackId) != "track-1" || deref(video.MuxTrackStatus) != "ready" {
			t.Fatalf("video = %+v", video)
		}
	})

	t.Run("Errored", func(t *testing.T) {
		body := `{"type":"video.asset.errored","data":{"upload_id":"upload-1","status":"errored"}}`
		if err := receive(f, body); err != nil {
			t.Fatal(err)
		}
		if video := loadVideo(t); video.MuxStatus != "errored" {
			t.Fatalf("status = %s", video.MuxStatus)
		}
	})

	t.Run("Deleted", func(t *testing.T) {
		if _, err := db.UpdateByUploadId(f.ctx, uploadId, map[string]interface{}{"thumbnail_key": "thumb-key"}); err != nil {
			t.Fatal(err)
		}
		body := `{"type":"video.asset.deleted","data":{"id":"asset-1","upload_id":"upload-1"}}`
		for i := 0; i < 2; i++ {
			if err := receive(f, body); err != nil {
				t.Fatalf("delivery %d: %v", i, err)
			}
		}
		if _, err := db.GetVideo(f.ctx, videoId); !errno.Is(err, errno.NotFoundErr) {
			t.Fatalf("err = %v", err)
		}
		if len(f.blobs.deleted) != 1 || f.blobs.deleted[0] != "thumb-key" {
			t.Errorf("deleted = %v", f.blobs.deleted)
		}
	})
}

func TestWebhookExpiredSignature(t *testing.T) {
	f := setup(t)
	header := mux.SignatureHeader([]byte(readyBody), secret, now.Add(-time.Hour))
	err := NewWebhookService(f.ctx).Receive(header, []byte(readyBody))
	if !errno.Is(err, errno.SignatureErr) {
		t.Fatalf("err = %v", err)
	}
}
