package mux

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"NewTube.com/pkg/errno"
)

const secret = "whsec_test"

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"video.asset.ready","data":{}}`)
	now := time.Unix(1760000000, 0)

	t.Run("Valid", func(t *testing.T) {
		header := SignatureHeader(body, secret, now.Add(-time.Minute))
		if err := VerifySignature(header, body, secret, DefaultTolerance, now); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("SecondSignatureMatches", func(t *testing.T) {
		ts, v1, _ := strings.Cut(SignatureHeader(body, secret, now), ",")
		header := ts + ",v1=deadbeef," + v1
		if err := VerifySignature(header, body, secret, DefaultTolerance, now); err != nil {
			t.Fatal(err)
		}
	})

	for _, tc := range []struct {
		name   string
		header string
		body   []byte
		secret string
		want   errno.ErrNo
	}{
		{"TamperedBody", SignatureHeader(body, secret, now), []byte(`{"type":"x"}`), secret, errno.SignatureErr},
		{"WrongSecret", SignatureHeader(body, "other", now), body, secret, errno.SignatureErr},
		{"Expired", SignatureHeader(body, secret, now.Add(-10*time.Minute)), body, secret, errno.SignatureErr},
		{"FromFuture", SignatureHeader(body, secret, now.Add(10*time.Minute)), body, secret, errno.SignatureErr},
		{"Malformed", "garbage", body, secret, errno.SignatureErr},
		{"NoV1", "t=1760000000", body, secret, errno.SignatureErr},
		{"BadHex", "t=1760000000,v1=zz", body, secret, errno.SignatureErr},
		{"NoSecret", SignatureHeader(body, secret, now), body, "", errno.ServiceErr},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifySignature(tc.header, tc.body, tc.secret, DefaultTolerance, now)
			if !errno.Is(err, tc.want) {
				t.Fatalf("err = %v, want code %d", err, tc.want.ErrCode)
			}
		})
	}
}

func TestParseEnvelope(t *testing.T) {
	for _, body := range []string{"", "   ", "not json", `[1,2]`, `{"data":{}}`, `{"type":"video.asset.ready"}`, `{"type":"x","data":null}`} {
		if _, err := ParseEnvelope([]byte(body)); !errno.Is(err, errno.ParamErr) {
			t.Errorf("ParseEnvelope(%q) err = %v, want ParamErr", body, err)
		}
	}
	env, err := ParseEnvelope([]byte(`{"type":"video.asset.created","data":{"id":"a1"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if env.Type != TypeAssetCreated {
		t.Errorf("type = %s", env.Type)
	}
}

func decode(t *testing.T, body string) (Event, error) {
	t.Helper()
	env, err := ParseEnvelope([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	return DecodeEvent(env)
}

func TestDecodeEvent(t *testing.T) {
	t.Run("AssetReady", func(t *testing.T) {
		ev, err := decode(t, `{"type":"video.asset.ready","data":{"id":"asset1","upload_id":"up1","status":"ready","duration":12.3456,"playback_ids":[{"id":"pb1","policy":"public"}]}}`)
		if err != nil {
			t.Fatal(err)
		}
		ready, ok := ev.(*AssetReadyEvent)
		if !ok {
			t.Fatalf("event = %T", ev)
		}
		if ready.UploadId != "up1" || ready.AssetId != "asset1" || ready.PlaybackId != "pb1" || ready.Duration != 12346 {
			t.Errorf("ready = %+v", ready)
		}
	})

	t.Run("TrackReady", func(t *testing.T) {
		ev, err := decode(t, `{"type":"video.asset.track.ready","data":{"id":"track1","asset_id":"asset1","status":"ready"}}`)
		if err != nil {
			t.Fatal(err)
		}
		if tr, ok := ev.(*TrackReadyEvent); !ok || tr.AssetId != "asset1" || tr.TrackId != "track1" {
			t.Fatalf("event = %#v", ev)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		ev, err := decode(t, `{"type":"video.live_stream.idle","data":{}}`)
		if err != nil {
			t.Fatal(err)
		}
		if u, ok := ev.(*UnhandledEvent); !ok || u.EventType() != "video.live_stream.idle" {
			t.Fatalf("event = %#v", ev)
		}
	})

	for name, body := range map[string]string{
		"CreatedWithoutUpload": `{"type":"video.asset.created","data":{"id":"a"}}`,
		"ReadyWithoutPlayback": `{"type":"video.asset.ready","data":{"id":"a","upload_id":"u"}}`,
		"ErroredWithoutUpload": `{"type":"video.asset.errored","data":{"status":"errored"}}`,
		"DeletedWithoutUpload": `{"type":"video.asset.deleted","data":{"id":"a"}}`,
		"TrackWithoutAsset":    `{"type":"video.asset.track.ready","data":{"id":"t"}}`,
		"DataNotObject":        `{"type":"video.asset.created","data":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := decode(t, body); !errno.Is(err, errno.ParamErr) {
				t.Fatalf("err = %v, want ParamErr", err)
			}
		})
	}
}

func TestImageURLs(t *testing.T) {
	if got := ThumbnailURL("pb1"); got != "https://image.mux.com/pb1/thumbnail.jpg" {
		t.Errorf("thumbnail = %s", got)
	}
	if got := PreviewURL("pb1"); got != "https://image.mux.com/pb1/animated.gif?width=640" {
		t.Errorf("preview = %s", got)
	}
}

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/video/v1/uploads":
			w.Write([]byte(`{"data":{"id":"up1","url":"https://storage.example/up1","status":"waiting"}}`))
		case r.URL.Path == "/video/v1/uploads/up1":
			w.Write([]byte(`{"data":{"id":"up1","status":"asset_created","asset_id":"asset1"}}`))
		case r.URL.Path == "/video/v1/assets/asset1":
			w.Write([]byte(`{"data":{"id":"asset1","status":"ready","duration":1.5,"playback_ids":[{"id":"pb1","policy":"public"}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, TokenId: "id", TokenSecret: "secret", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	upload, err := c.CreateUpload(ctx, "user1")
	if err != nil {
		t.Fatal(err)
	}
	if upload.Id != "up1" || upload.Url == "" {
		t.Errorf("upload = %+v", upload)
	}

	upload, err = c.RetrieveUpload(ctx, "up1")
	if err != nil {
		t.Fatal(err)
	}
	asset, err := c.RetrieveAsset(ctx, upload.AssetId)
	if err != nil {
		t.Fatal(err)
	}
	if asset.PlaybackId() != "pb1" || asset.DurationMillis() != 1500 {
		t.Errorf("asset = %+v", asset)
	}

	if _, err := c.RetrieveAsset(ctx, "missing"); err != ErrNotFound {
		t.Errorf("missing asset err = %v, want ErrNotFound", err)
	}
}
