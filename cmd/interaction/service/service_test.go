package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"NewTube.com/cmd/interaction/dal/db"
	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/database"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/mq"
	"NewTube.com/pkg/viewer"
)

const (
	userId    = "00000000-0000-0000-0000-0000000000a1"
	authorId  = "00000000-0000-0000-0000-0000000000a2"
	videoId   = "00000000-0000-0000-0000-0000000000b1"
	otherVid  = "00000000-0000-0000-0000-0000000000b2"
	missingId = "00000000-0000-0000-0000-0000000000ff"
)

type recorder struct {
	mu        sync.Mutex
	reactions []*mq.ReactionEvent
}

func (r *recorder) PublishVideoEvent(context.Context, *mq.VideoEvent) error { return nil }

func (r *recorder) PublishReactionEvent(_ context.Context, event *mq.ReactionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reactions = append(r.reactions, event)
	return nil
}

func setup(t *testing.T) (context.Context, *recorder) {
	t.Helper()
	db.Init(database.NewTestDB(t))
	rows := []interface{}{
		&model.User{Id: userId, ExternalId: "ext_a1", Name: "viewer"},
		&model.User{Id: authorId, ExternalId: "ext_a2", Name: "author"},
		&model.Video{Id: videoId, UserId: authorId, Title: "one", Visibility: constants.VisibilityPublic},
		&model.Video{Id: otherVid, UserId: authorId, Title: "two", Visibility: constants.VisibilityPublic},
	}
	for _, row := range rows {
		if err := db.DB.Create(row).Error; err != nil {
			t.Fatal(err)
		}
	}
	rec := &recorder{}
	Init(rec)
	t.Cleanup(func() { Init(nil) })
	return context.Background(), rec
}

func TestToggleVideoReaction(t *testing.T) {
	ctx, rec := setup(t)
	svc := NewReactionService(ctx)
	me := viewer.Of(userId)

	if _, err := svc.ToggleVideoReaction(viewer.Anonymous, &ReactionRequest{SubjectId: videoId, Type: "like"}); !errno.Is(err, errno.AuthorizationFailedErr) {
		t.Fatalf("anonymous err = %v", err)
	}
	if _, err := svc.ToggleVideoReaction(me, &ReactionRequest{SubjectId: videoId, Type: "love"}); !errno.Is(err, errno.ParamErr) {
		t.Fatalf("bad type err = %v", err)
	}
	if _, err := svc.ToggleVideoReaction(me, &ReactionRequest{SubjectId: missingId, Type: "like"}); !errno.Is(err, errno.NotFoundErr) {
		t.Fatalf("missing err = %v", err)
	}

	steps := []struct {
		typ     string
		removed bool
		after   string
	}{
		{"like", false, "like"},
		{"dislike", false, "dislike"},
		{"dislike", true, ""},
		{"like", false, "like"},
		{"like", true, ""},
	}
	for i, step := range steps {
		res, err := svc.ToggleVideoReaction(me, &ReactionRequest{SubjectId: videoId, Type: step.typ})
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Removed != step.removed || res.Reaction == nil || res.Reaction.Type != step.typ {
			t.Fatalf("step %d: got %+v", i, res)
		}
		current, err := db.GetReaction(ctx, db.VideoReactions, videoId, userId)
		if err != nil {
			t.Fatal(err)
		}
		got := ""
		if current != nil {
			got = current.Type
		}
		if got != step.after {
			t.Fatalf("step %d: stored %q, want %q", i, got, step.after)
		}
	}
	if len(rec.reactions) != len(steps) || !rec.reactions[2].Removed || rec.reactions[2].Subject != "video" {
		t.Errorf("events = %+v", rec.reactions)
	}
}

func TestToggleCommentReaction(t *testing.T) {
	ctx, _ := setup(t)
	comment, err := NewCommentService(ctx).CreateComment(viewer.Of(authorId), &CreateCommentRequest{VideoId: videoId, Value: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewReactionService(ctx)
	res, err := svc.ToggleCommentReaction(viewer.Of(userId), &ReactionRequest{SubjectId: comment.Id, Type: "dislike"})
	if err != nil || res.Removed || res.Reaction.Type != "dislike" {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
	res, err = svc.ToggleCommentReaction(viewer.Of(userId), &ReactionRequest{SubjectId: comment.Id, Type: "dislike"})
	if err != nil || !res.Removed {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
}

func TestRecordView(t *testing.T) {
	ctx, _ := setup(t)
	svc := NewViewService(ctx)

	if _, err := svc.RecordView(viewer.Anonymous, videoId); !errno.Is(err, errno.AuthorizationFailedErr) {
		t.Fatalf("anonymous err = %v", err)
	}
	if _, err := svc.RecordView(viewer.Of(userId), missingId); !errno.Is(err, errno.NotFoundErr) {
		t.Fatalf("missing err = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.RecordView(viewer.Of(userId), videoId); err != nil {
			t.Fatal(err)
		}
	}
	if n, err := db.CountViews(ctx, videoId); err != nil || n != 1 {
		t.Fatalf("views = %d, err = %v", n, err)
	}
}

func TestComments(t *testing.T) {
	ctx, _ := setup(t)
	svc := NewCommentService(ctx)
	me := viewer.Of(userId)

	t.Run("Validation", func(t *testing.T) {
		for _, value := range []string{"", "   ", strings.Repeat("字", 501)} {
			_, err := svc.CreateComment(me, &CreateCommentRequest{VideoId: videoId, Value: value})
			if !errno.Is(err, errno.ParamErr) {
				t.Errorf("len %d: err = %v", len(value), err)
			}
		}
		if _, err := svc.CreateComment(me, &CreateCommentRequest{VideoId: videoId, Value: strings.Repeat("字", 500)}); err != nil {
			t.Errorf("500 runes: %v", err)
		}
		if _, err := svc.CreateComment(me, &CreateCommentRequest{VideoId: missingId, Value: "x"}); !errno.Is(err, errno.NotFoundErr) {
			t.Errorf("missing video err = %v", err)
		}
	})

	top, err := svc.CreateComment(me, &CreateCommentRequest{VideoId: videoId, Value: "top"})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Replies", func(t *testing.T) {
		reply, err := svc.CreateComment(viewer.Of(authorId), &CreateCommentRequest{VideoId: videoId, Value: "re", ParentId: &top.Id})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.CreateComment(me, &CreateCommentRequest{VideoId: videoId, Value: "re re", ParentId: &reply.Id}); !errno.Is(err, errno.ParamErr) {
			t.Errorf("nested reply err = %v", err)
		}
		if _, err := svc.CreateComment(me, &CreateCommentRequest{VideoId: otherVid, Value: "x", ParentId: &top.Id}); !errno.Is(err, errno.ParamErr) {
			t.Errorf("cross video err = %v", err)
		}
		missing := missingId
		if _, err := svc.CreateComment(me, &CreateCommentRequest{VideoId: videoId, Value: "x", ParentId: &missing}); !errno.Is(err, errno.NotFoundErr) {
			t.Errorf("missing parent err = %v", err)
		}

		resp, err := svc.ListComments(me, &ListCommentsRequest{VideoId: videoId, ParentId: &top.Id, Limit: 10})
		if err != nil {
			t.Fatal(err)
		}
		if resp.TotalCount != 1 || len(resp.Items) != 1 || resp.Items[0].Id != reply.Id {
			t.Fatalf("replies = %+v", resp)
		}
	})

	t.Run("List", func(t *testing.T) {
		resp, err := svc.ListComments(me, &ListCommentsRequest{VideoId: videoId, Limit: 1})
		if err != nil {
			t.Fatal(err)
		}
		// 两条顶层评论
		if resp.TotalCount != 2 || len(resp.Items) != 1 || resp.NextCursor == nil {
			t.Fatalf("page = %+v", resp)
		}
		if _, err := svc.ListComments(me, &ListCommentsRequest{VideoId: videoId, Limit: 0}); !errno.Is(err, errno.ParamErr) {
			t.Errorf("limit 0 err = %v", err)
		}
		if _, err := svc.ListComments(me, &ListCommentsRequest{VideoId: videoId, CursorId: "abc", Limit: 5}); !errno.Is(err, errno.ParamErr) {
			t.Errorf("half cursor err = %v", err)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if _, err := svc.RemoveComment(viewer.Of(authorId), top.Id); !errno.Is(err, errno.NotFoundErr) {
			t.Fatalf("foreign err = %v", err)
		}
		if _, err := svc.RemoveComment(me, top.Id); err != nil {
			t.Fatal(err)
		}
		if n, err := db.CountComments(ctx, videoId, &top.Id); err != nil || n != 0 {
			t.Fatalf("replies left = %d, err = %v", n, err)
		}
	})
}
