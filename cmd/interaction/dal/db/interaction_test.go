package db

import (
	"context"
	"testing"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/database"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/viewer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	userId    = "00000000-0000-0000-0000-0000000000u1"
	otherId   = "00000000-0000-0000-0000-0000000000u2"
	videoId   = "00000000-0000-0000-0000-0000000000v1"
	commentId = "00000000-0000-0000-0000-0000000000c1"
)

func setup(t *testing.T) context.Context {
	t.Helper()
	Init(database.NewTestDB(t))
	rows := []interface{}{
		&model.User{Id: userId, ExternalId: "ext_u1", Name: "u1"},
		&model.User{Id: otherId, ExternalId: "ext_u2", Name: "u2"},
		&model.Video{Id: videoId, UserId: otherId, Title: "v", Visibility: constants.VisibilityPublic},
		&model.Comment{Id: commentId, UserId: otherId, VideoId: videoId, Value: "first"},
	}
	for _, row := range rows {
		if err := DB.Create(row).Error; err != nil {
			t.Fatal(err)
		}
	}
	return context.Background()
}

func countReactions(t *testing.T, table ReactionTable, subjectId string) int64 {
	t.Helper()
	var n int64
	if err := DB.Table(table.Name).Where(table.SubjectColumn+" = ?", subjectId).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestToggleReaction(t *testing.T) {
	for _, tc := range []struct {
		name      string
		table     ReactionTable
		subjectId string
	}{
		{"Video", VideoReactions, videoId},
		{"Comment", CommentReactions, commentId},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setup(t)

			r, removed, err := ToggleReaction(ctx, tc.table, tc.subjectId, userId, constants.ReactionLike)
			if err != nil {
				t.Fatal(err)
			}
			if removed || r == nil || r.Type != constants.ReactionLike || r.SubjectId != tc.subjectId {
				t.Fatalf("first like = %+v, removed %v", r, removed)
			}

			r, removed, err = ToggleReaction(ctx, tc.table, tc.subjectId, userId, constants.ReactionDislike)
			if err != nil {
				t.Fatal(err)
			}
			if removed || r.Type != constants.ReactionDislike {
				t.Fatalf("switch = %+v, removed %v", r, removed)
			}
			if n := countReactions(t, tc.table, tc.subjectId); n != 1 {
				t.Fatalf("rows after switch = %d, want 1", n)
			}

			r, removed, err = ToggleReaction(ctx, tc.table, tc.subjectId, userId, constants.ReactionDislike)
			if err != nil {
				t.Fatal(err)
			}
			if !removed || r.Type != constants.ReactionDislike {
				t.Fatalf("toggle off = %+v, removed %v", r, removed)
			}
			if n := countReactions(t, tc.table, tc.subjectId); n != 0 {
				t.Fatalf("rows after toggle off = %d, want 0", n)
			}
			if current, err := GetReaction(ctx, tc.table, tc.subjectId, userId); err != nil || current != nil {
				t.Fatalf("GetReaction = %+v, %v", current, err)
			}
		})
	}
}

func TestSubjectExists(t *testing.T) {
	ctx := setup(t)
	if ok, err := SubjectExists(ctx, VideoReactions, videoId); err != nil || !ok {
		t.Fatalf("video exists = %v, %v", ok, err)
	}
	if ok, err := SubjectExists(ctx, CommentReactions, videoId); err != nil || ok {
		t.Fatalf("comment with video id exists = %v, %v", ok, err)
	}
}

func TestCreateViewIdempotent(t *testing.T) {
	ctx := setup(t)
	first, err := CreateView(ctx, videoId, userId)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := CreateView(ctx, videoId, userId)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("second insert overwrote created_at: %v != %v", second.CreatedAt, first.CreatedAt)
	}
	if n, err := CountViews(ctx, videoId); err != nil || n != 1 {
		t.Fatalf("views = %d, %v", n, err)
	}
}

func TestComments(t *testing.T) {
	ctx := setup(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	parent := commentId
	replies := []*model.Comment{
		{Id: "00000000-0000-0000-0000-0000000000r1", ParentId: &parent, UserId: userId, VideoId: videoId, Value: "r1", CreatedAt: base},
		{Id: "00000000-0000-0000-0000-0000000000r2", ParentId: &parent, UserId: userId, VideoId: videoId, Value: "r2", CreatedAt: base.Add(time.Minute)},
	}
	for _, c := range replies {
		if err := CreateComment(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := ToggleReaction(ctx, CommentReactions, commentId, userId, constants.ReactionLike); err != nil {
		t.Fatal(err)
	}

	top, err := ListComments(ctx, videoId, nil, nil, 10, viewer.Of(userId))
	if err != nil {
		t.Fatal(err)
	}
	if len(top.Items) != 1 {
		t.Fatalf("top-level comments = %d", len(top.Items))
	}
	item := top.Items[0]
	if item.ReplyCount != 2 || item.LikeCount != 1 || item.ViewerReaction == nil || *item.ViewerReaction != constants.ReactionLike {
		t.Errorf("comment item = %+v", item)
	}
	if item.Owner.Name != "u2" {
		t.Errorf("owner = %+v", item.Owner)
	}

	page, err := ListComments(ctx, videoId, &parent, nil, 1, viewer.Anonymous)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].Value != "r2" || page.NextCursor == nil {
		t.Fatalf("reply page 1 = %+v", page)
	}
	page, err = ListComments(ctx, videoId, &parent, page.NextCursor, 1, viewer.Anonymous)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].Value != "r1" || page.NextCursor != nil {
		t.Fatalf("reply page 2 = %+v", page)
	}
	if n, err := CountComments(ctx, videoId, &parent); err != nil || n != 2 {
		t.Fatalf("reply count = %d, %v", n, err)
	}

	if _, err := DeleteComment(ctx, commentId, userId); !errno.Is(err, errno.NotFoundErr) {
		t.Fatalf("delete someone else's comment err = %v", err)
	}
	if _, err := DeleteComment(ctx, commentId, otherId); err != nil {
		t.Fatal(err)
	}
	if n, err := CountComments(ctx, videoId, &parent); err != nil || n != 0 {
		t.Fatalf("replies after delete = %d, %v", n, err)
	}
}

func TestDeleteCommentRollsBack(t *testing.T) {
	ctx := setup(t)
	parent := commentId
	reply := &model.Comment{Id: "00000000-0000-0000-0000-0000000000r1", ParentId: &parent, UserId: userId, VideoId: videoId, Value: "r1"}
	if err := CreateComment(ctx, reply); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ToggleReaction(ctx, CommentReactions, commentId, userId, constants.ReactionLike); err != nil {
		t.Fatal(err)
	}

	// 点赞删除之后, 删除回复时失败
	err := DB.Callback().Delete().Before("gorm:delete").Register("test:fail_comments", func(tx *gorm.DB) {
		if tx.Statement.Table == constants.CommentTableName {
			tx.AddError(errors.New("delete comments unavailable"))
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DeleteComment(ctx, commentId, otherId); err == nil {
		t.Fatal("expected delete to fail")
	}
	if current, err := GetReaction(ctx, CommentReactions, commentId, userId); err != nil || current == nil {
		t.Fatalf("reaction after failed delete = %+v, %v", current, err)
	}
	if n, err := CountComments(ctx, videoId, &parent); err != nil || n != 1 {
		t.Fatalf("replies after failed delete = %d, %v", n, err)
	}
	if _, err := GetComment(ctx, commentId); err != nil {
		t.Fatalf("comment after failed delete: %v", err)
	}

	if err := DB.Callback().Delete().Remove("test:fail_comments"); err != nil {
		t.Fatal(err)
	}
	if _, err := DeleteComment(ctx, commentId, otherId); err != nil {
		t.Fatal(err)
	}
	if _, err := GetComment(ctx, commentId); !errno.Is(err, errno.NotFoundErr) {
		t.Fatalf("comment after retry err = %v", err)
	}
}
