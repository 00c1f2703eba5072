package db

import (
	"context"
	"strings"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/pagination"
	"NewTube.com/pkg/viewer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CommentItem 评论列表项
type CommentItem struct {
	model.Comment
	Owner          model.Owner `gorm:"embedded;embeddedPrefix:owner_" json:"user"`
	LikeCount      int64       `json:"like_count"`
	DislikeCount   int64       `json:"dislike_count"`
	ReplyCount     int64       `json:"reply_count"`
	ViewerReaction *string     `json:"viewer_reaction"`
}

type (
	CommentPage = pagination.Page[*CommentItem, time.Time]
	TimeCursor  = pagination.Cursor[time.Time]
)

func commentReactionCount(reactionType string) string {
	return "(SELECT COUNT(*) FROM comment_reactions WHERE comment_reactions.comment_id = comments.id AND comment_reactions.type = '" + reactionType + "')"
}

func commentItems(ctx context.Context, v viewer.Viewer) *gorm.DB {
	selects := []string{
		"comments.*",
		"users.id AS owner_id",
		"users.name AS owner_name",
		"users.image_url AS owner_image_url",
		commentReactionCount(constants.ReactionLike) + " AS like_count",
		commentReactionCount(constants.ReactionDislike) + " AS dislike_count",
		"(SELECT COUNT(*) FROM comments AS replies WHERE replies.parent_id = comments.id) AS reply_count",
	}
	q := DB.WithContext(ctx).Table(constants.CommentTableName).
		Joins("JOIN users ON users.id = comments.user_id")
	if v.Present() {
		q = q.Joins("LEFT JOIN comment_reactions AS viewer_reactions ON viewer_reactions.comment_id = comments.id AND viewer_reactions.user_id = ?", v.UserId)
		selects = append(selects, "viewer_reactions.type AS viewer_reaction")
	} else {
		selects = append(selects, "NULL AS viewer_reaction")
	}
	return q.Select(strings.Join(selects, ", "))
}

// commentScope 顶层评论或某条评论的回复
func commentScope(q *gorm.DB, videoId string, parentId *string) *gorm.DB {
	q = q.Where("comments.video_id = ?", videoId)
	if parentId == nil {
		return q.Where("comments.parent_id IS NULL")
	}
	return q.Where("comments.parent_id = ?", *parentId)
}

// ListComments 按 (created_at DESC, id DESC) 分页
func ListComments(ctx context.Context, videoId string, parentId *string, cursor *TimeCursor, limit int, v viewer.Viewer) (CommentPage, error) {
	if err := pagination.CheckLimit(limit); err != nil {
		return CommentPage{}, err
	}
	var rows []*CommentItem
	q := commentScope(commentItems(ctx, v), videoId, parentId)
	q = pagination.Keyset("comments.created_at", "comments.id", cursor, limit)(q)
	if err := q.Scan(&rows).Error; err != nil {
		return CommentPage{}, errors.Wrapf(err, "ListComments failed,video_id:%s", videoId)
	}
	return pagination.Cut(rows, limit, func(item *CommentItem) TimeCursor {
		return TimeCursor{Id: item.Id, SortKeyValue: item.CreatedAt}
	}), nil
}

// CountComments 与 ListComments 相同的过滤条件, 不带游标
func CountComments(ctx context.Context, videoId string, parentId *string) (count int64, err error) {
	q := commentScope(DB.WithContext(ctx).Model(&model.Comment{}), videoId, parentId)
	if err := q.Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "CountComments failed,video_id:%s", videoId)
	}
	return count, nil
}

func CreateComment(ctx context.Context, comment *model.Comment) error {
	if err := DB.WithContext(ctx).Create(comment).Error; err != nil {
		return errors.Wrapf(err, "CreateComment failed,video_id:%s", comment.VideoId)
	}
	return nil
}

func GetComment(ctx context.Context, commentId string) (*model.Comment, error) {
	var comment model.Comment
	err := DB.WithContext(ctx).Where("id = ?", commentId).Take(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("comment not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetComment failed,comment_id:%s", commentId)
	}
	return &comment, nil
}

// DeleteComment 删除自己的评论及其回复, 点赞/回复/评论在同一事务中删除
func DeleteComment(ctx context.Context, commentId, userId string) (*model.Comment, error) {
	var comment model.Comment
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", commentId, userId).Take(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errno.NotFoundErr.WithMessage("comment not found")
		}
		if err != nil {
			return errors.Wrapf(err, "DeleteComment failed,comment_id:%s", commentId)
		}
		if err := tx.Exec("DELETE FROM comment_reactions WHERE comment_id = ? OR comment_id IN (SELECT id FROM comments WHERE parent_id = ?)", commentId, commentId).Error; err != nil {
			return errors.Wrapf(err, "delete comment reactions failed,comment_id:%s", commentId)
		}
		if err := tx.Where("parent_id = ?", commentId).Delete(&model.Comment{}).Error; err != nil {
			return errors.Wrapf(err, "delete replies failed,comment_id:%s", commentId)
		}
		result := tx.Where("id = ? AND user_id = ?", commentId, userId).Delete(&model.Comment{})
		if result.Error != nil {
			return errors.Wrapf(result.Error, "DeleteComment failed,comment_id:%s", commentId)
		}
		if result.RowsAffected == 0 {
			return errno.NotFoundErr.WithMessage("comment not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
