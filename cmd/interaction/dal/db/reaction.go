package db

import (
	"context"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// ReactionTable 描述一张 (subject, user) -> type 的点赞表
type ReactionTable struct {
	Name          string
	SubjectColumn string
}

var (
	VideoReactions   = ReactionTable{Name: constants.VideoReactionTableName, SubjectColumn: "video_id"}
	CommentReactions = ReactionTable{Name: constants.CommentReactionTableName, SubjectColumn: "comment_id"}
)

type reactionRow struct {
	SubjectId string
	UserId    string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToggleReaction 同类型再次点击则取消, 否则写入或覆盖为新类型.
// removed 为 true 时返回的是被删除的那条记录
func ToggleReaction(ctx context.Context, table ReactionTable, subjectId, userId, reactionType string) (reaction *model.Reaction, removed bool, err error) {
	tx := DB.WithContext(ctx)
	var existing []reactionRow
	err = tx.Table(table.Name).
		Select(table.SubjectColumn+" AS subject_id, user_id, type, created_at, updated_at").
		Where(table.SubjectColumn+" = ? AND user_id = ? AND type = ?", subjectId, userId, reactionType).
		Limit(1).
		Scan(&existing).Error
	if err != nil {
		return nil, false, errors.Wrapf(err, "find %s failed,subject:%s", table.Name, subjectId)
	}

	if len(existing) > 0 {
		// 删除条件带上type, 与并发的改判互不覆盖
		err = tx.Exec("DELETE FROM "+table.Name+" WHERE "+table.SubjectColumn+" = ? AND user_id = ? AND type = ?",
			subjectId, userId, reactionType).Error
		if err != nil {
			return nil, false, errors.Wrapf(err, "delete %s failed,subject:%s", table.Name, subjectId)
		}
		return existing[0].toModel(), true, nil
	}

	now := time.Now().UTC()
	err = tx.Table(table.Name).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: table.SubjectColumn}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"type": reactionType, "updated_at": now}),
		}).
		Create(map[string]interface{}{
			table.SubjectColumn: subjectId,
			"user_id":           userId,
			"type":              reactionType,
			"created_at":        now,
			"updated_at":        now,
		}).Error
	if err != nil {
		return nil, false, errors.Wrapf(err, "upsert %s failed,subject:%s", table.Name, subjectId)
	}
	reaction, err = GetReaction(ctx, table, subjectId, userId)
	return reaction, false, err
}

// GetReaction 返回当前记录, 没有时返回 nil
func GetReaction(ctx context.Context, table ReactionTable, subjectId, userId string) (*model.Reaction, error) {
	var rows []reactionRow
	err := DB.WithContext(ctx).Table(table.Name).
		Select(table.SubjectColumn+" AS subject_id, user_id, type, created_at, updated_at").
		Where(table.SubjectColumn+" = ? AND user_id = ?", subjectId, userId).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get %s failed,subject:%s", table.Name, subjectId)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (r reactionRow) toModel() *model.Reaction {
	return &model.Reaction{
		SubjectId: r.SubjectId,
		UserId:    r.UserId,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// SubjectExists 检查被点赞的对象是否存在
func SubjectExists(ctx context.Context, table ReactionTable, subjectId string) (bool, error) {
	var count int64
	var err error
	switch table {
	case VideoReactions:
		err = DB.WithContext(ctx).Model(&model.Video{}).Where("id = ?", subjectId).Count(&count).Error
	case CommentReactions:
		err = DB.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", subjectId).Count(&count).Error
	default:
		return false, errors.Errorf("unknown reaction table %s", table.Name)
	}
	if err != nil {
		return false, errors.Wrapf(err, "check subject of %s failed", table.Name)
	}
	return count > 0, nil
}
