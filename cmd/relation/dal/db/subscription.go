package db

import (
	"context"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/pagination"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// SubscriptionItem 被关注的作者
type SubscriptionItem struct {
	model.User
	SubscriberCount int64     `json:"subscriber_count"`
	SubscribedAt    time.Time `json:"subscribed_at"`
}

type (
	SubscriptionPage = pagination.Page[*SubscriptionItem, time.Time]
	TimeCursor       = pagination.Cursor[time.Time]
)

// CreateSubscription 已关注时保持原记录不变
func CreateSubscription(ctx context.Context, viewerId, creatorId string) (*model.Subscription, error) {
	sub := &model.Subscription{ViewerId: viewerId, CreatorId: creatorId}
	err := DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error
	if err != nil {
		return nil, errors.Wrapf(err, "CreateSubscription failed,creator_id:%s", creatorId)
	}
	var stored model.Subscription
	err = DB.WithContext(ctx).Where("viewer_id = ? AND creator_id = ?", viewerId, creatorId).Take(&stored).Error
	if err != nil {
		return nil, errors.Wrapf(err, "load subscription failed,creator_id:%s", creatorId)
	}
	return &stored, nil
}

func DeleteSubscription(ctx context.Context, viewerId, creatorId string) error {
	result := DB.WithContext(ctx).Where("viewer_id = ? AND creator_id = ?", viewerId, creatorId).Delete(&model.Subscription{})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "DeleteSubscription failed,creator_id:%s", creatorId)
	}
	if result.RowsAffected == 0 {
		return errno.NotFoundErr.WithMessage("subscription not found")
	}
	return nil
}

func UserExists(ctx context.Context, userId string) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "UserExists failed,user_id:%s", userId)
	}
	return count > 0, nil
}

// ListSubscriptions 按关注时间倒序
func ListSubscriptions(ctx context.Context, viewerId string, cursor *TimeCursor, limit int) (SubscriptionPage, error) {
	if err := pagination.CheckLimit(limit); err != nil {
		return SubscriptionPage{}, err
	}
	q := DB.WithContext(ctx).Table(constants.SubscriptionTableName).
		Select("users.*, subscriptions.updated_at AS subscribed_at, "+
			"(SELECT COUNT(*) FROM subscriptions AS s WHERE s.creator_id = users.id) AS subscriber_count").
		Joins("JOIN users ON users.id = subscriptions.creator_id").
		Where("subscriptions.viewer_id = ?", viewerId)
	q = pagination.Keyset("subscriptions.updated_at", "subscriptions.creator_id", cursor, limit)(q)

	var rows []*SubscriptionItem
	if err := q.Scan(&rows).Error; err != nil {
		return SubscriptionPage{}, errors.Wrapf(err, "ListSubscriptions failed,viewer_id:%s", viewerId)
	}
	return pagination.Cut(rows, limit, func(item *SubscriptionItem) TimeCursor {
		return TimeCursor{Id: item.Id, SortKeyValue: item.SubscribedAt}
	}), nil
}
