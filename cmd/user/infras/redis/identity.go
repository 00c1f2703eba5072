package redis

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redis/redis/v8"
)

const identityTTL = 10 * time.Minute

var redisDB *redis.Client

// Init 传入nil时不使用缓存
func Init(client *redis.Client) {
	redisDB = client
}

func identityKey(externalId string) string {
	return "identity:" + externalId
}

// GetUserId 缓存未命中或redis不可用时返回空串
func GetUserId(ctx context.Context, externalId string) string {
	if redisDB == nil {
		return ""
	}
	id, err := redisDB.Get(ctx, identityKey(externalId)).Result()
	if err != nil {
		if err != redis.Nil {
			hlog.CtxWarnf(ctx, "Redis get identity failed : %v", err)
		}
		return ""
	}
	return id
}

func SetUserId(ctx context.Context, externalId, userId string) {
	if redisDB == nil {
		return
	}
	if err := redisDB.Set(ctx, identityKey(externalId), userId, identityTTL).Err(); err != nil {
		hlog.CtxWarnf(ctx, "Redis set identity failed : %v", err)
	}
}
