package mq

import "context"

// Publisher 领域事件发布接口
type Publisher interface {
	PublishVideoEvent(ctx context.Context, event *VideoEvent) error
	PublishReactionEvent(ctx context.Context, event *ReactionEvent) error
}

// 确保Producer实现Publisher接口
var _ Publisher = (*Producer)(nil)

var _ Publisher = Noop{}

// Noop 未配置RabbitMQ时使用, 丢弃所有事件
type Noop struct{}

func (Noop) PublishVideoEvent(context.Context, *VideoEvent) error       { return nil }
func (Noop) PublishReactionEvent(context.Context, *ReactionEvent) error { return nil }
