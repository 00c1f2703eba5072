package service

import "NewTube.com/pkg/mq"

var publisher mq.Publisher = mq.Noop{}

// Init 设置事件发布者, 传入nil时丢弃事件
func Init(p mq.Publisher) {
	if p == nil {
		p = mq.Noop{}
	}
	publisher = p
}
