package mw

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/metrics"
	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/pkg/errors"
)

const FeedResource = "feed"

var flowEnabled bool

// InitFlow 初始化sentinel并为公开的列表接口设置QPS上限
func InitFlow(feedQPS float64) error {
	if err := sentinel.InitDefault(); err != nil {
		return errors.Wrap(err, "init sentinel failed")
	}
	_, err := flow.LoadRules([]*flow.Rule{
		{
			Resource:               FeedResource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              feedQPS,
			StatIntervalInMs:       1000,
		},
	})
	if err != nil {
		return errors.Wrap(err, "load sentinel rules failed")
	}
	flowEnabled = true
	return nil
}

// Flow 超过阈值的请求直接返回429
func Flow(resource string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if !flowEnabled {
			c.Next(ctx)
			return
		}
		entry, blockErr := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if blockErr != nil {
			metrics.RateLimited.WithLabelValues(resource).Inc()
			response.SendResponse(c, errno.TooManyRequestsErr, nil)
			c.Abort()
			return
		}
		defer entry.Exit()
		c.Next(ctx)
	}
}
