package tracer

import (
	"io"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// InitJaeger 设置全局tracer, 调用方负责关闭返回的closer
func InitJaeger(service, agentHost string) (opentracing.Tracer, io.Closer) {
	cfg := &jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           true,
			LocalAgentHostPort: agentHost,
		},
	}
	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		hlog.Errorf("cannot init jaeger: %v", err)
		return opentracing.NoopTracer{}, nopCloser{}
	}
	opentracing.SetGlobalTracer(tracer)
	return tracer, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
