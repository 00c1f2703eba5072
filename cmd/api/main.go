package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/api/mw"
	interactiondb "NewTube.com/cmd/interaction/dal/db"
	interactionservice "NewTube.com/cmd/interaction/service"
	relationdb "NewTube.com/cmd/relation/dal/db"
	userdb "NewTube.com/cmd/user/dal/db"
	userredis "NewTube.com/cmd/user/infras/redis"
	userservice "NewTube.com/cmd/user/service"
	videodb "NewTube.com/cmd/video/dal/db"
	videoservice "NewTube.com/cmd/video/service"
	"NewTube.com/config"
	"NewTube.com/config/pprof"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/database"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/jwt"
	"NewTube.com/pkg/mq"
	"NewTube.com/pkg/mux"
	"NewTube.com/pkg/oss"
	"NewTube.com/pkg/security"
	"NewTube.com/pkg/tracer"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redis/redis/v8"
	"github.com/hertz-contrib/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func initDAL(db *gorm.DB) {
	videodb.Init(db)
	interactiondb.Init(db)
	relationdb.Init(db)
	userdb.Init(db)
}

func resolveViewer(ctx context.Context, subject string) (string, error) {
	return userservice.NewUserService(ctx).FindByExternalId(subject)
}

func parseDuration(name, value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		hlog.Warnf("Failed to parse %s %q, using %s: %v", name, value, fallback, err)
		return fallback
	}
	return d
}

// Init 初始化所有依赖, 返回的closers在退出时关闭
func Init(ctx context.Context) (routerDeps, []io.Closer) {
	config.Init()
	c := config.ConfigInfo
	var closers []io.Closer

	if c.Jaeger.Enabled {
		_, closer := tracer.InitJaeger(c.Jaeger.ServiceName, c.Jaeger.AgentHost)
		closers = append(closers, closer)
	}

	db, err := database.Open(database.FromConfig())
	if err != nil {
		panic(err)
	}
	initDAL(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		hlog.Warnf("Could not connect to redis, rate limiting and identity cache disabled: %v", err)
	}
	userredis.Init(redisClient)
	closers = append(closers, redisClient)

	pipeline, err := mux.NewClient(mux.Config{
		BaseURL:     c.Mux.BaseURL,
		TokenId:     c.Mux.TokenId,
		TokenSecret: c.Mux.TokenSecret,
		CorsOrigin:  c.Mux.CorsOrigin,
	})
	if err != nil {
		panic(err)
	}

	storage, err := oss.NewStorage(ctx, oss.FromConfig())
	if err != nil {
		panic(err)
	}

	var publisher mq.Publisher = mq.Noop{}
	producer, err := mq.NewProducer(fmt.Sprintf("amqp://%s:%s@%s/", c.RabbitMq.Username, c.RabbitMq.Password, c.RabbitMq.Addr))
	if err != nil {
		hlog.Warnf("RabbitMQ unavailable, domain events are dropped: %v", err)
	} else {
		publisher = producer
		closers = append(closers, producer)
	}

	videoservice.Init(videoservice.Deps{
		Pipeline:           pipeline,
		Blobs:              storage,
		Publisher:          publisher,
		WebhookSecret:      c.Mux.WebhookSecret,
		SignatureTolerance: parseDuration("mux.signature_tolerance", c.Mux.SignatureTolerance, mux.DefaultTolerance),
		Now:                time.Now,
	})
	interactionservice.Init(publisher)

	verifier, err := jwt.NewVerifier(jwt.Options{
		Realm:         c.Auth.Realm,
		Key:           []byte(c.Auth.Key),
		IdentityClaim: c.Auth.IdentityClaim,
	})
	if err != nil {
		panic(err)
	}

	if err := mw.InitFlow(c.Sentinel.FeedQPS); err != nil {
		hlog.Warnf("Flow control disabled: %v", err)
	}

	if c.Pprof.Enabled {
		pprof.Load(c.Pprof.Addr)
	}

	return routerDeps{
		verifier: verifier,
		resolve:  resolveViewer,
		limiter: security.NewRateLimiter(redisClient, security.RateLimitConfig{
			WindowSize:  parseDuration("ratelimit.window", c.RateLimit.Window, time.Minute),
			MaxRequests: c.RateLimit.MaxRequests,
		}),
	}, closers
}

func main() {
	deps, closers := Init(context.Background())
	c := config.ConfigInfo

	h := server.New(
		server.WithHostPorts(c.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(c.Server.MaxRequestBody),
	)

	// 配置 CORS
	h.Use(cors.New(cors.Config{
		AllowOrigins:     c.Server.CorsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 错误处理
	h.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			response.SendResponse(c, errno.ServiceErr, nil)
		})))

	h.GET("/metrics", adaptor.HertzHandler(promhttp.Handler()))

	// 注册路由
	register(h.Engine, deps)

	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		for _, closer := range closers {
			if err := closer.Close(); err != nil {
				hlog.Warnf("close failed: %v", err)
			}
		}
	})

	hlog.Infof("%s listening on %s", constants.ServiceName, c.Server.Addr)
	h.Spin()
}
