package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo = Default()

// Default 未找到配置文件时使用的默认配置
func Default() config {
	var c config
	c.Server.Addr = "0.0.0.0:8888"
	c.Server.MaxRequestBody = 4 * 1024 * 1024
	c.Server.CorsOrigins = []string{"http://localhost:3000"}

	c.Database.Driver = "mysql"
	c.Database.Addr = "127.0.0.1:3306"
	c.Database.Database = "newtube"
	c.Database.Username = "root"
	c.Database.Charset = "utf8mb4"
	c.Database.SqlitePath = "newtube.db"
	c.Database.MaxOpenConns = 100
	c.Database.MaxIdleConns = 10
	c.Database.ConnMaxLifetime = "1h"
	c.Database.AutoMigrate = true

	c.Redis.Addr = "127.0.0.1:6379"

	c.RabbitMq.Addr = "127.0.0.1:5672"
	c.RabbitMq.Username = "guest"
	c.RabbitMq.Password = "guest"

	c.Minio.Endpoint = "localhost:9000"
	c.Minio.Bucket = "newtube"
	c.Minio.Region = "us-east-1"
	c.Minio.PublicBaseURL = "http://localhost:9000"

	c.Mux.BaseURL = "https://api.mux.com"
	c.Mux.SignatureTolerance = "5m"
	c.Mux.CorsOrigin = "*"

	c.Auth.Realm = "newtube"
	c.Auth.IdentityClaim = "sub"

	c.Sentinel.FeedQPS = 500

	c.RateLimit.Window = "1m"
	c.RateLimit.MaxRequests = 60

	c.Jaeger.ServiceName = "newtube-api"
	c.Jaeger.AgentHost = "127.0.0.1:6831"

	c.Pprof.Addr = ":6060"
	return c
}

// 使用Viper的好处在于支持配置文件的热更新 同时viper对于大小写并不敏感 都是统一进行处理
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	viper.SetConfigType("yaml")
	viper.SetConfigName("config.yml")
	viper.SetEnvPrefix("NEWTUBE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{
		"../../config",
		"./config",
		"../config",
		".",
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warnf("config file not found, using defaults: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
		}
		return
	}

	logrus.Infof("Successfully read config file: %s", viper.ConfigFileUsed())

	c := Default()
	if err := viper.Unmarshal(&c); err != nil {
		logrus.Errorf("config unmarshal error: %v", err)
		return
	}
	ConfigInfo = c

	logrus.Infof("Config loaded - Database(%s): %s:%s@%s/%s",
		ConfigInfo.Database.Driver, ConfigInfo.Database.Username, "***", ConfigInfo.Database.Addr, ConfigInfo.Database.Database)

	if ConfigInfo.Auth.Key == "" {
		logrus.Warn("No auth key configured, the api server will refuse to start!")
	}
	if ConfigInfo.Mux.WebhookSecret == "" {
		logrus.Warn("No mux webhook secret configured, every webhook delivery will be rejected!")
	}
}
