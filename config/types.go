package config

type config struct {
	Server    server    `yaml:"server" mapstructure:"server"`
	Database  database  `yaml:"database" mapstructure:"database"`
	Redis     redis     `yaml:"redis" mapstructure:"redis"`
	RabbitMq  rabbitmq  `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Minio     minio     `yaml:"minio" mapstructure:"minio"`
	Mux       mux       `yaml:"mux" mapstructure:"mux"`
	Auth      auth      `yaml:"auth" mapstructure:"auth"`
	Sentinel  sentinel  `yaml:"sentinel" mapstructure:"sentinel"`
	RateLimit rateLimit `yaml:"ratelimit" mapstructure:"ratelimit"`
	Jaeger    jaeger    `yaml:"jaeger" mapstructure:"jaeger"`
	Pprof     pprof     `yaml:"pprof" mapstructure:"pprof"`
}

type server struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	MaxRequestBody int      `yaml:"max_request_body" mapstructure:"max_request_body"`
	CorsOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

type database struct {
	Driver          string `yaml:"driver" mapstructure:"driver"`
	Addr            string `yaml:"addr" mapstructure:"addr"`
	Database        string `yaml:"database" mapstructure:"database"`
	Username        string `yaml:"username" mapstructure:"username"`
	Password        string `yaml:"password" mapstructure:"password"`
	Charset         string `yaml:"charset" mapstructure:"charset"`
	SqlitePath      string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	MaxOpenConns    int    `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool   `yaml:"auto_migrate" mapstructure:"auto_migrate"`
}

type redis struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

type rabbitmq struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

type minio struct {
	Endpoint      string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey     string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey     string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL        bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	Bucket        string `yaml:"bucket" mapstructure:"bucket"`
	Region        string `yaml:"region" mapstructure:"region"`
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url"`
}

type mux struct {
	BaseURL            string `yaml:"base_url" mapstructure:"base_url"`
	TokenId            string `yaml:"token_id" mapstructure:"token_id"`
	TokenSecret        string `yaml:"token_secret" mapstructure:"token_secret"`
	WebhookSecret      string `yaml:"webhook_secret" mapstructure:"webhook_secret"`
	SignatureTolerance string `yaml:"signature_tolerance" mapstructure:"signature_tolerance"`
	CorsOrigin         string `yaml:"cors_origin" mapstructure:"cors_origin"`
}

type auth struct {
	Realm         string `yaml:"realm" mapstructure:"realm"`
	Key           string `yaml:"key" mapstructure:"key"`
	IdentityClaim string `yaml:"identity_claim" mapstructure:"identity_claim"`
}

type sentinel struct {
	FeedQPS float64 `yaml:"feed_qps" mapstructure:"feed_qps"`
}

type rateLimit struct {
	Window      string `yaml:"window" mapstructure:"window"`
	MaxRequests int64  `yaml:"max_requests" mapstructure:"max_requests"`
}

type jaeger struct {
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	AgentHost   string `yaml:"agent_host" mapstructure:"agent_host"`
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
}

type pprof struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}
