package config

// Config 配置主体
type Config struct {
	Server                ServerConfig       `mapstructure:"server"`
	DB                    DBConfig           `mapstructure:"database"`
	Redis                 RedisConfig        `mapstructure:"redis"`
	Mongo                 MongoConfig        `mapstructure:"mongo"`
	Log                   LogConfig          `mapstructure:"log"`
	Logstash              LogstashConfig     `mapstructure:"logstash"`
	JWT                   JWTConfig          `mapstructure:"jwt"`
	Provider              ProviderConfig     `mapstructure:"provider"`
	Feed                  FeedConfig         `mapstructure:"feed"`
	Cron                  CronConfig         `mapstructure:"cron"`
	Kafka                 KafkaConfig        `mapstructure:"kafka"`
	KafkaActivityConsumer KafkaTopicConsumer `mapstructure:"kafka_activity_consumer"`
	KafkaItemConsumer     KafkaTopicConsumer `mapstructure:"kafka_item_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL         string `mapstructure:"url"`
	Database    string `mapstructure:"database"`
	Timeout     int    `mapstructure:"timeout"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
}

// LogConfig 日志级别与各存储的慢查询阈值 (毫秒)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	SlowSQL    int    `mapstructure:"slow_sql"`
	SlowRedis  int    `mapstructure:"slow_redis"`
	SlowMongo  int    `mapstructure:"slow_mongo"`
	AccessJSON bool   `mapstructure:"access_json"`
}

// LogstashConfig 远程日志
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Issuer     string `mapstructure:"issuer"`
	ExpireHour int    `mapstructure:"expire_hour"`
}

// ProviderConfig 外部元数据源 (TMDb / Google Books)
type ProviderConfig struct {
	TMDBBaseURL      string  `mapstructure:"tmdb_base_url"`
	TMDBImageURL     string  `mapstructure:"tmdb_image_url"`
	TMDBApiKey       string  `mapstructure:"tmdb_api_key"`
	GoogleBooksURL   string  `mapstructure:"google_books_url"`
	OpenLibraryURL   string  `mapstructure:"open_library_url"`
	OpenLibraryCover string  `mapstructure:"open_library_cover"`
	Timeout          int     `mapstructure:"timeout"`
	RateLimit        float64 `mapstructure:"rate_limit"`
	RateBurst        int     `mapstructure:"rate_burst"`
	FailureThreshold uint32  `mapstructure:"failure_threshold"`
	BreakerTimeout   int     `mapstructure:"breaker_timeout"`
	MissTTL          int     `mapstructure:"miss_ttl"`
}

// FeedConfig 动态流
type FeedConfig struct {
	DefaultLimit     int `mapstructure:"default_limit"`
	MaxLimit         int `mapstructure:"max_limit"`
	EnrichBudget     int `mapstructure:"enrich_budget"`
	EnrichConcurrent int `mapstructure:"enrich_concurrent"`
}

// CronConfig 定时任务表达式
type CronConfig struct {
	PosterBackfill string `mapstructure:"poster_backfill"`
	PosterBatch    int    `mapstructure:"poster_batch"`
	SlotReconcile  string `mapstructure:"slot_reconcile"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Version  string         `mapstructure:"version"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
	// oldest 用于新消费组回放历史 binlog
	InitialOffset string `mapstructure:"initial_offset"`
}

type KafkaTopicConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
