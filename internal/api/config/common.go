package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	// REAVIEW_PROVIDER_TMDB_API_KEY 覆盖 provider.tmdb_api_key，密钥不落配置文件
	viper.SetEnvPrefix("REAVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.slow_sql", 200)
	viper.SetDefault("log.slow_redis", 100)
	viper.SetDefault("log.slow_mongo", 200)
	viper.SetDefault("log.access_json", true)
	viper.SetDefault("jwt.issuer", "ReaView")
	viper.SetDefault("jwt.expire_hour", 24)
	viper.SetDefault("provider.tmdb_base_url", "https://api.themoviedb.org/3")
	viper.SetDefault("provider.tmdb_image_url", "https://image.tmdb.org/t/p/w500")
	viper.SetDefault("provider.google_books_url", "https://www.googleapis.com/books/v1")
	viper.SetDefault("provider.open_library_url", "https://openlibrary.org")
	viper.SetDefault("provider.open_library_cover", "https://covers.openlibrary.org/b/id")
	viper.SetDefault("provider.timeout", 3)
	viper.SetDefault("provider.rate_limit", 20)
	viper.SetDefault("provider.rate_burst", 5)
	viper.SetDefault("provider.failure_threshold", 5)
	viper.SetDefault("provider.breaker_timeout", 30)
	viper.SetDefault("provider.miss_ttl", 3600)
	viper.SetDefault("feed.default_limit", 15)
	viper.SetDefault("feed.max_limit", 50)
	viper.SetDefault("feed.enrich_budget", 4)
	viper.SetDefault("feed.enrich_concurrent", 4)
	viper.SetDefault("cron.poster_backfill", "0 */30 * * * *")
	viper.SetDefault("cron.poster_batch", 50)
	viper.SetDefault("cron.slot_reconcile", "0 30 3 * * *")
	viper.SetDefault("kafka.consumer.initial_offset", "newest")
}
