// Package config provides configuration loading and access.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration in priority order: default file, environment
// overlay file, environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := loadConfigFile(v, "configs/config.yaml", false); err != nil {
		return nil, err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := fmt.Sprintf("configs/config.%s.yaml", env)
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// loadConfigFile reads a file, expands env placeholders, and merges it.
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnv(string(content))

	reader := strings.NewReader(expanded)
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv replaces ${VAR} and ${VAR:default} placeholders.
func expandEnv(s string) string {
	re := regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		submatch := re.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		val, ok := os.LookupEnv(key)
		if ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		// keep unresolved placeholders visible
		return match
	})
}

// MustLoad loads configuration and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "floatchat")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "60s")
	v.SetDefault("server.http.idle_timeout", "120s")

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "floatchat_user")
	v.SetDefault("database.postgres.database", "floatchat_db")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 50)
	v.SetDefault("database.postgres.max_idle_conns", 10)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")
	v.SetDefault("database.postgres.conn_max_idle_time", "5m")

	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 100)
	v.SetDefault("cache.redis.min_idle_conns", 10)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	v.SetDefault("vector.milvus.host", "localhost")
	v.SetDefault("vector.milvus.port", 19530)
	v.SetDefault("vector.milvus.collection_prefix", "floatchat")
	v.SetDefault("vector.milvus.index_type", "HNSW")
	v.SetDefault("vector.milvus.metric_type", "COSINE")
	v.SetDefault("vector.milvus.hnsw_m", 16)
	v.SetDefault("vector.milvus.hnsw_ef_construction", 200)

	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "BAAI/bge-m3")
	v.SetDefault("embedding.dimension", 1024)

	v.SetDefault("retrieval.min_year", 2020)
	v.SetDefault("retrieval.max_year", 2025)
	v.SetDefault("retrieval.structured_limit", 100)
	v.SetDefault("retrieval.export_limit", 100000)
	v.SetDefault("retrieval.vector_top_k", 8)
	v.SetDefault("retrieval.vector_top_k_max", 12)
	v.SetDefault("retrieval.similarity_floor", 0.25)
	v.SetDefault("retrieval.min_corroborating", 5)
	v.SetDefault("retrieval.timeout", "10s")

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.requests_per_second", 100)
	v.SetDefault("security.rate_limit.burst", 200)
}
