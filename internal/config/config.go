// Package config provides configuration loading and access.
package config

import (
	"time"
)

// Config is the application configuration root.
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Vector        VectorConfig        `yaml:"vector" mapstructure:"vector"`
	Embedding     EmbeddingConfig     `yaml:"embedding" mapstructure:"embedding"`
	Retrieval     RetrievalConfig     `yaml:"retrieval" mapstructure:"retrieval"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig holds base application settings.
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig holds HTTP server settings.
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// PostgresConfig holds PostgreSQL settings.
type PostgresConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig holds Redis settings.
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// VectorConfig holds vector store settings.
type VectorConfig struct {
	Milvus MilvusConfig `yaml:"milvus" mapstructure:"milvus"`
}

// MilvusConfig holds Milvus settings.
type MilvusConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	CollectionPrefix   string `yaml:"collection_prefix" mapstructure:"collection_prefix"`
	IndexType          string `yaml:"index_type" mapstructure:"index_type"`
	MetricType         string `yaml:"metric_type" mapstructure:"metric_type"`
	HNSWM              int    `yaml:"hnsw_m" mapstructure:"hnsw_m"`
	HNSWEfConstruction int    `yaml:"hnsw_ef_construction" mapstructure:"hnsw_ef_construction"`
}

// EmbeddingConfig holds embedding client settings.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	Model     string `yaml:"model" mapstructure:"model"`
	Dimension int    `yaml:"dimension" mapstructure:"dimension"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
}

// RetrievalConfig holds the query-routing and retrieval policy knobs.
type RetrievalConfig struct {
	// MinYear/MaxYear bound the years the temporal extractor accepts,
	// matching the corpus coverage window.
	MinYear int `yaml:"min_year" mapstructure:"min_year"`
	MaxYear int `yaml:"max_year" mapstructure:"max_year"`

	// StructuredLimit caps row counts on the normal query path.
	// ExportLimit is the ceiling reachable only with an explicit
	// export confirmation flag.
	StructuredLimit int `yaml:"structured_limit" mapstructure:"structured_limit"`
	ExportLimit     int `yaml:"export_limit" mapstructure:"export_limit"`

	// VectorTopK is the default nearest-neighbor count; VectorTopKMax is
	// the cap for complex/comparative queries.
	VectorTopK    int `yaml:"vector_top_k" mapstructure:"vector_top_k"`
	VectorTopKMax int `yaml:"vector_top_k_max" mapstructure:"vector_top_k_max"`

	// SimilarityFloor drops vector candidates below this score rather
	// than padding results to top-k.
	SimilarityFloor float64 `yaml:"similarity_floor" mapstructure:"similarity_floor"`

	// MinCorroborating is the structured row count needed for a
	// high-confidence band.
	MinCorroborating int `yaml:"min_corroborating" mapstructure:"min_corroborating"`

	// Timeout bounds each adapter call within a request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ObservabilityConfig holds logging/tracing/metrics settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig holds tracing settings.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig holds security settings.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig holds rate-limit settings.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
