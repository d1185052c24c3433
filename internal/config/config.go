package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Annotation AnnotationConfig `yaml:"annotation"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"takeoff-backend"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

// AuthConfig holds bearer-token settings.
type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"   env:"AUTH_JWT_SECRET"`
	JWTIssuer   string        `yaml:"jwt_issuer"   env:"AUTH_JWT_ISSUER"   env-default:"takeoff"`
	AccessTTL   time.Duration `yaml:"access_ttl"   env:"AUTH_ACCESS_TTL"   env-default:"15m"`
	RequireAuth bool          `yaml:"require_auth" env:"AUTH_REQUIRE_AUTH" env-default:"false"`
}

// AnnotationConfig holds annotation save engine settings.
type AnnotationConfig struct {
	MaxHierarchyDepth int    `yaml:"max_hierarchy_depth" env:"ANNOTATION_MAX_HIERARCHY_DEPTH" env-default:"16"`
	AutoCompleteRuns  bool   `yaml:"auto_complete_runs"  env:"ANNOTATION_AUTO_COMPLETE_RUNS"  env-default:"true"`
	RunLabelSuffix    string `yaml:"run_label_suffix"    env:"ANNOTATION_RUN_LABEL_SUFFIX"    env-default:" Run"`
	PropagateLabels   bool   `yaml:"propagate_labels"    env:"ANNOTATION_PROPAGATE_LABELS"    env-default:"true"`
	HistoryLimit      int    `yaml:"history_limit"       env:"ANNOTATION_HISTORY_LIMIT"       env-default:"100"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)
