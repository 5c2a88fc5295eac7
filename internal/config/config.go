package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Geo      GeoConfig
	Tables   TablesConfig
	Keywords KeywordsConfig
	Batch    BatchConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the export archive bucket.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Enabled       bool   `mapstructure:"enabled"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// GeoConfig holds the geographic resolution parameters. The defaults are
// the documented ones; they are tunable because the corroboration and
// tolerance constants should be validated against labeled data.
type GeoConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	CoordinateTolerance float64 `mapstructure:"coordinate_tolerance"`
	CorroborationBoost  float64 `mapstructure:"corroboration_boost"`
	UTMConfidence       float64 `mapstructure:"utm_confidence"`
	LatLongConfidence   float64 `mapstructure:"latlong_confidence"`
	AmbiguousConfidence float64 `mapstructure:"ambiguous_confidence"`
	ContextRadius       int     `mapstructure:"context_radius"`
}

// TablesConfig holds table quality filter parameters.
type TablesConfig struct {
	Threshold        float64 `mapstructure:"threshold"`
	OverlapThreshold float64 `mapstructure:"overlap_threshold"`
	MinRows          int     `mapstructure:"min_rows"`
	MinColumns       int     `mapstructure:"min_columns"`
}

// KeywordsConfig holds keyword scorer parameters.
type KeywordsConfig struct {
	MaxTerms   int      `mapstructure:"max_terms"`
	MinLength  int      `mapstructure:"min_length"`
	VocabBoost float64  `mapstructure:"vocab_boost"`
	Vocabulary []string `mapstructure:"vocabulary"`
}

// BatchConfig holds batch worker settings.
type BatchConfig struct {
	InputDir         string `mapstructure:"input_dir"`
	PollIntervalSecs int    `mapstructure:"poll_interval_secs"`
	MaxRetries       int    `mapstructure:"max_retries"`
	Concurrency      int    `mapstructure:"concurrency"`
	TimeoutSecs      int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the FIELDATLAS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FIELDATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "fieldatlas")
	v.SetDefault("db.password", "fieldatlas_secret")
	v.SetDefault("db.name", "fieldatlas_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults (export archive; disabled unless configured)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "fieldatlas-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.presign_expiry", 3600)

	// Geo defaults
	v.SetDefault("geo.similarity_threshold", 0.82)
	v.SetDefault("geo.coordinate_tolerance", 0.01)
	v.SetDefault("geo.corroboration_boost", 0.05)
	v.SetDefault("geo.utm_confidence", 0.97)
	v.SetDefault("geo.latlong_confidence", 0.95)
	v.SetDefault("geo.ambiguous_confidence", 0.90)
	v.SetDefault("geo.context_radius", 80)

	// Tables defaults
	v.SetDefault("tables.threshold", 0.5)
	v.SetDefault("tables.overlap_threshold", 0.70)
	v.SetDefault("tables.min_rows", 2)
	v.SetDefault("tables.min_columns", 2)

	// Keywords defaults
	v.SetDefault("keywords.max_terms", 25)
	v.SetDefault("keywords.min_length", 3)
	v.SetDefault("keywords.vocab_boost", 2.0)
	v.SetDefault("keywords.vocabulary", "")

	// Batch defaults
	v.SetDefault("batch.input_dir", "data/extracted")
	v.SetDefault("batch.poll_interval_secs", 10)
	v.SetDefault("batch.max_retries", 3)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.timeout_secs", 120)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "FIELDATLAS_SERVER_PORT",
		"server.read_timeout":      "FIELDATLAS_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "FIELDATLAS_SERVER_WRITE_TIMEOUT",
		"server.environment":       "FIELDATLAS_SERVER_ENVIRONMENT",
		"db.host":                  "FIELDATLAS_DB_HOST",
		"db.port":                  "FIELDATLAS_DB_PORT",
		"db.user":                  "FIELDATLAS_DB_USER",
		"db.password":              "FIELDATLAS_DB_PASSWORD",
		"db.name":                  "FIELDATLAS_DB_NAME",
		"db.sslmode":               "FIELDATLAS_DB_SSLMODE",
		"db.max_open":              "FIELDATLAS_DB_MAX_OPEN",
		"db.max_idle":              "FIELDATLAS_DB_MAX_IDLE",
		"s3.region":                "FIELDATLAS_S3_REGION",
		"s3.bucket":                "FIELDATLAS_S3_BUCKET",
		"s3.endpoint":              "FIELDATLAS_S3_ENDPOINT",
		"s3.access_key":            "FIELDATLAS_S3_ACCESS_KEY",
		"s3.secret_key":            "FIELDATLAS_S3_SECRET_KEY",
		"s3.enabled":               "FIELDATLAS_S3_ENABLED",
		"s3.presign_expiry":        "FIELDATLAS_S3_PRESIGN_EXPIRY",
		"geo.similarity_threshold": "FIELDATLAS_GEO_SIMILARITY_THRESHOLD",
		"geo.coordinate_tolerance": "FIELDATLAS_GEO_COORDINATE_TOLERANCE",
		"geo.corroboration_boost":  "FIELDATLAS_GEO_CORROBORATION_BOOST",
		"geo.utm_confidence":       "FIELDATLAS_GEO_UTM_CONFIDENCE",
		"geo.latlong_confidence":   "FIELDATLAS_GEO_LATLONG_CONFIDENCE",
		"geo.ambiguous_confidence": "FIELDATLAS_GEO_AMBIGUOUS_CONFIDENCE",
		"geo.context_radius":       "FIELDATLAS_GEO_CONTEXT_RADIUS",
		"tables.threshold":         "FIELDATLAS_TABLES_THRESHOLD",
		"tables.overlap_threshold": "FIELDATLAS_TABLES_OVERLAP_THRESHOLD",
		"tables.min_rows":          "FIELDATLAS_TABLES_MIN_ROWS",
		"tables.min_columns":       "FIELDATLAS_TABLES_MIN_COLUMNS",
		"keywords.max_terms":       "FIELDATLAS_KEYWORDS_MAX_TERMS",
		"keywords.min_length":      "FIELDATLAS_KEYWORDS_MIN_LENGTH",
		"keywords.vocab_boost":     "FIELDATLAS_KEYWORDS_VOCAB_BOOST",
		"keywords.vocabulary":      "FIELDATLAS_KEYWORDS_VOCABULARY",
		"batch.input_dir":          "FIELDATLAS_BATCH_INPUT_DIR",
		"batch.poll_interval_secs": "FIELDATLAS_BATCH_POLL_INTERVAL_SECS",
		"batch.max_retries":        "FIELDATLAS_BATCH_MAX_RETRIES",
		"batch.concurrency":        "FIELDATLAS_BATCH_CONCURRENCY",
		"batch.timeout_secs":       "FIELDATLAS_BATCH_TIMEOUT_SECS",
		"cors.allowed_origins":     "FIELDATLAS_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated list envs arrive as single strings.
	cfg.CORS.AllowedOrigins = splitCommaList(v.GetString("cors.allowed_origins"))
	cfg.Keywords.Vocabulary = splitCommaList(v.GetString("keywords.vocabulary"))

	if cfg.S3.AccessKey == "" {
		cfg.S3.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if cfg.S3.SecretKey == "" {
		cfg.S3.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	return &cfg, nil
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
