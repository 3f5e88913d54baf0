package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App                AppConfig
	Server             ServerConfig
	AuthDatabase       DatabaseConfig // auth-service database
	CatalogDatabase    DatabaseConfig // catalog-service database
	EnrollmentDatabase DatabaseConfig // enrollment-service database
	StatsDatabase      DatabaseConfig // stats-service database
	Redis              RedisConfig
	Kafka              KafkaConfig
	JWT                JWTConfig
	Google             GoogleConfig
	YouTube            YouTubeConfig
	OTel               OTelConfig
	Services           ServicesConfig
}

// ServicesConfig holds URLs of the other microservices
type ServicesConfig struct {
	AuthServiceURL       string
	CatalogServiceURL    string
	EnrollmentServiceURL string
	StatsServiceURL      string
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka/Redpanda connection settings
type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string
}

// JWTConfig holds identity token settings
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
}

// GoogleConfig holds Google token verification settings
type GoogleConfig struct {
	TokenInfoURL string
	Audience     string // optional; verified when set
	Timeout      time.Duration
}

// YouTubeConfig holds YouTube Data API settings
type YouTubeConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool
	ServiceName   string
	CollectorAddr string
	SampleRatio   float64
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// .env is optional, environment variables may be set directly
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "learnhub")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Per-service databases, one database per service
	for _, svc := range []string{"AUTH", "CATALOG", "ENROLLMENT", "STATS"} {
		v.SetDefault(svc+"_DATABASE_HOST", "localhost")
		v.SetDefault(svc+"_DATABASE_PORT", 5432)
		v.SetDefault(svc+"_DATABASE_USER", "postgres")
		v.SetDefault(svc+"_DATABASE_PASSWORD", "postgres")
		v.SetDefault(svc+"_DATABASE_DBNAME", strings.ToLower(svc)+"_db")
		v.SetDefault(svc+"_DATABASE_SSLMODE", "disable")
		v.SetDefault(svc+"_DATABASE_MAX_OPEN_CONNS", 25)
		v.SetDefault(svc+"_DATABASE_MAX_IDLE_CONNS", 5)
		v.SetDefault(svc+"_DATABASE_CONN_MAX_LIFETIME", "1h")
		v.SetDefault(svc+"_DATABASE_CONN_MAX_IDLE_TIME", "30m")
	}

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Kafka defaults
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "learnhub")
	v.SetDefault("KAFKA_CLIENT_ID", "learnhub")

	// JWT defaults
	v.SetDefault("JWT_SECRET", "dev-secret-change-in-production")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("JWT_ISSUER", "learnhub")

	// Google token verification defaults
	v.SetDefault("GOOGLE_TOKEN_INFO_URL", "https://oauth2.googleapis.com/tokeninfo")
	v.SetDefault("GOOGLE_AUDIENCE", "")
	v.SetDefault("GOOGLE_TIMEOUT", "10s")

	// YouTube Data API defaults
	v.SetDefault("YOUTUBE_API_KEY", "")
	v.SetDefault("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("YOUTUBE_TIMEOUT", "10s")

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "learnhub")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	// Service URLs
	v.SetDefault("AUTH_SERVICE_URL", "http://localhost:8081")
	v.SetDefault("CATALOG_SERVICE_URL", "http://localhost:8082")
	v.SetDefault("ENROLLMENT_SERVICE_URL", "http://localhost:8083")
	v.SetDefault("STATS_SERVICE_URL", "http://localhost:8084")
}

func bindDatabase(v *viper.Viper, prefix string, db *DatabaseConfig) {
	db.Host = v.GetString(prefix + "_DATABASE_HOST")
	db.Port = v.GetInt(prefix + "_DATABASE_PORT")
	db.User = v.GetString(prefix + "_DATABASE_USER")
	db.Password = v.GetString(prefix + "_DATABASE_PASSWORD")
	db.DBName = v.GetString(prefix + "_DATABASE_DBNAME")
	db.SSLMode = v.GetString(prefix + "_DATABASE_SSLMODE")
	db.MaxOpenConns = v.GetInt(prefix + "_DATABASE_MAX_OPEN_CONNS")
	db.MaxIdleConns = v.GetInt(prefix + "_DATABASE_MAX_IDLE_CONNS")
	db.ConnMaxLifetime = v.GetDuration(prefix + "_DATABASE_CONN_MAX_LIFETIME")
	db.ConnMaxIdleTime = v.GetDuration(prefix + "_DATABASE_CONN_MAX_IDLE_TIME")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	bindDatabase(v, "AUTH", &cfg.AuthDatabase)
	bindDatabase(v, "CATALOG", &cfg.CatalogDatabase)
	bindDatabase(v, "ENROLLMENT", &cfg.EnrollmentDatabase)
	bindDatabase(v, "STATS", &cfg.StatsDatabase)

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	cfg.Kafka.Brokers = strings.Split(v.GetString("KAFKA_BROKERS"), ",")
	cfg.Kafka.ConsumerGroup = v.GetString("KAFKA_CONSUMER_GROUP")
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")

	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.AccessTokenTTL = v.GetDuration("JWT_ACCESS_TOKEN_TTL")
	cfg.JWT.Issuer = v.GetString("JWT_ISSUER")

	cfg.Google.TokenInfoURL = v.GetString("GOOGLE_TOKEN_INFO_URL")
	cfg.Google.Audience = v.GetString("GOOGLE_AUDIENCE")
	cfg.Google.Timeout = v.GetDuration("GOOGLE_TIMEOUT")

	cfg.YouTube.APIKey = v.GetString("YOUTUBE_API_KEY")
	cfg.YouTube.BaseURL = v.GetString("YOUTUBE_BASE_URL")
	cfg.YouTube.Timeout = v.GetDuration("YOUTUBE_TIMEOUT")

	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	cfg.Services.AuthServiceURL = v.GetString("AUTH_SERVICE_URL")
	cfg.Services.CatalogServiceURL = v.GetString("CATALOG_SERVICE_URL")
	cfg.Services.EnrollmentServiceURL = v.GetString("ENROLLMENT_SERVICE_URL")
	cfg.Services.StatsServiceURL = v.GetString("STATS_SERVICE_URL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	// The shared signing secret is the trust root of the whole deployment
	if c.App.Environment == "production" && c.JWT.Secret == "dev-secret-change-in-production" {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
