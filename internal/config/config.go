package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string     `env:"PORT" env-default:"8080"`
	Environment string     `env:"ENVIRONMENT" env-default:"development"`
	LogLevel    slog.Level `env:"-"`
	LogLevelRaw string     `env:"LOG_LEVEL" env-default:"info"`
	CORSOrigins []string   `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	FrontendURL string     `env:"FRONTEND_URL" env-default:"http://localhost:5173"`

	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	RedisURL    string `env:"REDIS_URL"`

	Mongo         MongoConfig
	JWT           JWTConfig
	AI            AIConfig
	Minio         MinioConfig
	Elasticsearch ElasticsearchConfig
	Kafka         KafkaConfig
	Mail          MailConfig
	Casdoor       CasdoorConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DATABASE" env-default:"learning"`
}

type JWTConfig struct {
	Secret       string        `env:"JWT_SECRET" env-required:"true"`
	TTL          time.Duration `env:"JWT_TTL" env-default:"24h"`
	CookieName   string        `env:"JWT_COOKIE_NAME" env-default:"token"`
	CookieSecure bool          `env:"JWT_COOKIE_SECURE" env-default:"false"`
}

type AIConfig struct {
	APIKey     string `env:"AI_API_KEY"`
	BaseURL    string `env:"AI_BASE_URL"`
	ChatModel  string `env:"AI_CHAT_MODEL" env-default:"gpt-4o-mini"`
	ImageModel string `env:"AI_IMAGE_MODEL" env-default:"dall-e-3"`
}

type MinioConfig struct {
	Endpoint   string        `env:"MINIO_ENDPOINT"`
	AccessKey  string        `env:"MINIO_ACCESS_KEY"`
	SecretKey  string        `env:"MINIO_SECRET_KEY"`
	Bucket     string        `env:"MINIO_BUCKET" env-default:"learning-media"`
	UseSSL     bool          `env:"MINIO_USE_SSL" env-default:"false"`
	PublicURL  string        `env:"MINIO_PUBLIC_URL"`
	PresignTTL time.Duration `env:"MINIO_PRESIGN_TTL" env-default:"24h"`
}

type ElasticsearchConfig struct {
	Addresses []string `env:"ELASTICSEARCH_ADDRESSES" env-separator:","`
	Username  string   `env:"ELASTICSEARCH_USERNAME"`
	Password  string   `env:"ELASTICSEARCH_PASSWORD"`
	Index     string   `env:"ELASTICSEARCH_INDEX" env-default:"courses"`
}

type KafkaConfig struct {
	Brokers       []string `env:"KAFKA_BROKERS" env-separator:","`
	ConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" env-default:"learning-service"`
	Topic         string   `env:"KAFKA_TOPIC" env-default:"learning.activity"`
}

type MailConfig struct {
	Provider     string `env:"MAIL_PROVIDER" env-default:"log"`
	From         string `env:"MAIL_FROM" env-default:"no-reply@learning.local"`
	FromName     string `env:"MAIL_FROM_NAME" env-default:"Learning Platform"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SendgridKey  string `env:"SENDGRID_API_KEY"`
}

type CasdoorConfig struct {
	Endpoint     string `env:"CASDOOR_ENDPOINT"`
	ClientID     string `env:"CASDOOR_CLIENT_ID"`
	ClientSecret string `env:"CASDOOR_CLIENT_SECRET"`
	Cert         string `env:"CASDOOR_CERT"`
	Organization string `env:"CASDOOR_ORGANIZATION"`
	Application  string `env:"CASDOOR_APPLICATION"`
}

// Enabled reports whether SSO sign-in is configured
func (c CasdoorConfig) Enabled() bool {
	return c.Endpoint != "" && c.ClientID != ""
}

func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c MinioConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LoadConfig reads an optional .env file and then the process environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	level, err := ParseLogLevel(cfg.LogLevelRaw)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return &cfg, nil
}

func ParseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(raw)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
