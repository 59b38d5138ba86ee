package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

type Config struct {
	Environment string
	Name        string
	Version     string
	LogLevel    string
	HTTP        HTTPConfig
	Storage     StorageConfig
	Postgres    PostgresConfig
	JWT         JWTConfig
	S3          S3Config
	Twilio      TwilioConfig
	OTP         OTPConfig
	Kafka       KafkaConfig
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxHeaderMB  int
	CORSOrigins  []string
}

type StorageConfig struct {
	Driver        string
	DataDir       string
	MigrationsDir string
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
}

type JWTConfig struct {
	SigningKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// Enabled reports whether photo uploads have somewhere to go.
func (c S3Config) Enabled() bool {
	return c.Endpoint != ""
}

type TwilioConfig struct {
	AccountSID       string
	AuthToken        string
	VerifyServiceSID string
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.VerifyServiceSID != ""
}

type OTPConfig struct {
	SendsPerMinute float64
	Burst          int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	// WriteTimeout bounds a single publish, including broker retries.
	WriteTimeout time.Duration
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Topic != ""
}

var defaults = map[string]any{
	"APP_ENV":                       "development",
	"APP_NAME":                      "carepoint",
	"APP_VERSION":                   "1.0.0",
	"LOG_LEVEL":                     "info",
	"HTTP_PORT":                     "8080",
	"HTTP_READ_TIMEOUT":             "10s",
	"HTTP_WRITE_TIMEOUT":            "10s",
	"HTTP_MAX_HEADER_MB":            1,
	"CORS_ORIGINS":                  "*",
	"STORAGE_DRIVER":                StorageDriverPostgres,
	"STORAGE_DATA_DIR":              "data",
	"MIGRATIONS_DIR":                "migrations",
	"POSTGRES_HOST":                 "localhost",
	"POSTGRES_PORT":                 "5432",
	"POSTGRES_USER":                 "postgres",
	"POSTGRES_PASSWORD":             "postgres",
	"POSTGRES_DB":                   "carepoint",
	"POSTGRES_SSL_MODE":             "disable",
	"POSTGRES_MAX_CONNECTIONS":      10,
	"POSTGRES_MAX_IDLE_CONNECTIONS": 5,
	"POSTGRES_MAX_LIFETIME":         "5m",
	"JWT_SIGNING_KEY":               "your_secret_key",
	"JWT_ACCESS_TOKEN_TTL":          "15m",
	"JWT_REFRESH_TOKEN_TTL":         "24h",
	"S3_ENDPOINT":                   "",
	"S3_REGION":                     "us-east-1",
	"S3_ACCESS_KEY_ID":              "",
	"S3_SECRET_ACCESS_KEY":          "",
	"S3_BUCKET":                     "carepoint",
	"S3_USE_SSL":                    true,
	"TWILIO_ACCOUNT_SID":            "",
	"TWILIO_AUTH_TOKEN":             "",
	"TWILIO_VERIFY_SERVICE_SID":     "",
	"OTP_SENDS_PER_MINUTE":          1.0,
	"OTP_BURST":                     3,
	"KAFKA_BROKERS":                 "",
	"KAFKA_TOPIC":                   "carepoint.events",
	"KAFKA_WRITE_TIMEOUT":           "2s",
}

// NewConfig reads an optional .env file, then the environment. Environment
// variables win over the file.
func NewConfig() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}

	// A missing .env is fine.
	_ = v.ReadInConfig()

	httpReadTimeout, err := duration(v, "HTTP_READ_TIMEOUT")
	if err != nil {
		return nil, err
	}

	httpWriteTimeout, err := duration(v, "HTTP_WRITE_TIMEOUT")
	if err != nil {
		return nil, err
	}

	postgresMaxLifetime, err := duration(v, "POSTGRES_MAX_LIFETIME")
	if err != nil {
		return nil, err
	}

	accessTTL, err := duration(v, "JWT_ACCESS_TOKEN_TTL")
	if err != nil {
		return nil, err
	}

	refreshTTL, err := duration(v, "JWT_REFRESH_TOKEN_TTL")
	if err != nil {
		return nil, err
	}

	kafkaWriteTimeout, err := duration(v, "KAFKA_WRITE_TIMEOUT")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		Name:        v.GetString("APP_NAME"),
		Version:     v.GetString("APP_VERSION"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Port:         v.GetString("HTTP_PORT"),
			ReadTimeout:  httpReadTimeout,
			WriteTimeout: httpWriteTimeout,
			MaxHeaderMB:  v.GetInt("HTTP_MAX_HEADER_MB"),
			CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(v.GetString("STORAGE_DRIVER")),
			DataDir:       v.GetString("STORAGE_DATA_DIR"),
			MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		},
		Postgres: PostgresConfig{
			Host:               v.GetString("POSTGRES_HOST"),
			Port:               v.GetString("POSTGRES_PORT"),
			Username:           v.GetString("POSTGRES_USER"),
			Password:           v.GetString("POSTGRES_PASSWORD"),
			DBName:             v.GetString("POSTGRES_DB"),
			SSLMode:            v.GetString("POSTGRES_SSL_MODE"),
			MaxConnections:     v.GetInt("POSTGRES_MAX_CONNECTIONS"),
			MaxIdleConnections: v.GetInt("POSTGRES_MAX_IDLE_CONNECTIONS"),
			MaxLifetime:        postgresMaxLifetime,
		},
		JWT: JWTConfig{
			SigningKey:      v.GetString("JWT_SIGNING_KEY"),
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
		},
		S3: S3Config{
			Endpoint:        v.GetString("S3_ENDPOINT"),
			Region:          v.GetString("S3_REGION"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("S3_BUCKET"),
			UseSSL:          v.GetBool("S3_USE_SSL"),
		},
		Twilio: TwilioConfig{
			AccountSID:       v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:        v.GetString("TWILIO_AUTH_TOKEN"),
			VerifyServiceSID: v.GetString("TWILIO_VERIFY_SERVICE_SID"),
		},
		OTP: OTPConfig{
			SendsPerMinute: v.GetFloat64("OTP_SENDS_PER_MINUTE"),
			Burst:          v.GetInt("OTP_BURST"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			Topic:        v.GetString("KAFKA_TOPIC"),
			WriteTimeout: kafkaWriteTimeout,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverSQLite:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverSQLite, c.Storage.Driver)
	}
	if c.IsProduction() && c.JWT.SigningKey == defaults["JWT_SIGNING_KEY"] {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}
	if c.OTP.SendsPerMinute <= 0 || c.OTP.Burst <= 0 {
		return fmt.Errorf("OTP_SENDS_PER_MINUTE and OTP_BURST must be positive")
	}
	if c.Kafka.WriteTimeout <= 0 {
		return fmt.Errorf("KAFKA_WRITE_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
