package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Admin      AdminConfig
	SMTP       SMTPConfig
	Kafka      KafkaConfig
	Classifier ClassifierConfig
	Translator TranslatorConfig
	LLM        LLMConfig
	S3         S3Config
	Sentry     SentryConfig
}

type AppConfig struct {
	Port                string
	Env                 string
	LogLevel            string
	ExternalCallTimeout time.Duration
	CORSAllowedOrigin   string
}

// DBConfig selects the persistence backend. Driver is either "sqlite" or "postgres".
type DBConfig struct {
	Driver     string
	SQLitePath string
	URL        string
	SSLMode    string
}

type RedisConfig struct {
	Host          string
	Port          string
	Password      string
	DB            int
	HistoryWindow int
	SessionTTL    time.Duration
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type AdminConfig struct {
	AccessCodeHash string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Sender    string
	Recipient string
}

type KafkaConfig struct {
	Brokers      []string
	BookingTopic string
}

type ClassifierConfig struct {
	URL string
}

type TranslatorConfig struct {
	URL    string
	APIKey string
}

type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
}

type SentryConfig struct {
	DSN string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("EXTERNAL_CALL_TIMEOUT", "5s")
	viper.SetDefault("CORS_ALLOWED_ORIGIN", "*")

	viper.SetDefault("DB_DRIVER", DriverSQLite)
	viper.SetDefault("DB_SQLITE_PATH", "data/medguide.db")
	viper.SetDefault("DB_SSLMODE", "require")

	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("CHAT_HISTORY_WINDOW", 6)
	viper.SetDefault("CHAT_SESSION_TTL", "24h")

	viper.SetDefault("JWT_ACCESS_EXPIRY", "1h")

	viper.SetDefault("SMTP_PORT", 465)
	viper.SetDefault("KAFKA_BOOKING_TOPIC", "bookings")

	viper.SetDefault("LLM_BASE_URL", "https://api.groq.com/openai/v1")
	viper.SetDefault("LLM_MODEL", "llama-3.1-8b-instant")
	viper.SetDefault("LLM_TEMPERATURE", 0.4)
}

func LoadConfig() (*Config, error) {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// The environment alone is a valid configuration source.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	externalTimeout := viper.GetDuration("EXTERNAL_CALL_TIMEOUT")
	if externalTimeout <= 0 {
		externalTimeout = 5 * time.Second
	}

	accessExpiry := viper.GetDuration("JWT_ACCESS_EXPIRY")
	if accessExpiry <= 0 {
		accessExpiry = time.Hour
	}

	sessionTTL := viper.GetDuration("CHAT_SESSION_TTL")
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:                viper.GetString("APP_PORT"),
			Env:                 viper.GetString("APP_ENV"),
			LogLevel:            viper.GetString("LOG_LEVEL"),
			ExternalCallTimeout: externalTimeout,
			CORSAllowedOrigin:   viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Driver:     strings.ToLower(viper.GetString("DB_DRIVER")),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
			URL:        viper.GetString("DB_URL"),
			SSLMode:    viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:          viper.GetString("REDIS_HOST"),
			Port:          viper.GetString("REDIS_PORT"),
			Password:      viper.GetString("REDIS_PASSWORD"),
			DB:            viper.GetInt("REDIS_DB"),
			HistoryWindow: viper.GetInt("CHAT_HISTORY_WINDOW"),
			SessionTTL:    sessionTTL,
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Admin: AdminConfig{
			AccessCodeHash: viper.GetString("ADMIN_ACCESS_CODE_HASH"),
		},
		SMTP: SMTPConfig{
			Host:      viper.GetString("SMTP_HOST"),
			Port:      viper.GetInt("SMTP_PORT"),
			Username:  viper.GetString("SMTP_USERNAME"),
			Password:  viper.GetString("SMTP_PASSWORD"),
			Sender:    viper.GetString("SMTP_SENDER"),
			Recipient: viper.GetString("SMTP_RECIPIENT"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(viper.GetString("KAFKA_BROKERS")),
			BookingTopic: viper.GetString("KAFKA_BOOKING_TOPIC"),
		},
		Classifier: ClassifierConfig{
			URL: viper.GetString("CLASSIFIER_URL"),
		},
		Translator: TranslatorConfig{
			URL:    viper.GetString("TRANSLATOR_URL"),
			APIKey: viper.GetString("TRANSLATOR_API_KEY"),
		},
		LLM: LLMConfig{
			BaseURL:     viper.GetString("LLM_BASE_URL"),
			APIKey:      viper.GetString("LLM_API_KEY"),
			Model:       viper.GetString("LLM_MODEL"),
			Temperature: viper.GetFloat64("LLM_TEMPERATURE"),
		},
		S3: S3Config{
			Bucket:   viper.GetString("S3_BUCKET"),
			Region:   viper.GetString("S3_REGION"),
			Endpoint: viper.GetString("S3_ENDPOINT"),
		},
		Sentry: SentryConfig{
			DSN: viper.GetString("SENTRY_DSN"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return errors.New("DB_SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DB.URL == "" {
			return errors.New("DB_URL is required for the postgres driver")
		}
		if c.DB.SSLMode != "" && !IsEncryptedSSLMode(c.DB.SSLMode) {
			return errors.New("DB_SSLMODE must be one of require, verify-ca, verify-full")
		}
	default:
		return errors.New("DB_DRIVER must be one of sqlite, postgres")
	}

	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}

	return nil
}

// IsEncryptedSSLMode reports whether a postgres sslmode always uses TLS.
func IsEncryptedSSLMode(mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "require", "verify-ca", "verify-full":
		return true
	}
	return false
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// splitList splits a comma separated env value. viper.GetStringSlice splits on whitespace only.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
