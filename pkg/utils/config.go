package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Cache    CacheConfig
	RabbitMQ RabbitMQConfig
	Ticket   TicketConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type SessionConfig struct {
	ExpiryHours  int
	CookieName   string
	CookieSecure bool
	BcryptCost   int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

// TicketConfig holds the scheduling and numbering rules.
type TicketConfig struct {
	TransactionNumberSeed  int64
	ConfirmationNumberSeed int64
	MinGapMinutes          int
	MaxGapMinutes          int
}

// SeedConfig.Password has no default; seeded accounts are skipped without it.
type SeedConfig struct {
	OnStart  bool
	Password string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "movie-ticketing")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("SESSION_COOKIE_NAME", "session_token")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("CACHE_PREFIX", "cache")
	v.SetDefault("RABBITMQ_QUEUE", "transaction.events")
	v.SetDefault("TRANSACTION_NUMBER_SEED", 70001)
	v.SetDefault("CONFIRMATION_NUMBER_SEED", 80001)
	v.SetDefault("SCHEDULE_MIN_GAP_MINUTES", 25)
	v.SetDefault("SCHEDULE_MAX_GAP_MINUTES", 45)
	v.SetDefault("SEED_ON_START", false)

	v.AutomaticEnv()

	// .env is optional; environment variables alone are enough in containers
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Session: SessionConfig{
			ExpiryHours:  v.GetInt("SESSION_EXPIRY_HOURS"),
			CookieName:   v.GetString("SESSION_COOKIE_NAME"),
			CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
			BcryptCost:   v.GetInt("BCRYPT_COST"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("CACHE_ENABLED"),
			TTL:     v.GetDuration("CACHE_TTL"),
			Prefix:  v.GetString("CACHE_PREFIX"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Ticket: TicketConfig{
			TransactionNumberSeed:  v.GetInt64("TRANSACTION_NUMBER_SEED"),
			ConfirmationNumberSeed: v.GetInt64("CONFIRMATION_NUMBER_SEED"),
			MinGapMinutes:          v.GetInt("SCHEDULE_MIN_GAP_MINUTES"),
			MaxGapMinutes:          v.GetInt("SCHEDULE_MAX_GAP_MINUTES"),
		},
		Seed: SeedConfig{
			OnStart:  v.GetBool("SEED_ON_START"),
			Password: v.GetString("SEED_PASSWORD"),
		},
	}

	return config, nil
}
