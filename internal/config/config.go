package config

import (
	"errors"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddress string `env:"HTTP_ADDRESS" envDefault:":8088"`

	// development: bearer token accepted by the local auth provider
	AuthToken      string `env:"AUTH_TOKEN" envDefault:"MOCK-TOKEN"`
	AuthServiceURL string `env:"AUTH_SERVICE_URL"`
	OwnerID        string `env:"OWNER_ID" envDefault:"u1"`
	OwnerName      string `env:"OWNER_NAME" envDefault:"Demo User"`
	OwnerEmail     string `env:"OWNER_EMAIL"`

	DBType            string `env:"STORAGE_BACKEND" envDefault:"file"`
	DBDSN             string `env:"POSTGRES_DSN"`
	FileTokens        string `env:"TOKENS_FILE" envDefault:"data/googlefit.json"`
	FileNotifications string `env:"NOTIFICATIONS_FILE" envDefault:"data/notifications.json"`
	SQLitePath        string `env:"SQLITE_PATH" envDefault:"data/omi.db"`
	RedisAddr         string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisUser         string `env:"REDIS_USER"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`

	GoogleFit GoogleFitConfig
	Refresh   RefreshConfig
	Email     EmailConfig
}

type GoogleFitConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8088/oauth/callback"`
	// Endpoint overrides; empty means the provider defaults.
	AuthURL      string `env:"GOOGLE_AUTH_URL"`
	TokenURL     string `env:"GOOGLE_TOKEN_URL"`
	TokenInfoURL string `env:"GOOGLE_TOKENINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v1/tokeninfo"`
	FitnessURL   string `env:"GOOGLE_FITNESS_URL" envDefault:"https://www.googleapis.com/fitness/v1"`
}

type RefreshConfig struct {
	Interval    time.Duration `env:"REFRESH_INTERVAL" envDefault:"5m"`
	MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay  time.Duration `env:"RETRY_DELAY" envDefault:"2s"`

	// ReachabilityTimeout bounds the reachability check before each fetch; 0 disables it.
	ReachabilityTimeout time.Duration `env:"OFFLINE_CHECK_TIMEOUT" envDefault:"3s"`
}

type EmailConfig struct {
	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"MAILGUN_API_KEY"`
	FromEmail     string `env:"EMAIL_FROM_ADDRESS" envDefault:"alerts@omi-mentor.local"`
	FromName      string `env:"EMAIL_FROM_NAME" envDefault:"Omi Mentor"`
	// AlertEmail enables automatic alerts for every snapshot with an issue.
	AlertEmail    string        `env:"ALERT_EMAIL"`
	AlertsPerHour int           `env:"ALERTS_PER_HOUR" envDefault:"4"`
	AlertBurst    int           `env:"ALERT_BURST" envDefault:"1"`
	AlertWindow   time.Duration `env:"ALERT_WINDOW" envDefault:"1h"`
}

func (e EmailConfig) MailgunConfigured() bool {
	return e.MailgunDomain != "" && e.MailgunAPIKey != ""
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads .env (when present) and the environment once per process.
func Load() *Config {
	once.Do(func() {
		c, err := Parse()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// Parse builds and validates a fresh Config without caching it.
func Parse() (*Config, error) {
	_ = godotenv.Load()
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "file":
		if c.FileTokens == "" || c.FileNotifications == "" {
			return errors.New("File storage requires TOKENS_FILE and NOTIFICATIONS_FILE to be set")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when STORAGE_BACKEND=redis")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, sqlite, redis, postgres")
	}
	if c.OwnerID == "" {
		return errors.New("OWNER_ID is required")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	if c.Refresh.MaxAttempts < 1 {
		return errors.New("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if c.Refresh.Interval <= 0 {
		return errors.New("REFRESH_INTERVAL must be positive")
	}
	return nil
}
