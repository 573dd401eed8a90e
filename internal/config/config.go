package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Tillpoint"`
		Env  string `envconfig:"APP_ENV" default:"production"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tillpoint"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
	}

	Auth struct {
		Secret   string        `envconfig:"JWT_SECRET" required:"true"`
		Issuer   string        `envconfig:"JWT_ISSUER" default:"tillpoint"`
		TokenTTL time.Duration `envconfig:"JWT_TTL" default:"12h"`
	}

	Business struct {
		// UTCOffset places the business day: a sale belongs to the calendar
		// date it falls on in this fixed zone.
		UTCOffset time.Duration `envconfig:"BUSINESS_UTC_OFFSET" default:"6h"`
	}

	Logger struct {
		Level    string `envconfig:"LOG_LEVEL" default:"info"`
		Encoding string `envconfig:"LOG_ENCODING" default:"json"`
	}

	Events struct {
		Driver      string   `envconfig:"EVENTS_DRIVER" default:"none"`
		RedisStream string   `envconfig:"EVENTS_REDIS_STREAM" default:"tillpoint:events"`
		Brokers     []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
		Topic       string   `envconfig:"KAFKA_TOPIC" default:"tillpoint.transactions"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD" default:""`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Report struct {
		ServiceURL string `envconfig:"REPORT_SERVICE_URL"`
		Token      string `envconfig:"REPORT_SERVICE_TOKEN"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// BusinessLocation is the fixed zone every rollup bucket is computed in.
func (c *Config) BusinessLocation() *time.Location {
	offset := int(c.Business.UTCOffset / time.Second)
	return time.FixedZone(fmt.Sprintf("UTC%+d", offset/3600), offset)
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Business.UTCOffset%time.Minute != 0 {
		return nil, fmt.Errorf("BUSINESS_UTC_OFFSET must be whole minutes, got %s", cfg.Business.UTCOffset)
	}

	return &cfg, nil
}
