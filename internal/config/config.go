package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Поддерживаемые драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Holds     HoldsConfig     `toml:"holds"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Events    EventsConfig    `toml:"events"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки хранилища
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	SeedFile        string `toml:"seed_file"`         // начальные данные для драйвера memory
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// HoldsConfig настройки временных удержаний мест
type HoldsConfig struct {
	TimeoutSeconds       int `toml:"timeout_seconds"`
	ShutdownGraceSeconds int `toml:"shutdown_grace_seconds"`
	LockWaitMillis       int `toml:"lock_wait_millis"`
}

// RateLimitConfig ограничение частоты запросов на удержание мест (на сессию)
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"rps"`
	Burst             int     `toml:"burst"`
	IdleTTLSeconds    int     `toml:"idle_ttl_seconds"`
}

// EventsConfig публикация событий о записях в RabbitMQ
type EventsConfig struct {
	Enabled bool   `toml:"enabled"`
	AMQPURL string `toml:"amqp_url"`
	Queue   string `toml:"queue"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию и валидирует её
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv позволяет не хранить секреты в файле
func (c *Config) applyEnv() {
	if v := os.Getenv("APPOINTMENT_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("APPOINTMENT_AMQP_URL"); v != "" {
		c.Events.AMQPURL = v
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment-service"
	}

	setDefault(&c.Holds.TimeoutSeconds, 60)
	setDefault(&c.Holds.ShutdownGraceSeconds, 60)
	setDefault(&c.Holds.LockWaitMillis, 2000)

	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 5
	}
	setDefault(&c.RateLimit.Burst, 10)
	setDefault(&c.RateLimit.IdleTTLSeconds, 300)

	if c.Events.Queue == "" {
		c.Events.Queue = "appointment_events"
	}
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must be positive", ErrInvalidConfig)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
		if c.Database.Port <= 0 {
			return fmt.Errorf("%w: database.port must be positive", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Holds.TimeoutSeconds < 0 || c.Holds.ShutdownGraceSeconds < 0 || c.Holds.LockWaitMillis < 0 {
		return fmt.Errorf("%w: holds timeouts must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.Burst < 0 || c.RateLimit.IdleTTLSeconds < 0 {
		return fmt.Errorf("%w: rate_limit values must be positive", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.AMQPURL == "" {
		return fmt.Errorf("%w: events.amqp_url is required when events are enabled", ErrInvalidConfig)
	}
	return nil
}
