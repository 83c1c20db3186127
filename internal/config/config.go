// Package config загружает настройки сервиса из TOML с подстановкой переменных окружения.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "config.toml"

// Драйверы базы данных
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Бэкенды блокировок
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Booking       BookingConfig       `toml:"booking"`
	Redis         RedisConfig         `toml:"redis"`
	Auth          AuthConfig          `toml:"auth"`
	Notifications NotificationsConfig `toml:"notifications"`
	Catalog       CatalogConfig       `toml:"catalog"`
}

type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`     // секунды
	WriteTimeout    int      `toml:"write_timeout"`    // секунды
	IdleTimeout     int      `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int      `toml:"shutdown_timeout"` // секунды
	AllowedOrigins  []string `toml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite3
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл базы для sqlite3
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

type LogsConfig struct {
	File  string `toml:"file"` // пусто = stdout
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	Timezone       string `toml:"timezone"`
	HorizonDays    int    `toml:"horizon_days"`
	MaxRangeDays   int    `toml:"max_range_days"`
	TxRetries      int    `toml:"tx_retries"`
	LockBackend    string `toml:"lock_backend"` // local | redis
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type NotificationsConfig struct {
	Enabled        bool           `toml:"enabled"`
	Workers        int            `toml:"workers"`
	QueueSize      int            `toml:"queue_size"`
	RatePerSecond  float64        `toml:"rate_per_second"`
	TimeoutSeconds int            `toml:"timeout_seconds"`
	Twilio         TwilioConfig   `toml:"twilio"`
	SendGrid       SendGridConfig `toml:"sendgrid"`
}

type TwilioConfig struct {
	Enabled    bool   `toml:"enabled"`
	AccountSID string `toml:"account_sid"`
	AuthToken  string `toml:"auth_token"`
	From       string `toml:"from"`
	Channel    string `toml:"channel"` // whatsapp | sms
}

type SendGridConfig struct {
	Enabled   bool   `toml:"enabled"`
	APIKey    string `toml:"api_key"`
	FromEmail string `toml:"from_email"`
	FromName  string `toml:"from_name"`
}

type CatalogConfig struct {
	Path string `toml:"path"` // пусто = синхронизация отключена
}

// Load читает .env (если есть), затем TOML-файл с подстановкой ${VAR}
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	// .env необязателен
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(os.ExpandEnv(string(data)))
}

// Parse разбирает уже подготовленный TOML, применяет значения по умолчанию и валидирует
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию: SQLite, локальные блокировки, уведомления выключены
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Port:            5432,
			SSLMode:         "disable",
			Path:            "court-booking.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "court-booking-service",
		},
		Booking: BookingConfig{
			Timezone:       "America/Montevideo",
			HorizonDays:    14,
			MaxRangeDays:   62,
			TxRetries:      3,
			LockBackend:    LockBackendLocal,
			LockTTLSeconds: 10,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Notifications: NotificationsConfig{
			Workers:        2,
			QueueSize:      100,
			RatePerSecond:  5,
			TimeoutSeconds: 10,
			Twilio: TwilioConfig{
				Channel: "whatsapp",
			},
		},
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite3", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.HorizonDays <= 0 || c.Booking.MaxRangeDays <= 0 {
		return fmt.Errorf("%w: booking.horizon_days and booking.max_range_days must be positive", ErrInvalidConfig)
	}
	if c.Booking.TxRetries < 0 {
		return fmt.Errorf("%w: booking.tx_retries must not be negative", ErrInvalidConfig)
	}

	switch c.Booking.LockBackend {
	case LockBackendLocal:
	case LockBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for redis lock backend", ErrInvalidConfig)
		}
		if c.Booking.LockTTLSeconds <= 0 {
			return fmt.Errorf("%w: booking.lock_ttl_seconds must be positive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown booking.lock_backend %q", ErrInvalidConfig, c.Booking.LockBackend)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}

	if c.Notifications.Enabled {
		n := c.Notifications
		if n.Workers <= 0 || n.QueueSize <= 0 || n.RatePerSecond <= 0 || n.TimeoutSeconds <= 0 {
			return fmt.Errorf("%w: notifications workers, queue_size, rate_per_second and timeout_seconds must be positive", ErrInvalidConfig)
		}
		if n.Twilio.Enabled {
			if n.Twilio.AccountSID == "" || n.Twilio.AuthToken == "" || n.Twilio.From == "" {
				return fmt.Errorf("%w: twilio account_sid, auth_token and from are required", ErrInvalidConfig)
			}
			if n.Twilio.Channel != "whatsapp" && n.Twilio.Channel != "sms" {
				return fmt.Errorf("%w: unknown twilio channel %q", ErrInvalidConfig, n.Twilio.Channel)
			}
		}
		if n.SendGrid.Enabled && (n.SendGrid.APIKey == "" || n.SendGrid.FromEmail == "") {
			return fmt.Errorf("%w: sendgrid api_key and from_email are required", ErrInvalidConfig)
		}
	}

	return nil
}

// DSN строка подключения для выбранного драйвера
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", d.Path)
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Location часовой пояс площадки; Validate уже проверил, что он загружается
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LockTTL время жизни распределённой блокировки
func (b BookingConfig) LockTTL() time.Duration {
	return time.Duration(b.LockTTLSeconds) * time.Second
}

// Timeout таймаут отправки одного уведомления
func (n NotificationsConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}
