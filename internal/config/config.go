package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig возвращается, если не удалось прочитать или разобрать файл конфигурации
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig возвращается, если значения конфигурации некорректны
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Identity IdentityConfig `toml:"identity"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig кэш расписания. При enabled = false кэш отключён.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL время жизни записи кэша
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// IdentityConfig провайдер идентификации (GET {url}/auth/v1/user), timeout в секундах.
// Если задан jwt_secret, токены проверяются локально (HS256) без похода в провайдер.
type IdentityConfig struct {
	URL       string `toml:"url"`
	APIKey    string `toml:"api_key"`
	JWTSecret string `toml:"jwt_secret"`
	Timeout   int    `toml:"timeout"`
}

// BookingConfig параметры бронирования
type BookingConfig struct {
	SlotDurationMinutes       int    `toml:"slot_duration_minutes"`
	ScheduleWindowDays        int    `toml:"schedule_window_days"`
	CommitTimeoutSeconds      int    `toml:"commit_timeout"`
	SerializationRetries      int    `toml:"serialization_retries"`
	RequireRegisteredCustomer bool   `toml:"require_registered_customer"`
	Location                  string `toml:"location"`

	// Ограничение частоты попыток записи на одного клиента (0 - без ограничения)
	CommitRatePerMinute int `toml:"commit_rate_per_minute"`
	CommitBurst         int `toml:"commit_burst"`

	// Прокси (IP или CIDR), которым доверяем X-Forwarded-For / X-Real-IP
	TrustedProxies []string `toml:"trusted_proxies"`
}

// CommitTimeout таймаут фиксации бронирования
func (b BookingConfig) CommitTimeout() time.Duration {
	return time.Duration(b.CommitTimeoutSeconds) * time.Second
}

// TrustedProxyPrefixes разбирает trusted_proxies, одиночный IP считается сетью из одного адреса
func (b BookingConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(b.TrustedProxies))
	for _, raw := range b.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", raw, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// LoadLocation часовой пояс, в котором интерпретируются часы работы салонов
func (b BookingConfig) LoadLocation() (*time.Location, error) {
	return time.LoadLocation(b.Location)
}

// Load читает конфигурацию из TOML файла, подставляет значения по умолчанию и валидирует её
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	return Parse(string(data))
}

// Parse разбирает конфигурацию из строки в формате TOML
func Parse(data string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: decode toml: %v", ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "barber-booking",
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 60,
		},
		Identity: IdentityConfig{
			Timeout: 5,
		},
		Booking: BookingConfig{
			SlotDurationMinutes:  45,
			ScheduleWindowDays:   4,
			CommitTimeoutSeconds: 5,
			SerializationRetries: 3,
			Location:             "Local",
			CommitRatePerMinute:  30,
			CommitBurst:          5,
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.Database.User == "":
		return fmt.Errorf("%w: database.user is required", ErrInvalidConfig)
	case c.Identity.URL == "" && c.Identity.JWTSecret == "":
		return fmt.Errorf("%w: identity.url or identity.jwt_secret is required", ErrInvalidConfig)
	case c.Redis.Enabled && c.Redis.Addr == "":
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	case c.Redis.Enabled && c.Redis.TTLSeconds <= 0:
		return fmt.Errorf("%w: redis.ttl_seconds must be positive", ErrInvalidConfig)
	case c.Booking.SlotDurationMinutes <= 0 || c.Booking.SlotDurationMinutes > 24*60:
		return fmt.Errorf("%w: booking.slot_duration_minutes %d out of range", ErrInvalidConfig, c.Booking.SlotDurationMinutes)
	case c.Booking.ScheduleWindowDays <= 0:
		return fmt.Errorf("%w: booking.schedule_window_days must be positive", ErrInvalidConfig)
	case c.Booking.CommitTimeoutSeconds <= 0:
		return fmt.Errorf("%w: booking.commit_timeout must be positive", ErrInvalidConfig)
	case c.Booking.SerializationRetries < 0:
		return fmt.Errorf("%w: booking.serialization_retries must not be negative", ErrInvalidConfig)
	case c.Booking.CommitRatePerMinute < 0 || c.Booking.CommitBurst < 0:
		return fmt.Errorf("%w: booking.commit_rate_per_minute and commit_burst must not be negative", ErrInvalidConfig)
	case c.Booking.CommitRatePerMinute > 0 && c.Booking.CommitBurst == 0:
		return fmt.Errorf("%w: booking.commit_burst must be positive when rate limiting is on", ErrInvalidConfig)
	}

	if _, err := c.Booking.LoadLocation(); err != nil {
		return fmt.Errorf("%w: booking.location: %v", ErrInvalidConfig, err)
	}

	if _, err := c.Booking.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("%w: booking.trusted_proxies: %v", ErrInvalidConfig, err)
	}

	return nil
}
