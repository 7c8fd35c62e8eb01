package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих значения из файла
// Например COURTBOOK_DATABASE_PASSWORD, COURTBOOK_REDIS_KEY_PREFIX.
// Ключи строятся из имён полей (split_words). Теги envconfig не задавать:
// envconfig ищет значение тега и без префикса (USER, PATH).
const EnvPrefix = "COURTBOOK"

var (
	// ErrLoad возвращается, если файл конфигурации не удалось прочитать
	ErrLoad = errors.New("config: load failed")
	// ErrInvalid возвращается, если конфигурация не прошла проверку
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server" split_words:"true"`
	Database    DatabaseConfig    `toml:"database" split_words:"true"`
	Logs        LogsConfig        `toml:"logs" split_words:"true"`
	Metrics     MetricsConfig     `toml:"metrics" split_words:"true"`
	Redis       RedisConfig       `toml:"redis" split_words:"true"`
	UserService UserServiceConfig `toml:"user_service" split_words:"true"`
	Lifecycle   LifecycleConfig   `toml:"lifecycle" split_words:"true"`
}

// ServerConfig параметры HTTP сервера; таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
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

// LogsConfig параметры логирования; пустой File - вывод в stdout
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

// MetricsConfig параметры prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// RedisConfig параметры счётчика бронирований в Redis
type RedisConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Addr        string `toml:"addr" split_words:"true"`
	Password    string `toml:"password" split_words:"true"`
	DB          int    `toml:"db" split_words:"true"`
	KeyPrefix   string `toml:"key_prefix" split_words:"true"`
	DialTimeout int    `toml:"dial_timeout" split_words:"true"` // секунды
}

// UserServiceConfig параметры клиента UserService; Timeout в секундах
type UserServiceConfig struct {
	Enabled bool   `toml:"enabled" split_words:"true"`
	URL     string `toml:"url" split_words:"true"`
	Timeout int    `toml:"timeout" split_words:"true"`
}

// LifecycleConfig параметры фонового завершения бронирований
type LifecycleConfig struct {
	// 0 - sweeper выключен
	SweepIntervalSeconds int `toml:"sweep_interval_seconds" split_words:"true"`
}

// SweepInterval интервал фонового прохода CompleteExpired
func (l LifecycleConfig) SweepInterval() time.Duration {
	return time.Duration(l.SweepIntervalSeconds) * time.Second
}

// Default значения по умолчанию; файл и окружение переопределяют их
func Default() Config {
	return Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "court_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "court-booking",
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			KeyPrefix:   "courtbook",
			DialTimeout: 5,
		},
		UserService: UserServiceConfig{
			Timeout: 5,
		},
	}
}

// Load читает конфигурацию: значения по умолчанию, затем TOML файл (если есть),
// затем переменные окружения с префиксом COURTBOOK_
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrLoad, path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrLoad, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		problems = append(problems, "database.host and database.dbname are required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		problems = append(problems, "database.max_idle_conns must not exceed max_open_conns")
	}
	switch strings.ToLower(c.Logs.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logs.level %q is not one of debug, info, warn, error", c.Logs.Level))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.UserService.Enabled && c.UserService.URL == "" {
		problems = append(problems, "user_service.url is required when user_service is enabled")
	}
	if c.Lifecycle.SweepIntervalSeconds < 0 {
		problems = append(problems, "lifecycle.sweep_interval_seconds must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
