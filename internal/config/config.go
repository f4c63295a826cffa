package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config полная конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Catalog      IntegrationConfig  `toml:"catalog_service"`
	Payment      IntegrationConfig  `toml:"payment_service"`
	CalendarSync CalendarSyncConfig `toml:"calendar_sync"`
	Commission   CommissionConfig   `toml:"commission"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к базе
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки HTTP клиента внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// CalendarSyncConfig настройки адаптера внешних календарей
type CalendarSyncConfig struct {
	URL                 string `toml:"url"`
	Timeout             int    `toml:"timeout"`               // секунды
	SyncIntervalMinutes int    `toml:"sync_interval_minutes"` // период фоновой сверки
}

// CommissionConfig настройки комиссии площадки
type CommissionConfig struct {
	// PlatformRate комиссия по умолчанию, доля от суммы (0.12 = 12%)
	PlatformRate float64 `toml:"platform_rate"`
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog_service.url is required")
	}
	if c.Payment.URL == "" {
		return fmt.Errorf("payment_service.url is required")
	}
	if c.CalendarSync.URL == "" {
		return fmt.Errorf("calendar_sync.url is required")
	}
	if c.Commission.PlatformRate < 0 || c.Commission.PlatformRate >= 1 {
		return fmt.Errorf("commission.platform_rate must be in [0, 1)")
	}
	return nil
}
