package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация приложения
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	BusinessHours BusinessHoursConfig `toml:"business_hours"`
	Booking       BookingConfig       `toml:"booking"`
	HoldExpiry    HoldExpiryConfig    `toml:"hold_expiry"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
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
	RunMigrations   bool   `toml:"run_migrations"`
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
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

// BusinessHoursConfig рабочее время салона
type BusinessHoursConfig struct {
	OpenHour               int     `toml:"open_hour"`
	CloseHour              int     `toml:"close_hour"`
	WorkingDays            []int   `toml:"working_days"` // 0 = воскресенье ... 6 = суббота
	LunchStart             float64 `toml:"lunch_start"`  // дробный час, 13.5 = 13:30
	LunchEnd               float64 `toml:"lunch_end"`
	SlotGranularityMinutes int     `toml:"slot_granularity_minutes"`
	Timezone               string  `toml:"timezone"`
}

// Profile конвертирует секцию конфигурации в доменный профиль
func (c BusinessHoursConfig) Profile() domain.BusinessHoursProfile {
	days := make([]time.Weekday, len(c.WorkingDays))
	for i, d := range c.WorkingDays {
		days[i] = time.Weekday(d)
	}

	return domain.BusinessHoursProfile{
		OpenHour:               c.OpenHour,
		CloseHour:              c.CloseHour,
		WorkingDays:            days,
		LunchStart:             c.LunchStart,
		LunchEnd:               c.LunchEnd,
		SlotGranularityMinutes: c.SlotGranularityMinutes,
	}
}

// Location возвращает часовой пояс салона
func (c BusinessHoursConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// BookingConfig правила бронирования
type BookingConfig struct {
	HoldExpiryHours int    `toml:"hold_expiry_hours"`
	CollisionMode   string `toml:"collision_mode"` // "start" | "overlap"
	MinAdvanceDays  int    `toml:"min_advance_days"`
	MaxAdvanceDays  int    `toml:"max_advance_days"` // 0 = без ограничений
	WhatsAppPhone   string `toml:"whatsapp_phone"`
}

// HoldExpiry возвращает время удержания слота неподтверждённой записью
func (c BookingConfig) HoldExpiry() time.Duration {
	return time.Duration(c.HoldExpiryHours) * time.Hour
}

// Policy возвращает политику движка доступности
func (c BookingConfig) Policy() (availability.Policy, error) {
	mode, err := availability.ParseCollisionMode(c.CollisionMode)
	if err != nil {
		return availability.Policy{}, err
	}
	return availability.Policy{HoldExpiry: c.HoldExpiry(), Collision: mode}, nil
}

// HoldExpiryConfig настройки фоновой отмены просроченных записей
type HoldExpiryConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

// Interval возвращает период запуска
func (c HoldExpiryConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// RateLimitConfig ограничение частоты создания записей с одного IP
type RateLimitConfig struct {
	Enabled            bool     `toml:"enabled"`
	RequestsPerMinute  int      `toml:"requests_per_minute"`
	Burst              int      `toml:"burst"`
	TrustedProxies     []string `toml:"trusted_proxies"`      // адреса или CIDR прокси, которым доверяем X-Forwarded-For
	IdleTimeoutMinutes int      `toml:"idle_timeout_minutes"` // через сколько неактивный адрес забывается
}

// Load загружает конфигурацию из TOML файла.
// Переменные окружения (и файл .env, если он есть) переопределяют значения из файла
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет конфигурацию. Ошибка здесь фатальна для старта приложения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	if err := c.BusinessHours.Profile().Validate(); err != nil {
		return fmt.Errorf("%w: business_hours: %v", ErrInvalidConfig, err)
	}

	if _, err := c.BusinessHours.Location(); err != nil {
		return fmt.Errorf("%w: business_hours.timezone: %v", ErrInvalidConfig, err)
	}

	if c.Booking.HoldExpiryHours <= 0 {
		return fmt.Errorf("%w: booking.hold_expiry_hours must be positive", ErrInvalidConfig)
	}

	if _, err := c.Booking.Policy(); err != nil {
		return fmt.Errorf("%w: booking.collision_mode: %v", ErrInvalidConfig, err)
	}

	if c.Booking.MinAdvanceDays < 0 {
		return fmt.Errorf("%w: booking.min_advance_days must not be negative", ErrInvalidConfig)
	}

	if c.Booking.MaxAdvanceDays < 0 || c.Booking.MaxAdvanceDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: booking.max_advance_days must be in 0..%d", ErrInvalidConfig, domain.MaxAdvanceDays)
	}

	if c.Booking.MaxAdvanceDays > 0 && c.Booking.MaxAdvanceDays < c.Booking.MinAdvanceDays {
		return fmt.Errorf("%w: booking.max_advance_days is less than min_advance_days", ErrInvalidConfig)
	}

	if c.HoldExpiry.Enabled && c.HoldExpiry.IntervalSeconds <= 0 {
		return fmt.Errorf("%w: hold_expiry.interval_seconds must be positive", ErrInvalidConfig)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit.requests_per_minute and rate_limit.burst must be positive", ErrInvalidConfig)
	}

	if c.RateLimit.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("%w: rate_limit.idle_timeout_minutes must not be negative", ErrInvalidConfig)
	}

	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("%w: rate_limit.trusted_proxies: invalid address %q", ErrInvalidConfig, proxy)
		}
	}

	return nil
}

func defaults() *Config {
	profile := domain.DefaultBusinessHours()
	days := make([]int, len(profile.WorkingDays))
	for i, d := range profile.WorkingDays {
		days[i] = int(d)
	}

	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			RunMigrations:   true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon-booking",
		},
		BusinessHours: BusinessHoursConfig{
			OpenHour:               profile.OpenHour,
			CloseHour:              profile.CloseHour,
			WorkingDays:            days,
			LunchStart:             profile.LunchStart,
			LunchEnd:               profile.LunchEnd,
			SlotGranularityMinutes: profile.SlotGranularityMinutes,
			Timezone:               "America/Bahia",
		},
		Booking: BookingConfig{
			HoldExpiryHours: int(domain.DefaultHoldExpiry / time.Hour),
			CollisionMode:   availability.CollisionStart.String(),
			MinAdvanceDays:  domain.DefaultMinAdvanceDays,
			MaxAdvanceDays:  domain.DefaultMaxAdvanceDays,
		},
		HoldExpiry: HoldExpiryConfig{
			Enabled:         true,
			IntervalSeconds: 600,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute:  10,
			Burst:              5,
			IdleTimeoutMinutes: 10,
		},
	}
}

// applyEnv переопределяет секреты и параметры окружения
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DB_PORT: %v", ErrInvalidConfig, err)
		}
		cfg.Database.Port = port
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT: %v", ErrInvalidConfig, err)
		}
		cfg.Server.HTTPPort = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = v
	}
	if v := os.Getenv("WHATSAPP_PHONE"); v != "" {
		cfg.Booking.WhatsAppPhone = v
	}
	return nil
}

// validProxy проверяет адрес ("10.0.0.1") или подсеть ("10.0.0.0/8")
func validProxy(value string) bool {
	value = strings.TrimSpace(value)
	if strings.Contains(value, "/") {
		_, err := netip.ParsePrefix(value)
		return err == nil
	}
	_, err := netip.ParseAddr(value)
	return err == nil
}
