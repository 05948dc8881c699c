package config

import (
	"fmt"
	"net/url"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	Mode           string   `mapstructure:"mode" yaml:"mode"`
	BaseURL        string   `mapstructure:"base_url" yaml:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" yaml:"driver"`
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"password"`
	Database        string `mapstructure:"database" yaml:"database"`
	SSLMode         string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	AutoMigrate     bool   `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

// GetDSN builds the driver specific data source name. For sqlite, Database is the file path.
func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	case DriverSQLite:
		return d.Database + "?_foreign_keys=on"
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.Username, d.Password),
			Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
			Path:     d.Database,
			RawQuery: "sslmode=" + d.SSLMode + "&TimeZone=UTC",
		}
		return u.String()
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret       string `mapstructure:"secret" yaml:"secret"`
	TokenExpDays int    `mapstructure:"token_exp_days" yaml:"token_exp_days"`
}

// TokenTTL is the lifetime of a bearer token issued at login.
func (j *JWTConfig) TokenTTL() time.Duration {
	return time.Duration(j.TokenExpDays) * 24 * time.Hour
}

type SessionConfig struct {
	TouchIntervalSeconds   int  `mapstructure:"touch_interval_seconds" yaml:"touch_interval_seconds"`
	CleanupIntervalMinutes int  `mapstructure:"cleanup_interval_minutes" yaml:"cleanup_interval_minutes"`
	RequireDeviceHeader    bool `mapstructure:"require_device_header" yaml:"require_device_header"`
}

type LoginConfig struct {
	MaxFailedAttempts int `mapstructure:"max_failed_attempts" yaml:"max_failed_attempts"`
	LockMinutes       int `mapstructure:"lock_minutes" yaml:"lock_minutes"`
}

type AuthConfig struct {
	Password    PasswordConfig `mapstructure:"password" yaml:"password"`
	JWT         JWTConfig      `mapstructure:"jwt" yaml:"jwt"`
	Session     SessionConfig  `mapstructure:"session" yaml:"session"`
	Login       LoginConfig    `mapstructure:"login" yaml:"login"`
	PublicPaths []string       `mapstructure:"public_paths" yaml:"public_paths"`
}

type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url" yaml:"redirect_url"`
}

// Enabled reports whether Google sign-in has been configured.
func (g *GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type OAuthConfig struct {
	Google GoogleOAuthConfig `mapstructure:"google" yaml:"google"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port" yaml:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user" yaml:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password" yaml:"smtp_password"`
	FromAddress  string `mapstructure:"from_address" yaml:"from_address"`
	FromName     string `mapstructure:"from_name" yaml:"from_name"`
	LoginAlerts  bool   `mapstructure:"login_alerts" yaml:"login_alerts"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	AuthRequestsPerMinute int `mapstructure:"auth_requests_per_minute" yaml:"auth_requests_per_minute"`
}
