package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	DBDriver string
	DBDSN    string
	LogFile  string
	LogLevel string

	AdminUsername string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration

	CORSOrigins string

	NotifyMailer string // log | smtp
	NotifyTo     string
	NotifyFrom   string
	SMTPAddr     string
	SMTPUser     string
	SMTPPassword string

	APIURL   string
	APIToken string
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "avotrade.db")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", "12h")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("notify_mailer", "log")
	v.SetDefault("notify_to", "sales@avotrade.co.za")
	v.SetDefault("notify_from", "noreply@avotrade.co.za")
	v.SetDefault("smtp_addr", "localhost:25")
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("api_token", "")
}

// New builds a viper instance reading defaults, an optional avotrade.{yaml,toml,json}
// in the working directory or /etc/avotrade, and environment variables.
func New() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.SetConfigName("avotrade")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/avotrade")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the environment and the optional config file.
func Load() (Config, error) {
	return FromViper(New())
}

func FromViper(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	ttl, err := time.ParseDuration(v.GetString("token_ttl"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid token_ttl %q", v.GetString("token_ttl"))
	}

	cfg := Config{
		Port:          v.GetString("port"),
		DBDriver:      strings.ToLower(v.GetString("db_driver")),
		DBDSN:         v.GetString("db_dsn"),
		LogFile:       v.GetString("log_file"),
		LogLevel:      v.GetString("log_level"),
		AdminUsername: v.GetString("admin_username"),
		AdminPassword: v.GetString("admin_password"),
		JWTSecret:     v.GetString("jwt_secret"),
		TokenTTL:      ttl,
		CORSOrigins:   v.GetString("cors_origins"),
		NotifyMailer:  strings.ToLower(v.GetString("notify_mailer")),
		NotifyTo:      v.GetString("notify_to"),
		NotifyFrom:    v.GetString("notify_from"),
		SMTPAddr:      v.GetString("smtp_addr"),
		SMTPUser:      v.GetString("smtp_user"),
		SMTPPassword:  v.GetString("smtp_password"),
		APIURL:        strings.TrimRight(v.GetString("api_url"), "/"),
		APIToken:      v.GetString("api_token"),
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return Config{}, fmt.Errorf("unsupported db_driver %q", cfg.DBDriver)
	}
	switch cfg.NotifyMailer {
	case "log", "smtp":
	default:
		return Config{}, fmt.Errorf("unsupported notify_mailer %q", cfg.NotifyMailer)
	}

	// A fresh secret per process invalidates tokens on restart, which is acceptable for a single node.
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = RandomSecret(32)
	}
	return cfg, nil
}

// RandomSecret returns n random bytes hex-encoded.
func RandomSecret(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return hex.EncodeToString(buf)
}

// Summary is safe to log: secrets are omitted.
func (c Config) Summary() map[string]any {
	return map[string]any{
		"port":          c.Port,
		"db_driver":     c.DBDriver,
		"log_file":      c.LogFile,
		"notify_mailer": c.NotifyMailer,
		"notify_to":     c.NotifyTo,
	}
}
