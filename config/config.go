package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Notify   NotifyConfig   `yaml:"notify"`

	CloudinaryURL string   `yaml:"cloudinary_url"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite, postgres or mongo
	DSN      string `yaml:"dsn"`
	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	JWTExpiry      time.Duration `yaml:"jwt_expiry"`
	PasswordHasher string        `yaml:"password_hasher"` // bcrypt or argon2
	AdminEmail     string        `yaml:"admin_email"`
	AdminPassword  string        `yaml:"admin_password"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type NotifyConfig struct {
	Notifiers []string   `yaml:"notifiers"` // log, amqp, redis, email
	AMQPURL   string     `yaml:"amqp_url"`
	SMTP      SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

func Defaults() *Config {
	return &Config{
		AppEnv:   "development",
		Port:     "5001",
		LogLevel: "info",
		Database: DatabaseConfig{
			Driver:  "sqlite",
			DSN:     "foodrunner.db",
			MongoDB: "foodrunner",
		},
		Auth: AuthConfig{
			JWTSecret:      "foodrunner_dev_secret",
			JWTExpiry:      30 * 24 * time.Hour,
			PasswordHasher: "bcrypt",
		},
		Redis: RedisConfig{
			CacheTTL: 5 * time.Minute,
		},
		Notify: NotifyConfig{
			Notifiers: []string{"log"},
			SMTP:      SMTPConfig{Port: 587},
		},
		CORSOrigins: []string{"http://localhost:5001"},
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then environment variables. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DB_DSN", c.Database.DSN)
	c.Database.MongoURI = getEnv("MONGO_URI", c.Database.MongoURI)
	c.Database.MongoDB = getEnv("MONGO_DB", c.Database.MongoDB)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.PasswordHasher = getEnv("PASSWORD_HASHER", c.Auth.PasswordHasher)
	c.Auth.AdminEmail = getEnv("ADMIN_EMAIL", c.Auth.AdminEmail)
	c.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", c.Auth.AdminPassword)
	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXPIRY: %w", err)
		}
		c.Auth.JWTExpiry = d
	}

	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		c.Redis.CacheTTL = d
	}

	if v := os.Getenv("NOTIFIERS"); v != "" {
		c.Notify.Notifiers = splitList(v)
	}
	c.Notify.AMQPURL = getEnv("AMQP_URL", c.Notify.AMQPURL)
	c.Notify.SMTP.Host = getEnv("SMTP_HOST", c.Notify.SMTP.Host)
	c.Notify.SMTP.User = getEnv("SMTP_USER", c.Notify.SMTP.User)
	c.Notify.SMTP.Password = getEnv("SMTP_PASS", c.Notify.SMTP.Password)
	c.Notify.SMTP.From = getEnv("SMTP_FROM", c.Notify.SMTP.From)
	if v := os.Getenv("SMTP_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err != nil {
			return fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		c.Notify.SMTP.Port = port
	}

	c.CloudinaryURL = getEnv("CLOUDINARY_URL", c.CloudinaryURL)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database dsn is required for driver %s", c.Database.Driver)
		}
	case "mongo":
		if c.Database.MongoURI == "" {
			return fmt.Errorf("mongo_uri is required for driver mongo")
		}
	default:
		return fmt.Errorf("unknown database driver: %s", c.Database.Driver)
	}
	switch c.Auth.PasswordHasher {
	case "bcrypt", "argon2":
	default:
		return fmt.Errorf("unknown password hasher: %s", c.Auth.PasswordHasher)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.Auth.JWTExpiry <= 0 {
		return fmt.Errorf("jwt expiry must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.URL != "" || c.Redis.Addr != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
