package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeDev     = "dev"
	ModeRelease = "release"

	DefaultPath = "config/config.yaml"
)

type ServerConfig struct {
	Addr          string   `yaml:"addr"`
	SessionSecret string   `yaml:"session_secret"`
	JWTSecret     string   `yaml:"jwt_secret"`
	TokenTTLHours int      `yaml:"token_ttl_hours"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

// StorageConfig selects where the state document lives.
type StorageConfig struct {
	Driver string `yaml:"driver"` // memory | file | sqlite | mysql | redis
	Path   string `yaml:"path"`   // directory for file / sqlite
	Key    string `yaml:"key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode"`
	Timezone    string         `yaml:"timezone"`
	Server      ServerConfig   `yaml:"server"`
	Storage     StorageConfig  `yaml:"storage"`
	DB          DatabaseConfig `yaml:"database"`
	Redis       RedisConfig    `yaml:"redis"`
	Certificate Certs          `yaml:"certificate"`
}

func Default() Config {
	return Config{
		Version:  "1",
		Mode:     ModeDev,
		Timezone: "Asia/Kolkata",
		Server: ServerConfig{
			Addr:          ":8080",
			SessionSecret: "dev-session-secret-change",
			JWTSecret:     "dev-signing-secret-change",
			TokenTTLHours: 24,
			CORSOrigins:   []string{"http://localhost:3000"},
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   "data",
			Key:    "libraryWorkData",
		},
		DB: DatabaseConfig{
			Host:   "localhost",
			Port:   3306,
			DBName: "library_work",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
	}
}

// LoadConfig reads path over Default(), then applies .env and environment overrides.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("[WARN] config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	switch c.Storage.Driver {
	case "memory", "file", "sqlite", "mysql", "redis":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return errors.New("storage key is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location falls back to UTC when the zone database is unavailable.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) TokenTTL() time.Duration {
	if c.Server.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Server.TokenTTLHours) * time.Hour
}

// ===== env overrides =====

func applyEnv(c *Config) {
	c.Mode = getEnv("APP_MODE", c.Mode)
	c.Timezone = getEnv("APP_TIMEZONE", c.Timezone)
	c.Server.Addr = getEnv("HTTP_ADDR", c.Server.Addr)
	c.Server.SessionSecret = getEnv("SESSION_SECRET", c.Server.SessionSecret)
	c.Server.JWTSecret = getEnv("JWT_SIGNING_KEY", c.Server.JWTSecret)
	c.Server.TokenTTLHours = intEnv("TOKEN_TTL_HOURS", c.Server.TokenTTLHours)
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getEnv("STORAGE_PATH", c.Storage.Path)
	c.Storage.Key = getEnv("STORAGE_KEY", c.Storage.Key)
	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = intEnv("DB_PORT", c.DB.Port)
	c.DB.Username = getEnv("DB_USER", c.DB.Username)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.DBName = getEnv("DB_NAME", c.DB.DBName)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = intEnv("REDIS_DB", c.Redis.DB)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.Atoi(val)
		if err == nil {
			return parsed
		}
		log.Printf("[WARN] invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
