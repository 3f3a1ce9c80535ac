package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		IdleTimeout     time.Duration `yaml:"idleTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	} `yaml:"server"`

	Session struct {
		TTL          time.Duration `yaml:"ttl"`
		CookieName   string        `yaml:"cookieName"`
		SecureCookie bool          `yaml:"secureCookie"`
	} `yaml:"session"`

	Analysis struct {
		Delay time.Duration `yaml:"delay"`
	} `yaml:"analysis"`

	Upload struct {
		MaxBytes int64 `yaml:"maxBytes"`
	} `yaml:"upload"`

	AI struct {
		Provider  string        `yaml:"provider"` // anthropic | openai
		APIKey    string        `yaml:"apiKey"`
		Model     string        `yaml:"model"`
		BaseURL   string        `yaml:"baseURL"`
		MaxTokens int           `yaml:"maxTokens"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	// Driver kosong = audit surat dimatikan
	Database struct {
		Driver   string `yaml:"driver"` // "", mysql, postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"` // tokens per second
	} `yaml:"rateLimit"`

	Log struct {
		FilePath   string `yaml:"filePath"`
		Production bool   `yaml:"production"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 90 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Server.ShutdownTimeout = 5 * time.Second
	c.Session.TTL = time.Hour
	c.Session.CookieName = "mje_session"
	c.Analysis.Delay = 2 * time.Second
	c.Upload.MaxBytes = 10 << 20
	c.AI.Provider = "anthropic"
	c.AI.MaxTokens = 2000
	c.AI.Timeout = 60 * time.Second
	c.Database.SSLMode = "disable"
	c.CORS.AllowedOrigins = []string{"*"}
	c.RateLimit.Capacity = 10
	c.RateLimit.RefillRate = 1
	c.Log.FilePath = "app.log"
	return &c
}

// Load baca .env, file config.yaml (opsional), lalu override dari env.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults + env only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("APP_PORT", c.Server.Port)
	c.AI.Provider = getEnv("AI_PROVIDER", c.AI.Provider)
	c.AI.Model = getEnv("AI_MODEL", c.AI.Model)
	c.AI.BaseURL = getEnv("AI_BASE_URL", c.AI.BaseURL)

	// provider-specific key dipakai kalau AI_API_KEY kosong
	c.AI.APIKey = getEnv("AI_API_KEY", c.AI.APIKey)
	if c.AI.APIKey == "" {
		switch c.AI.Provider {
		case "openai":
			c.AI.APIKey = getEnv("OPENAI_API_KEY", "")
		default:
			c.AI.APIKey = getEnv("ANTHROPIC_API_KEY", "")
		}
	}

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", c.Minio.SecretKey)
	c.Log.FilePath = getEnv("LOG_FILE_PATH", c.Log.FilePath)
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.CORS.AllowedOrigins = strings.Split(v, ",")
	}
}

func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("invalid ai.provider: %q (allowed: anthropic, openai)", c.AI.Provider)
	}
	switch c.Database.Driver {
	case "", "mysql", "postgres":
	default:
		return fmt.Errorf("invalid database.driver: %q (allowed: mysql, postgres)", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Analysis.Delay < 0 {
		return fmt.Errorf("analysis.delay must not be negative")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.maxBytes must be positive")
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
