package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreMySQL    = "mysql"
	StorePostgres = "postgres"
)

// Queue drivers
const (
	QueueInProcess = "inprocess"
	QueueRabbitMQ  = "rabbitmq"
)

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`

	OpenAI struct {
		APIKey         string `yaml:"apiKey"`
		BaseURL        string `yaml:"baseURL"`
		Model          string `yaml:"model"`
		SentimentModel string `yaml:"sentimentModel"`
	} `yaml:"openai"`

	Store struct {
		Driver string `yaml:"driver"`
	} `yaml:"store"`

	Database struct {
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

	Queue struct {
		Driver    string `yaml:"driver"`
		Workers   int    `yaml:"workers"`
		Buffer    int    `yaml:"buffer"`
		RabbitURL string `yaml:"rabbitURL"`
		QueueName string `yaml:"queueName"`
	} `yaml:"queue"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// APIKeys maps an API key to the user id it authenticates.
	// Empty means every request acts as the demo user.
	Auth struct {
		APIKeys map[string]int64 `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity     int `yaml:"capacity"`
		RefillPerSec int `yaml:"refillPerSec"`
	} `yaml:"rateLimit"`
}

// Default returns a config that runs fully in memory.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 5000
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.OpenAI.Model = "gpt-4o"
	cfg.OpenAI.SentimentModel = "gpt-4.1"
	cfg.Store.Driver = StoreMemory
	cfg.Database.SSLMode = "disable"
	cfg.Queue.Driver = QueueInProcess
	cfg.Queue.Workers = 4
	cfg.Queue.Buffer = 100
	cfg.Queue.QueueName = "analysis_jobs"
	cfg.Log.Level = "info"
	cfg.RateLimit.Capacity = 60
	cfg.RateLimit.RefillPerSec = 1
	return &cfg
}

// Load baca .env, file config.yaml (kalau ada), lalu override dari env
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// file config opsional
		default:
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.applyDriverDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	c.OpenAI.APIKey = getEnv("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.Model = getEnv("OPENAI_MODEL", c.OpenAI.Model)
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Queue.Driver = getEnv("QUEUE_DRIVER", c.Queue.Driver)
	c.Queue.Workers = getEnvAsInt("QUEUE_WORKERS", c.Queue.Workers)
	c.Queue.RabbitURL = getEnv("RABBITMQ_URL", c.Queue.RabbitURL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

// applyDriverDefaults fills the database port from the store driver when none was configured.
func (c *Config) applyDriverDefaults() {
	if c.Database.Port != 0 {
		return
	}
	switch c.Store.Driver {
	case StoreMySQL:
		c.Database.Port = 3306
	case StorePostgres:
		c.Database.Port = 5432
	}
}

// Validate checks driver names and the settings each driver needs.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StoreMySQL, StorePostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("store driver %q needs database host and name", c.Store.Driver)
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port %d", c.Database.Port)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Queue.Driver {
	case QueueInProcess:
		if c.Queue.Workers <= 0 {
			return errors.New("queue workers must be positive")
		}
	case QueueRabbitMQ:
		if c.Queue.RabbitURL == "" {
			return errors.New("rabbitmq queue needs rabbitURL")
		}
	default:
		return fmt.Errorf("unknown queue driver %q", c.Queue.Driver)
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		return errors.New("minio needs endpoint and bucketName")
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

// Helper untuk build DSN Postgres
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
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
