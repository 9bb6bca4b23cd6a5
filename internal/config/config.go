package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix = "TASKMANAGER"

	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	APIPort      string
	DBServiceURL string

	DBPort        string
	DBBackend     string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBroker  string
	KafkaTopic   string
	KafkaLogFile string
}

// Load reads configuration from TASKMANAGER_* environment variables. When
// TASKMANAGER_CONFIG names a file, its values are read first and the
// environment overrides them. Keys in a file use dotted form, e.g. db.postgres_dsn.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db.backend", BackendPostgres)
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.topic", "tasks")

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		APIPort:       v.GetString("api.port"),
		DBServiceURL:  strings.TrimRight(v.GetString("db.service_url"), "/"),
		DBPort:        v.GetString("db.port"),
		DBBackend:     strings.ToLower(v.GetString("db.backend")),
		PostgresDSN:   v.GetString("db.postgres_dsn"),
		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),
		KafkaBroker:   v.GetString("kafka.broker"),
		KafkaTopic:    v.GetString("kafka.topic"),
		KafkaLogFile:  v.GetString("kafka.log_file"),
	}
	return cfg, nil
}

// ValidateAPI checks the keys the gateway needs.
func (c *Config) ValidateAPI() error {
	if c.APIPort == "" || c.DBServiceURL == "" {
		return fmt.Errorf("api.port or db.service_url is not configured")
	}
	return nil
}

// ValidateDB checks the keys the task service needs.
func (c *Config) ValidateDB() error {
	if c.DBPort == "" {
		return fmt.Errorf("db.port is not configured")
	}
	switch c.DBBackend {
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("db.postgres_dsn is not configured")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown db.backend %q: must be %s or %s", c.DBBackend, BackendPostgres, BackendMemory)
	}
	return nil
}

// ValidateKafkaLogger checks the keys the event logger needs.
func (c *Config) ValidateKafkaLogger() error {
	if c.KafkaBroker == "" || c.KafkaTopic == "" || c.KafkaLogFile == "" {
		return fmt.Errorf("kafka.broker, kafka.topic or kafka.log_file is not configured")
	}
	return nil
}
