package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http" envPrefix:"SEED_HTTP_"`
	Databases DatabasesConfig `yaml:"databases" envPrefix:"SEED_DB_"`
	Redis     RedisConfig     `yaml:"redis" envPrefix:"SEED_REDIS_"`
	Kafka     KafkaConfig     `yaml:"kafka" envPrefix:"SEED_KAFKA_"`
	Seed      SeedConfig      `yaml:"seed" envPrefix:"SEED_"`
	Worker    WorkerConfig    `yaml:"worker" envPrefix:"SEED_WORKER_"`
	Log       LogConfig       `yaml:"log" envPrefix:"SEED_LOG_"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"ADDRESS"`
}

// DatabasesConfig holds one connection per seeded database.
type DatabasesConfig struct {
	Tickets    DatabaseConfig `yaml:"tickets" envPrefix:"TICKETS_"`
	Flights    DatabaseConfig `yaml:"flights" envPrefix:"FLIGHTS_"`
	Privileges DatabaseConfig `yaml:"privileges" envPrefix:"PRIVILEGES_"`
}

// ByName returns the config of the database with the given name.
func (d DatabasesConfig) ByName(name string) (DatabaseConfig, bool) {
	switch name {
	case "tickets":
		return d.Tickets, true
	case "flights":
		return d.Flights, true
	case "privileges":
		return d.Privileges, true
	}
	return DatabaseConfig{}, false
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"DRIVER"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	Name     string `yaml:"name" env:"NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"SSL_MODE"`
	// Path is the database file for the sqlite driver.
	Path string `yaml:"path" env:"PATH"`
}

// DriverName defaults to postgres when no driver is configured.
func (d DatabaseConfig) DriverName() string {
	if d.Driver == "" {
		return DriverPostgres
	}
	return d.Driver
}

func (d DatabaseConfig) DSN() string {
	if d.DriverName() == DriverSQLite {
		return d.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, sslMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers" env:"BROKERS" envSeparator:","`
	SeedTopic  string   `yaml:"seed_topic" env:"SEED_TOPIC"`
	GroupID    string   `yaml:"group_id" env:"GROUP_ID"`
	MaxRetries int      `yaml:"max_retries" env:"MAX_RETRIES"`
}

type SeedConfig struct {
	FixturesPath   string `yaml:"fixtures_path" env:"FIXTURES_PATH"`
	CreateSchema   bool   `yaml:"create_schema" env:"CREATE_SCHEMA"`
	LockTTLSeconds int    `yaml:"lock_ttl_seconds" env:"LOCK_TTL_SECONDS"`
}

type WorkerConfig struct {
	VerifyIntervalSeconds int `yaml:"verify_interval_seconds" env:"VERIFY_INTERVAL_SECONDS"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LEVEL"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Kafka.SeedTopic == "" {
		c.Kafka.SeedTopic = "seed.events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "flightseed-worker"
	}
	if c.Kafka.MaxRetries <= 0 {
		c.Kafka.MaxRetries = 3
	}
	if c.Seed.LockTTLSeconds <= 0 {
		c.Seed.LockTTLSeconds = 60
	}
	if c.Worker.VerifyIntervalSeconds <= 0 {
		c.Worker.VerifyIntervalSeconds = 300
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
