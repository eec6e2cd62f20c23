package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/erain9/ticklob/pkg/core"
	"github.com/erain9/ticklob/pkg/db/queue"
	"github.com/erain9/ticklob/pkg/marketdata"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"server"`

	Book struct {
		Symbol       string `yaml:"symbol"`
		MinPrice     int64  `yaml:"min_price"`
		MaxPrice     int64  `yaml:"max_price"`
		PoolCapacity int    `yaml:"pool_capacity"`
	} `yaml:"book"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Kafka struct {
		Enabled    bool   `yaml:"enabled"`
		BrokerAddr string `yaml:"broker_addr"`
		Topic      string `yaml:"topic"`
		// Client selects the producer implementation: "sarama" (pooled
		// sync producers) or "kafka-go" (batching writer; each report
		// write waits for the broker acknowledgement).
		Client string `yaml:"client"`
	} `yaml:"kafka"`

	Otel struct {
		Enabled  bool   `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"otel"`
}

// Default configuration values
var (
	configFile = flag.String("config", "", "Path to config file (YAML)")
	logLevel   = flag.String("log_level", "info", "Log level: debug, info, warn, error")
	logFormat  = flag.String("log_format", "pretty", "Log format: json, pretty")
)

// defaultConfig builds the built-in configuration.
func defaultConfig() *Config {
	config := &Config{}
	config.Server.LogLevel = "info"
	config.Server.LogFormat = "pretty"
	config.Book.Symbol = "AAPL"
	config.Book.MinPrice = int64(core.DefaultMinPrice)
	config.Book.MaxPrice = int64(core.DefaultMaxPrice)
	config.Book.PoolCapacity = core.DefaultPoolCapacity
	config.Redis.Addr = "localhost:6379"
	config.Kafka.BrokerAddr = "localhost:9092"
	config.Kafka.Topic = "ticklob-executions"
	config.Kafka.Client = "sarama"
	config.Otel.Endpoint = "localhost:4317"
	return config
}

// LoadConfig loads the configuration from command line flags and
// optionally from a config file, then wires the package-level settings
// of the messaging and marketdata layers.
func LoadConfig() (*Config, error) {
	flag.Parse()

	config := defaultConfig()
	config.Server.LogLevel = *logLevel
	config.Server.LogFormat = *logFormat

	if *configFile != "" {
		if err := loadFromFile(config, *configFile); err != nil {
			return nil, err
		}
	}

	apply(config)
	return config, nil
}

// loadFromFile overlays YAML configuration on top of config.
func loadFromFile(config *Config, path string) error {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// apply pushes the loaded settings into package-level configuration.
func apply(config *Config) {
	queue.SetBrokerList(config.Kafka.BrokerAddr)
	queue.SetTopic(config.Kafka.Topic)
	marketdata.SetDefaultRedisOptions(&marketdata.RedisOptions{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
}

// BookConfig converts the book section into core construction
// parameters.
func (c *Config) BookConfig() core.Config {
	return core.Config{
		MinPrice:     core.Price(c.Book.MinPrice),
		MaxPrice:     core.Price(c.Book.MaxPrice),
		PoolCapacity: c.Book.PoolCapacity,
	}
}
