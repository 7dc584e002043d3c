package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/order_ledger/internal/domain"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" default:"sqlite:///orders.db"`
	ReportPath  string `envconfig:"REPORT_PATH" default:"orders.odt"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	KafkaBrokers    []string `envconfig:"KAFKA_BROKERS"`
	KafkaOrderTopic string   `envconfig:"KAFKA_ORDER_TOPIC" default:"order_events"`

	OrderNumberAttempts int `envconfig:"ORDER_NUMBER_ATTEMPTS" default:"5"`
}

// Load reads the optional env files (".env" when none are given) and then the
// process environment. A missing env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		logrus.WithError(err).Debug("env file not loaded, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: config: %w", domain.ErrValidation, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("%w: DATABASE_URL is empty", domain.ErrValidation)
	}
	if c.OrderNumberAttempts < 1 {
		return fmt.Errorf("%w: ORDER_NUMBER_ATTEMPTS must be >= 1, got %d", domain.ErrValidation, c.OrderNumberAttempts)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be text or json, got %q", domain.ErrValidation, c.LogFormat)
	}

	brokers := c.KafkaBrokers[:0]
	for _, b := range c.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.KafkaBrokers = brokers
	return nil
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) ListenAddr() string {
	return ":" + c.ServerPort
}
