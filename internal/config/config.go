package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	PricingClient = "client"
	PricingServer = "server"
)

type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"altazaj"`
	ServerPort  int    `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	JWTSecret         string `envconfig:"JWT_SECRET"`
	AdminUsername     string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`
	CookieSecure      bool   `envconfig:"COOKIE_SECURE" default:"true"`

	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopicOrders string   `envconfig:"KAFKA_TOPIC_ORDERS" default:"order_events"`
	KafkaTopicMenu   string   `envconfig:"KAFKA_TOPIC_MENU" default:"menu_events"`

	ESURL      string `envconfig:"ES_URL"`
	ESUser     string `envconfig:"ES_USER"`
	ESPassword string `envconfig:"ES_PASSWORD"`
	ESIndex    string `envconfig:"ES_INDEX" default:"menu_items"`

	PricingMode string   `envconfig:"PRICING_MODE" default:"client"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads envFile (when present) into the process environment and decodes
// the environment into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Notice: %s file not found: %v. Using system environment variables", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.PricingMode = strings.ToLower(strings.TrimSpace(cfg.PricingMode))
	cfg.KafkaBrokers = CSV(strings.Join(cfg.KafkaBrokers, ","))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if err := NonEmpty(c.DatabaseURL, "DATABASE_URL"); err != nil {
			return err
		}
	case DriverSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = "altazaj.db"
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.PricingMode {
	case PricingClient, PricingServer:
	default:
		return fmt.Errorf("config: unsupported PRICING_MODE %q", c.PricingMode)
	}

	if c.AuthEnabled() {
		if err := NonEmpty(c.AdminPasswordHash, "ADMIN_PASSWORD_HASH"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) AuthEnabled() bool { return c.JWTSecret != "" }

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.ServerPort) }

func NonEmpty(value, envName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("config: missing required env %s", envName)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
