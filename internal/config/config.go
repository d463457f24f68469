// Package config reads the session driver's runtime configuration from the
// environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Display modes.
const (
	DisplayLog = "log"
	DisplayTUI = "tui"
)

// DevJWTSecret is used when JWT_SECRET is unset. It must be overridden outside
// local development.
const DevJWTSecret = "dev-secret-change-me"

// Config captures runtime configuration values for the session driver.
type Config struct {
	HTTPAddress    string        `env:"HTTP_ADDRESS" envDefault:":8080"`
	MetricsAddress string        `env:"METRICS_ADDRESS" envDefault:":9195"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`
	JWTSecret      string        `env:"JWT_SECRET"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"i5e.identity"`
	CORSOrigin     string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:5173"`

	KafkaEnabled   bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers   []string `env:"KAFKA_BROKERS" envDefault:"kafka:9092" envSeparator:","`
	ConsumerGroup  string   `env:"CONSUMER_GROUP_ID" envDefault:"balance-session"`
	ConsumerTopics []string `env:"CONSUMER_TOPICS" envDefault:"headset_client" envSeparator:","`
	JournalTopic   string   `env:"JOURNAL_TOPIC" envDefault:"session_journal"`

	PostgresURL         string `env:"POSTGRES_URL"`
	JournalBuffer       int    `env:"JOURNAL_BUFFER" envDefault:"256"`
	JournalWebhookURL   string `env:"JOURNAL_WEBHOOK_URL"`
	JournalWebhookToken string `env:"JOURNAL_WEBHOOK_TOKEN"`

	BypassClientConnect bool          `env:"SESSION_BYPASS_CLIENT_CONNECT" envDefault:"true"`
	FrameInterval       time.Duration `env:"SESSION_FRAME_INTERVAL" envDefault:"16ms"`
	AnimationClipLength time.Duration `env:"SESSION_ANIMATION_CLIP" envDefault:"1s"`
	Locale              string        `env:"SESSION_LOCALE" envDefault:"lv"`
	DisplayMode         string        `env:"SESSION_DISPLAY" envDefault:"log"`
	PlanPath            string        `env:"SESSION_PLAN"`
}

// Load reads environment variables and applies defaults. Invalid values are
// logged and the defaults are used instead.
func Load() Config {
	cfg, err := LoadFromEnvironment(env.ToMap(os.Environ()))
	if err != nil {
		log.Printf("config: %v; using defaults", err)
		cfg, _ = LoadFromEnvironment(nil)
	}
	return cfg
}

// LoadFromEnvironment parses configuration from the given variables.
func LoadFromEnvironment(environment map[string]string) (Config, error) {
	if environment == nil {
		environment = map[string]string{}
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.KafkaBrokers = splitAndTrim(cfg.KafkaBrokers)
	cfg.ConsumerTopics = splitAndTrim(cfg.ConsumerTopics)
	cfg.DisplayMode = strings.ToLower(strings.TrimSpace(cfg.DisplayMode))
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DevJWTSecret
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DisplayMode != DisplayLog && c.DisplayMode != DisplayTUI {
		return fmt.Errorf("SESSION_DISPLAY must be %q or %q, got %q", DisplayLog, DisplayTUI, c.DisplayMode)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("SESSION_FRAME_INTERVAL must be positive, got %s", c.FrameInterval)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS must not be empty when KAFKA_ENABLED is set")
	}
	return nil
}

func splitAndTrim(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
