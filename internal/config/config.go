package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration of the webhook bridge.
type Config struct {
	App     AppConfig
	Server  ServerConfig
	Webhook WebhookConfig
	Kafka   KafkaConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddr           string
	ReadTimeoutSeconds   int
	WriteTimeoutSeconds  int
	ShutdownGraceSeconds int
}

// WebhookConfig holds the verification handshake settings.
type WebhookConfig struct {
	VerifyToken  string
	MaxBodyBytes int
}

// KafkaConfig defines broker information and the bridge topics.
type KafkaConfig struct {
	Brokers            []string
	EventsTopic        string
	DLQTopic           string
	PublishConcurrency int
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Server.ListenAddr = ldr.getString("LISTEN_ADDR", ":8080", false)
	cfg.Server.ReadTimeoutSeconds = ldr.getInt("SERVER_READ_TIMEOUT_SECONDS", 10, false)
	cfg.Server.WriteTimeoutSeconds = ldr.getInt("SERVER_WRITE_TIMEOUT_SECONDS", 10, false)
	cfg.Server.ShutdownGraceSeconds = ldr.getInt("SERVER_SHUTDOWN_GRACE_SECONDS", 15, false)

	cfg.Webhook.VerifyToken = ldr.getString("WEBHOOK_VERIFY_TOKEN", "", true)
	cfg.Webhook.MaxBodyBytes = ldr.getInt("WEBHOOK_MAX_BODY_BYTES", 1<<20, false)

	cfg.Kafka.Brokers = ldr.getStringSlice("KAFKA_BROKERS", true)
	cfg.Kafka.EventsTopic = ldr.getString("KAFKA_EVENTS_TOPIC", "whatsapp.webhook.events", false)
	cfg.Kafka.DLQTopic = ldr.getString("KAFKA_DLQ_TOPIC", "whatsapp.webhook.dlq", false)
	cfg.Kafka.PublishConcurrency = ldr.getInt("PUBLISH_CONCURRENCY", 8, false)

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid integer", key))
			return def
		}
		return i
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
