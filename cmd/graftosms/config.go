package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kidus/graftosms/internal/handler"
)

// loadConfig assembles the handler configuration. Sources, lowest to
// highest precedence: defaults, the optional YAML config file, then
// environment variables (a .env file in the working directory is loaded
// first if present). Returns the config and the HTTP listen port.
func loadConfig(path string) (*handler.Config, string, error) {
	_ = godotenv.Load()

	cfg := &handler.Config{}
	if path != "" {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, "", err
		}
	}
	applyEnv(cfg)

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = handler.DefaultGatewayTimeout
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = handler.DefaultMaxMessageLength
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	return cfg, port, nil
}

func loadConfigFile(path string, cfg *handler.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *handler.Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.GatewayURL, "KANEL_URL")
	setString(&cfg.GatewayUsername, "KANEL_USER")
	setString(&cfg.GatewayPassword, "KANEL_PASS")
	setString(&cfg.Sender, "KANEL_SENDER")
	setString(&cfg.DefaultRecipient, "SMS_TO")
	setString(&cfg.WebhookSecret, "WEBHOOK_SECRET")
	setString(&cfg.MessagePrefix, "MESSAGE_PREFIX")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("SMS_TLS_SKIP_VERIFY"); v != "" {
		cfg.TLSSkipVerify = v == "true"
	}
	if v := os.Getenv("DRY_RUN"); v != "" {
		cfg.DryRun = v == "true"
	}
	if v := os.Getenv("GATEWAY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.GatewayTimeout = d
		}
	}
	if v := os.Getenv("MAX_MESSAGE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxMessageLength = n
		}
	}
}
