package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port         string   `yaml:"port"`
	DBDSN        string   `yaml:"db_dsn"`
	LogFile      string   `yaml:"log_file"`
	AdminSecret  string   `yaml:"admin_secret"`
	TelemetryURL string   `yaml:"telemetry_url"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	OTLPEndpoint string   `yaml:"otlp_endpoint"`
	ServiceName  string   `yaml:"service_name"`
}

func defaults() Config {
	return Config{
		Port:        "8080",
		DBDSN:       "pixelmart.db", // sqlite file in working dir
		LogFile:     "./pixelmart.log",
		KafkaTopic:  "storefront-events",
		ServiceName: "pixelmart",
	}
}

// Load starts from defaults, overlays the YAML file named by CONFIG_FILE if
// set, then overlays environment variables.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv(os.Getenv)

	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TELEMETRY_URL=%s KAFKA_BROKERS=%s OTLP=%s admin_secret_set=%t",
		cfg.Port, redactDSN(cfg.DBDSN), cfg.LogFile, cfg.TelemetryURL, strings.Join(cfg.KafkaBrokers, ","),
		cfg.OTLPEndpoint, cfg.AdminSecret != "")
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Port, "PORT")
	set(&c.DBDSN, "DB_DSN")
	set(&c.LogFile, "LOG_FILE")
	set(&c.AdminSecret, "ADMIN_SECRET")
	set(&c.TelemetryURL, "TELEMETRY_URL")
	set(&c.KafkaTopic, "KAFKA_TOPIC")
	set(&c.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	set(&c.ServiceName, "OTEL_SERVICE_NAME")
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.KafkaBrokers = append(c.KafkaBrokers, b)
			}
		}
	}
}

// redactDSN hides the password of a URL-style DSN.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		creds = creds[:i] + ":***"
	}
	return dsn[:scheme+3] + creds + dsn[at:]
}
