package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GatewayConfig holds mobile-money gateway credentials. All fields except
// BaseURL must be present for live mode; otherwise the service runs with
// the demo fallback scheduler.
type GatewayConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
}

// Configured reports whether live gateway credentials are present.
func (g GatewayConfig) Configured() bool {
	return g.ConsumerKey != "" && g.ConsumerSecret != "" && g.ShortCode != "" && g.Passkey != ""
}

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	Gateway         GatewayConfig
	KafkaBrokers    []string
	NotifyTopic     string
	DemoDelay       time.Duration
	LookupRetries   int
	LookupBackoff   time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultGatewayBaseURL  = "https://sandbox.safaricom.co.ke"
	defaultNotifyTopic     = "dukapay.payments"
	defaultDemoDelay       = 3 * time.Second
	defaultLookupRetries   = 5
	defaultLookupBackoff   = 200 * time.Millisecond
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from .env file, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:  getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI: getString(lookup, "DATABASE_URI", ""),
		Gateway: GatewayConfig{
			BaseURL:        getString(lookup, "MPESA_BASE_URL", defaultGatewayBaseURL),
			ConsumerKey:    getString(lookup, "MPESA_CONSUMER_KEY", ""),
			ConsumerSecret: getString(lookup, "MPESA_CONSUMER_SECRET", ""),
			ShortCode:      getString(lookup, "MPESA_SHORTCODE", ""),
			Passkey:        getString(lookup, "MPESA_PASSKEY", ""),
			CallbackURL:    getString(lookup, "MPESA_CALLBACK_URL", ""),
		},
		KafkaBrokers:    splitCSV(getString(lookup, "KAFKA_BROKERS", "")),
		NotifyTopic:     getString(lookup, "NOTIFY_TOPIC", defaultNotifyTopic),
		DemoDelay:       getDuration(lookup, "DEMO_CONFIRM_DELAY", defaultDemoDelay),
		LookupRetries:   getInt(lookup, "CALLBACK_LOOKUP_RETRIES", defaultLookupRetries),
		LookupBackoff:   getDuration(lookup, "CALLBACK_LOOKUP_BACKOFF", defaultLookupBackoff),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("dukapay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		demoDelayStr       = cfg.DemoDelay.String()
		lookupBackoffStr   = cfg.LookupBackoff.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.Gateway.BaseURL, "gateway-url", cfg.Gateway.BaseURL, "Payment gateway base URL")
	fs.StringVar(&cfg.Gateway.CallbackURL, "callback-url", cfg.Gateway.CallbackURL, "Publicly reachable callback URL")
	fs.StringVar(&cfg.NotifyTopic, "notify-topic", cfg.NotifyTopic, "Kafka topic for payment notifications")
	fs.StringVar(&demoDelayStr, "demo-delay", demoDelayStr, "Delay before the demo confirmation fires")
	fs.IntVar(&cfg.LookupRetries, "lookup-retries", cfg.LookupRetries, "Callback correlation lookup attempts")
	fs.StringVar(&lookupBackoffStr, "lookup-backoff", lookupBackoffStr, "Backoff between correlation lookup attempts")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.DemoDelay, err = time.ParseDuration(demoDelayStr); err != nil {
		return nil, fmt.Errorf("invalid demo delay: %w", err)
	}

	if cfg.LookupBackoff, err = time.ParseDuration(lookupBackoffStr); err != nil {
		return nil, fmt.Errorf("invalid lookup backoff: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.DemoDelay <= 0 {
		cfg.DemoDelay = defaultDemoDelay
	}

	if cfg.LookupRetries <= 0 {
		cfg.LookupRetries = defaultLookupRetries
	}

	if cfg.LookupBackoff <= 0 {
		cfg.LookupBackoff = defaultLookupBackoff
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.Gateway.Configured() && cfg.Gateway.CallbackURL == "" {
		return nil, fmt.Errorf("callback URL must be provided when gateway credentials are set")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
