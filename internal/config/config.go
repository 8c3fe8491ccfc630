package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "RESTAURANTHUB"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Payout   PayoutConfig   `yaml:"payout"`
	Events   EventsConfig   `yaml:"events"`
	Auth     AuthConfig     `yaml:"auth"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Workers  WorkersConfig  `yaml:"workers"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type DatabaseConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	User             string        `yaml:"user"`
	Password         string        `yaml:"password"`
	Name             string        `yaml:"name"`
	MaxOpenConns     int           `yaml:"maxOpenConns"`
	MaxIdleConns     int           `yaml:"maxIdleConns"`
	ConnMaxLifetime  time.Duration `yaml:"connMaxLifetime"`
	MaxRetryAttempts int           `yaml:"maxRetryAttempts"`
}

type RedisConfig struct {
	URL            string        `yaml:"url"`
	BranchCacheTTL time.Duration `yaml:"branchCacheTTL"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	Service  string `yaml:"service"`
}

// UpstreamConfig points at the restaurant platform API that owns branches.
type UpstreamConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

type PayoutConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

type EventsConfig struct {
	Driver         string `yaml:"driver"`
	KafkaBrokers   string `yaml:"kafkaBrokers"`
	KafkaTopic     string `yaml:"kafkaTopic"`
	RabbitURL      string `yaml:"rabbitURL"`
	RabbitExchange string `yaml:"rabbitExchange"`
}

type AuthConfig struct {
	Secret string `yaml:"secret"`
}

type WalletConfig struct {
	OpeningBalance string `yaml:"openingBalance"`
}

type WorkersConfig struct {
	BranchResyncInterval time.Duration `yaml:"branchResyncInterval"`
	SettlementInterval   time.Duration `yaml:"settlementInterval"`
}

const (
	EventsDriverNone   = "none"
	EventsDriverKafka  = "kafka"
	EventsDriverRabbit = "rabbitmq"
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Enabled:          false,
			Host:             "localhost",
			Port:             3306,
			User:             "restauranthub",
			Password:         "secret",
			Name:             "restauranthub",
			MaxOpenConns:     25,
			MaxIdleConns:     5,
			ConnMaxLifetime:  5 * time.Minute,
			MaxRetryAttempts: 3,
		},
		Redis: RedisConfig{
			BranchCacheTTL: time.Minute,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
			Service:  "restauranthub",
		},
		Upstream: UpstreamConfig{
			Timeout: 15 * time.Second,
		},
		Payout: PayoutConfig{
			Timeout: 10 * time.Second,
		},
		Events: EventsConfig{
			Driver:         EventsDriverNone,
			KafkaTopic:     "restauranthub.events",
			RabbitExchange: "restauranthub.events",
		},
		Wallet: WalletConfig{
			OpeningBalance: "0",
		},
		Workers: WorkersConfig{
			BranchResyncInterval: 5 * time.Minute,
			SettlementInterval:   30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults and environment variables only.
func Load() (*Config, error) {
	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with every RESTAURANTHUB_* variable that is set.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	strs := map[string]*string{
		"DB_HOST":                &cfg.Database.Host,
		"DB_USER":                &cfg.Database.User,
		"DB_PASSWORD":            &cfg.Database.Password,
		"DB_NAME":                &cfg.Database.Name,
		"REDIS_URL":              &cfg.Redis.URL,
		"LOG_LEVEL":              &cfg.Log.Level,
		"LOG_ENCODING":           &cfg.Log.Encoding,
		"LOG_SERVICE":            &cfg.Log.Service,
		"UPSTREAM_BASE_URL":      &cfg.Upstream.BaseURL,
		"UPSTREAM_TOKEN":         &cfg.Upstream.Token,
		"PAYOUT_BASE_URL":        &cfg.Payout.BaseURL,
		"EVENTS_DRIVER":          &cfg.Events.Driver,
		"EVENTS_KAFKA_BROKERS":   &cfg.Events.KafkaBrokers,
		"EVENTS_KAFKA_TOPIC":     &cfg.Events.KafkaTopic,
		"EVENTS_RABBIT_URL":      &cfg.Events.RabbitURL,
		"EVENTS_RABBIT_EXCHANGE": &cfg.Events.RabbitExchange,
		"AUTH_SECRET":            &cfg.Auth.Secret,
		"WALLET_OPENING_BALANCE": &cfg.Wallet.OpeningBalance,
	}
	ints := map[string]*int{
		"SERVER_PORT":           &cfg.Server.Port,
		"DB_PORT":               &cfg.Database.Port,
		"DB_MAX_OPEN_CONNS":     &cfg.Database.MaxOpenConns,
		"DB_MAX_IDLE_CONNS":     &cfg.Database.MaxIdleConns,
		"DB_MAX_RETRY_ATTEMPTS": &cfg.Database.MaxRetryAttempts,
	}
	durations := map[string]*time.Duration{
		"SERVER_READ_TIMEOUT":            &cfg.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":           &cfg.Server.WriteTimeout,
		"SERVER_SHUTDOWN_TIMEOUT":        &cfg.Server.ShutdownTimeout,
		"DB_CONN_MAX_LIFETIME":           &cfg.Database.ConnMaxLifetime,
		"REDIS_BRANCH_CACHE_TTL":         &cfg.Redis.BranchCacheTTL,
		"UPSTREAM_TIMEOUT":               &cfg.Upstream.Timeout,
		"PAYOUT_TIMEOUT":                 &cfg.Payout.Timeout,
		"WORKERS_BRANCH_RESYNC_INTERVAL": &cfg.Workers.BranchResyncInterval,
		"WORKERS_SETTLEMENT_INTERVAL":    &cfg.Workers.SettlementInterval,
	}

	for key, dst := range strs {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	for key, dst := range ints {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	for key, dst := range durations {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if !v.IsSet(key) {
			continue
		}
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return fmt.Errorf("parsing %s_%s: %w", EnvPrefix, key, err)
		}
		*dst = d
	}

	if err := v.BindEnv("DB_ENABLED"); err != nil {
		return err
	}
	if v.IsSet("DB_ENABLED") {
		cfg.Database.Enabled = v.GetBool("DB_ENABLED")
	}

	return cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Events.Driver {
	case "", EventsDriverNone:
	case EventsDriverKafka:
		if c.Events.KafkaBrokers == "" {
			return fmt.Errorf("events driver kafka requires kafkaBrokers")
		}
	case EventsDriverRabbit:
		if c.Events.RabbitURL == "" {
			return fmt.Errorf("events driver rabbitmq requires rabbitURL")
		}
	default:
		return fmt.Errorf("unknown events driver %q", c.Events.Driver)
	}
	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log encoding %q", c.Log.Encoding)
	}
	if c.Database.MaxRetryAttempts < 1 {
		return fmt.Errorf("database maxRetryAttempts must be at least 1")
	}
	return nil
}
