package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every variable; "__" separates nested keys,
// e.g. LIGHTBNB_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns.
const EnvPrefix = "LIGHTBNB_"

type Config struct {
	AppEnv      string         `koanf:"app_env" validate:"required"`
	LogLevel    string         `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`
	MetricsAddr string         `koanf:"metrics_addr"`
	Database    DatabaseConfig `koanf:"database" validate:"required"`
	Seed        SeedConfig     `koanf:"seed"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"required,oneof=postgres mysql"`
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required,gt=0"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	// TraceQueries turns on driver-level SQL logging (PostgreSQL only).
	TraceQueries bool `koanf:"trace_queries"`
}

type SeedConfig struct {
	Dir     string `koanf:"dir"`
	Workers int    `koanf:"workers" validate:"gte=0"`
	// RPS caps inserts per second; 0 means unlimited.
	RPS int `koanf:"rps" validate:"gte=0"`
}

// Load reads LIGHTBNB_* variables (and a .env file if present), fills in
// defaults and validates the result.
func Load() (Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&c)

	if err := validator.New().Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func applyDefaults(c *Config) {
	if c.AppEnv == "" {
		c.AppEnv = "prod"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	d := &c.Database
	if d.Driver == "" {
		d.Driver = "postgres"
	}
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port == 0 {
		d.Port = 5432
		if d.Driver == "mysql" {
			d.Port = 3306
		}
	}
	if d.User == "" {
		d.User = "vagrant"
	}
	if d.Name == "" {
		d.Name = "lightbnb"
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 10
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 5
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = 30 * time.Minute
	}
	if d.ConnMaxIdleTime == 0 {
		d.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.Seed.Dir == "" {
		c.Seed.Dir = "seeds"
	}
	if c.Seed.Workers == 0 {
		c.Seed.Workers = 4
	}
}
