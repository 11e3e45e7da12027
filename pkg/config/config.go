package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DBConfig struct {
	// Path is the sqlite database file; ":memory:" is accepted for local runs.
	Path string `mapstructure:"path"`
}

type SweepConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Schedule is a cron expression for the automated transition sweep.
	Schedule string `mapstructure:"schedule"`
}

type AdminConfig struct {
	// JWTSecret signs admin tokens; the token subject becomes changed_by on transitions.
	JWTSecret string `mapstructure:"jwt_secret"`
}

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

type Config struct {
	Env         Env          `mapstructure:"env"`
	Server      ServerConfig `mapstructure:"server"`
	Database    DBConfig     `mapstructure:"database"`
	Sweep       SweepConfig  `mapstructure:"sweep"`
	Admin       AdminConfig  `mapstructure:"admin"`
	MetricsAddr string       `mapstructure:"metrics_addr"`
}

func New() (*Config, error) {
	v := viper.New()
	// Allow overriding config file via env:
	// - APP_CONFIG_FILE: absolute or relative file path (e.g., /etc/app/prod.yaml)
	// - APP_CONFIG_NAME: config base name without extension (default: "config")
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		cfgName := os.Getenv("APP_CONFIG_NAME")
		if cfgName == "" {
			cfgName = "config"
		}
		v.SetConfigName(cfgName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("env", "dev")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8888)
	v.SetDefault("database.path", "mealsub.db")
	v.SetDefault("sweep.enabled", true)
	// Daily, shortly after midnight, so Exiting subscriptions whose paid
	// period ended yesterday are retired before the kitchen day starts.
	v.SetDefault("sweep.schedule", "15 0 * * *")
	v.SetDefault("metrics_addr", ":90")

	if err := v.ReadInConfig(); err != nil {
		_ = err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
