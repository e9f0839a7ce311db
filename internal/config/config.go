// internal/config/config.go
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BaseURL  string `mapstructure:"base_url"`
	Listen   string `mapstructure:"listen"`
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Auth struct {
		TokenSecret string        `mapstructure:"token_secret"`
		TokenTTL    time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

func Load() Config {
	viper.SetDefault("listen", "127.0.0.1:8080")
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	_ = viper.ReadInConfig()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// explicit bindings
	_ = viper.BindEnv("base_url", "BASE_URL")
	_ = viper.BindEnv("listen", "LISTEN")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("auth.token_secret", "AUTH_TOKEN_SECRET")
	_ = viper.BindEnv("auth.token_ttl", "AUTH_TOKEN_TTL")

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		panic("config error: " + err.Error())
	}
	if c.Database.URL == "" {
		panic("config error: database.url/DATABASE_URL required")
	}
	if c.Auth.TokenSecret == "" {
		panic("config error: auth.token_secret/AUTH_TOKEN_SECRET required")
	}
	return c
}
