package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"movie-catalog-api/internal/db"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr      string
	AllowedOrigins  []string
	DB              db.Config
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Default returns the local development configuration.
func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		AllowedOrigins:  []string{"http://localhost:3000"},
		DB:              db.DefaultConfig(),
		JWTSecret:       "dev-secret-change-me",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

// Load reads config.yaml from configPath with environment overrides
// (APP_SERVER_ADDR, APP_DATABASE_URI, ...). A missing file is not an
// error; defaults plus environment carry a dev setup.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")

	v.BindEnv("server.addr")
	v.BindEnv("server.allowed_origins")
	v.BindEnv("database.uri")
	v.BindEnv("database.name")
	v.BindEnv("auth.jwt_secret")
	v.BindEnv("auth.access_token_ttl")
	v.BindEnv("auth.refresh_token_ttl")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.ListenAddr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("database.uri") {
		cfg.DB.URI = v.GetString("database.uri")
	}
	if v.IsSet("database.name") {
		cfg.DB.Database = v.GetString("database.name")
	}
	if v.IsSet("auth.jwt_secret") {
		cfg.JWTSecret = v.GetString("auth.jwt_secret")
	}
	if v.IsSet("auth.access_token_ttl") {
		cfg.AccessTokenTTL = v.GetDuration("auth.access_token_ttl")
	}
	if v.IsSet("auth.refresh_token_ttl") {
		cfg.RefreshTokenTTL = v.GetDuration("auth.refresh_token_ttl")
	}

	return cfg, nil
}
