package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	LogLevel         string
	AllowOrigins     string
	DatabaseURL      string
	RedisURL         string
	JWTSecret        string
	ProgressCacheTTL time.Duration
	PersistProgress  bool
	NATSURL          string
	NATSSubject      string
	LeaderboardSize  int
	EventsPerMinute  int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ELEARNING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "E-Learning Progress API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.allow_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("progress.cache_ttl", "5m")
	v.SetDefault("progress.persist", true)
	v.SetDefault("nats.subject", "elearning.progress")
	v.SetDefault("leaderboard.size", 10)
	v.SetDefault("rate_limit.events_per_minute", 30)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	ttlString := v.GetString("progress.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid progress cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		LogLevel:         strings.ToLower(v.GetString("log.level")),
		AllowOrigins:     v.GetString("app.allow_origins"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		ProgressCacheTTL: ttl,
		PersistProgress:  v.GetBool("progress.persist"),
		NATSURL:          v.GetString("nats.url"),
		NATSSubject:      v.GetString("nats.subject"),
		LeaderboardSize:  v.GetInt("leaderboard.size"),
		EventsPerMinute:  v.GetInt("rate_limit.events_per_minute"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = 10
	}

	if cfg.EventsPerMinute <= 0 {
		cfg.EventsPerMinute = 30
	}

	return cfg, nil
}
