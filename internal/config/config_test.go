package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("ELEARNING_JWT_SECRET", "secret")
	t.Setenv("ELEARNING_APP_PORT", "9090")
	t.Setenv("ELEARNING_PROGRESS_CACHE_TTL", "90s")
	t.Setenv("ELEARNING_PROGRESS_PERSIST", "false")
	t.Setenv("ELEARNING_LEADERBOARD_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 90*time.Second, cfg.ProgressCacheTTL)
	require.False(t, cfg.PersistProgress)
	require.Equal(t, 25, cfg.LeaderboardSize)
	require.Equal(t, "elearning.progress", cfg.NATSSubject)
	require.Equal(t, 30, cfg.EventsPerMinute)
}

func TestConfigRequiresJWTSecret(t *testing.T) {
	v := viper.New()
	v.Set("progress.cache_ttl", "5m")

	_, err := fromViper(v)
	require.Error(t, err)
}

func TestConfigRejectsInvalidTTL(t *testing.T) {
	v := viper.New()
	v.Set("jwt.secret", "secret")
	v.Set("progress.cache_ttl", "soon")

	_, err := fromViper(v)
	require.Error(t, err)
}

func TestConfigFallsBackOnNonPositiveLimits(t *testing.T) {
	v := viper.New()
	v.Set("jwt.secret", "secret")
	v.Set("leaderboard.size", -1)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.LeaderboardSize)
	require.Equal(t, 30, cfg.EventsPerMinute)
	require.Equal(t, 5*time.Minute, cfg.ProgressCacheTTL)
	require.Equal(t, ":8081", Config{AppPort: ":8081"}.HTTPAddress())
}
