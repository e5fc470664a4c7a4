package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_FILE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.HTTPAddr)
	assert.Equal(t, []string{"08:00", "12:00", "18:00"}, cfg.NotifyTimes)
	assert.Equal(t, TransportLog, cfg.PushTransport)
	assert.Equal(t, 168, cfg.JWTExpirationHours)
	assert.Equal(t, 30*time.Second, cfg.DispatchTimeout)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.toml")
	content := `
http_addr = ":9000"
notify_times = ["07:30", "21:00"]
timezone = "UTC"
push_transport = "nats"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("DISPATCH_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, []string{"07:30", "21:00"}, cfg.NotifyTimes)
	assert.Equal(t, TransportNATS, cfg.PushTransport)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 5*time.Second, cfg.DispatchTimeout)
}

func TestLoad_NotifyTimesFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("NOTIFY_TIMES", " 09:00 , ,17:45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "17:45"}, cfg.NotifyTimes)
}

func TestLoad_TelegramTransportNeedsToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PUSH_TRANSPORT", "telegram")
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}

func TestLoad_UnknownTransport(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PUSH_TRANSPORT", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_BadTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
}
