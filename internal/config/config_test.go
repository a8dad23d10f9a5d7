package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8082", cfg.HTTPAddr)
	assert.Equal(t, "redis", cfg.SyncTransport)
	assert.Equal(t, "origen.app.sync", cfg.SyncChannel)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 800*time.Millisecond, cfg.SettingsDebounce)
	assert.Equal(t, 3*time.Second, cfg.SettingsSavedHold)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("SYNC_TRANSPORT", "kafka")
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092,")
	t.Setenv("SETTINGS_DEBOUNCE_MS", "250")
	t.Setenv("SETTINGS_SAVED_HOLD_MS", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "kafka", cfg.SyncTransport)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.SettingsDebounce)
	// Unparseable values fall back to the default.
	assert.Equal(t, 3*time.Second, cfg.SettingsSavedHold)
}
