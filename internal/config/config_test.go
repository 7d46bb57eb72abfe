package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "framecs.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[loop]
tick_rate = "33ms"
refresh_every = 4
max_ticks = 100

[logging]
level = "debug"
format = "json"

[telemetry]
statsd_address = "127.0.0.1:8125"
tags = ["env:test"]

[render]
headless = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 33*time.Millisecond, cfg.Loop.TickRate)
	assert.Equal(t, 4, cfg.Loop.RefreshEvery)
	assert.Equal(t, uint64(100), cfg.Loop.MaxTicks)
	assert.Equal(t, 1024, cfg.Loop.EntityCapacity, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:8125", cfg.Telemetry.StatsdAddress)
	assert.Equal(t, []string{"env:test"}, cfg.Telemetry.Tags)
	assert.Equal(t, "framecs.", cfg.Telemetry.Namespace)
	assert.False(t, cfg.Render.Headless)
	assert.Equal(t, 80, cfg.Render.Width)
	assert.Equal(t, "scripts", cfg.Scripting.Dir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero tick":      "[loop]\ntick_rate = \"0s\"\n",
		"zero refresh":   "[loop]\nrefresh_every = 0\n",
		"negative width": "[render]\nwidth = -1\n",
		"negative cap":   "[loop]\nentity_capacity = -5\n",
		"malformed toml": "[loop\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().validate())
}
