package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funcompany/justlog-go/pkg/record"
	"github.com/funcompany/justlog-go/pkg/shipper"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "justlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsConsoleOnly(t *testing.T) {
	conf := Default()
	require.NoError(t, conf.Validate())
	assert.True(t, conf.Console)
	assert.Empty(t, conf.File)
	assert.Nil(t, conf.Network)
	assert.Equal(t, record.LevelVerbose, conf.minLevel())
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
level: warning
console: false
file: /tmp/app.jlog
network:
  host: logs.example.com
  port: 9400
  timeout: 10s
  use_tls: true
  allow_untrusted_server: false
  auth_token: secret-token
  flush_interval: 2s
  buffer_capacity: 500
  overflow_policy: reject-new
fields:
  environment: production
app_version: "3.12.0 (1451)"
platform_version: "iOS 18.2"
device_type: "iPhone17,2"
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, record.LevelWarning, conf.minLevel())
	assert.False(t, conf.Console)
	assert.Equal(t, "/tmp/app.jlog", conf.File)
	assert.Equal(t, "production", conf.Fields["environment"])
	assert.Equal(t, "3.12.0 (1451)", conf.App)

	require.NotNil(t, conf.Network)
	sc := conf.Network.shipperConfig()
	assert.Equal(t, "logs.example.com", sc.Host)
	assert.Equal(t, 9400, sc.Port)
	assert.Equal(t, 10*time.Second, sc.Timeout)
	assert.True(t, sc.UseTLS)
	assert.Equal(t, 2*time.Second, sc.FlushInterval)
	assert.Equal(t, 500, sc.BufferCapacity)
	assert.Equal(t, shipper.RejectNew, sc.OverflowPolicy)
	assert.Equal(t, "secret-token", conf.Network.AuthToken)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
network:
  host: localhost
  use_tls: false
`)

	conf, err := Load(path)
	require.NoError(t, err)

	// Defaults survive a partial file.
	assert.True(t, conf.Console)
	sc := conf.Network.shipperConfig()
	assert.Equal(t, shipper.DefaultPort, sc.Port)
	assert.Equal(t, shipper.DefaultTimeout, sc.Timeout)
	assert.Equal(t, shipper.DefaultFlushInterval, sc.FlushInterval)
	assert.Equal(t, shipper.DefaultBufferCapacity, sc.BufferCapacity)
	assert.False(t, sc.UseTLS)
	assert.Equal(t, shipper.DropOldest, sc.OverflowPolicy)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cases := []struct {
		name string
		conf Config
	}{
		{"no sinks", Config{}},
		{"bad level", Config{Console: true, Level: "loud"}},
		{"network without host", Config{Network: &Network{}}},
		{"port out of range", Config{Network: &Network{Host: "h", Port: 70000}}},
		{"bad overflow policy", Config{Network: &Network{Host: "h", OverflowPolicy: "drop-newest"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.conf.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestBuildConsoleAndFile(t *testing.T) {
	conf := Default()
	conf.File = filepath.Join(t.TempDir(), "capture.jlog")
	conf.Fields = map[string]any{"environment": "test"}

	l, err := conf.Build()
	require.NoError(t, err)

	l.Info("built")
	require.NoError(t, l.Close())

	info, err := os.Stat(conf.File)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestBuildWithNetworkSink(t *testing.T) {
	useTLS := false
	conf := Config{
		Network: &Network{
			Host:          "localhost",
			UseTLS:        &useTLS,
			FlushInterval: -1,
		},
	}

	l, err := conf.Build()
	require.NoError(t, err)
	l.Info("queued only")
	require.NoError(t, l.Close())
}
