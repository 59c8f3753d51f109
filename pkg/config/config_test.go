package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
db_path: /tmp/meshmon.db
network:
  auto_discovery: false
  nodes:
    - hostname: core-1
      ip: 10.0.0.1
      type: router
    - hostname: edge-2
      ip: 10.0.0.2
monitoring:
  interval: 60s
  timeout: 3s
  services: [frr]
thresholds:
  cpu_warning: 60
notifications:
  webhook:
    enabled: true
    url: http://hooks.local/alert
    method: put
    headers:
      X-Token: abc
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_YAMLAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/meshmon.db", cfg.DBPath)
	assert.False(t, cfg.Network.DiscoveryEnabled())
	require.Len(t, cfg.Network.Nodes, 2)
	assert.Equal(t, "unknown", cfg.Network.Nodes[1].Type)

	assert.Equal(t, 60*time.Second, cfg.Monitoring.Interval.Std())
	assert.Equal(t, 3*time.Second, cfg.Monitoring.Timeout.Std())
	assert.Equal(t, 2*time.Second, cfg.Monitoring.PingTimeout.Std())
	assert.Equal(t, []string{"frr"}, cfg.Monitoring.Services)
	assert.True(t, cfg.Monitoring.RemoteEnabled())

	assert.InDelta(t, 60.0, cfg.Thresholds.CPUWarning, 0.001)
	assert.InDelta(t, 90.0, cfg.Thresholds.CPUCritical, 0.001)
	assert.InDelta(t, 95.0, cfg.Thresholds.MemoryCritical, 0.001)

	assert.Equal(t, "put", cfg.Notifications.Webhook.Method)
	assert.Equal(t, "abc", cfg.Notifications.Webhook.Headers["X-Token"])
	assert.Equal(t, defaultDashboardURL, cfg.Notifications.DashboardURL)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"network": {"nodes": [{"hostname": "a", "ip": "192.168.1.10"}]},
		"monitoring": {"interval": "2m", "ping_timeout": 1000000000}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Monitoring.Interval.Std())
	assert.Equal(t, time.Second, cfg.Monitoring.PingTimeout.Std())
	assert.True(t, cfg.Network.DiscoveryEnabled())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yml", "monitoring:\n  interval: soon\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name: "warning above critical",
			mutate: func(c *Config) {
				c.Thresholds.CPUWarning = 95
			},
			wantErr: "thresholds.cpu",
		},
		{
			name: "threshold out of range",
			mutate: func(c *Config) {
				c.Thresholds.DiskCritical = 120
			},
			wantErr: "thresholds.disk",
		},
		{
			name: "email without recipients",
			mutate: func(c *Config) {
				c.Notifications.Email = EmailConfig{Enabled: true, SMTPServer: "smtp.local", From: "a@b"}
			},
			wantErr: "notifications.email",
		},
		{
			name: "telegram without token",
			mutate: func(c *Config) {
				c.Notifications.Telegram.Enabled = true
			},
			wantErr: "notifications.telegram",
		},
		{
			name: "webhook bad method",
			mutate: func(c *Config) {
				c.Notifications.Webhook = WebhookConfig{Enabled: true, URL: "http://x", Method: "GET"}
			},
			wantErr: "unsupported method",
		},
		{
			name: "probe timeouts exceed interval",
			mutate: func(c *Config) {
				c.Monitoring.Interval = Duration(10 * time.Second)
			},
			wantErr: "worst-case node collection time",
		},
		{
			name: "duplicate static ip",
			mutate: func(c *Config) {
				c.Network.Nodes = append(c.Network.Nodes, NodeConfig{Hostname: "dup", IP: "10.0.0.1"})
			},
			wantErr: "already used",
		},
		{
			name: "duplicate static hostname",
			mutate: func(c *Config) {
				c.Network.Nodes = append(c.Network.Nodes, NodeConfig{Hostname: "core-1", IP: "10.0.0.2"})
			},
			wantErr: `hostname "core-1" already used by nodes[0]`,
		},
		{
			name: "bad log format",
			mutate: func(c *Config) {
				c.Logging.Format = "xml"
			},
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Network: NetworkConfig{
					Nodes: []NodeConfig{{Hostname: "core-1", IP: "10.0.0.1"}},
				},
			}
			cfg.ApplyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorstNodeTime(t *testing.T) {
	m := MonitoringConfig{
		PingTimeout: Duration(2 * time.Second),
		Timeout:     Duration(5 * time.Second),
		Services:    []string{"frr", "etcd"},
	}

	assert.Equal(t, 38*time.Second, m.WorstNodeTime())

	disabled := false
	m.SSHEnabled = &disabled
	assert.Equal(t, 3*time.Second, m.WorstNodeTime())
}

func TestPingWait(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    time.Duration
	}{
		{timeout: 2 * time.Second, want: 3 * time.Second},
		{timeout: 1500 * time.Millisecond, want: 3 * time.Second},
		{timeout: 200 * time.Millisecond, want: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.timeout.String(), func(t *testing.T) {
			m := MonitoringConfig{PingTimeout: Duration(tt.timeout)}
			assert.Equal(t, tt.want, m.PingWait())
		})
	}
}
