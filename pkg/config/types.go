package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "30s" style strings or numeric nanoseconds in both JSON and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errInvalidDuration
	}

	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(time.Duration(n))

		return nil
	}

	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidDuration, err)
	}

	*d = Duration(dur)

	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// NodeConfig is a statically configured node.
type NodeConfig struct {
	Hostname string `yaml:"hostname" json:"hostname"`
	IP       string `yaml:"ip" json:"ip"`
	Type     string `yaml:"type" json:"type"`
}

// NetworkConfig controls node discovery.
type NetworkConfig struct {
	Nodes            []NodeConfig `yaml:"nodes" json:"nodes"`
	AutoDiscovery    *bool        `yaml:"auto_discovery" json:"auto_discovery"`
	DiscoveryCommand string       `yaml:"discovery_command" json:"discovery_command"`
	DiscoveryTimeout Duration     `yaml:"discovery_timeout" json:"discovery_timeout"`
}

// DiscoveryEnabled reports whether routing-neighbor discovery should run.
func (n *NetworkConfig) DiscoveryEnabled() bool {
	return n.AutoDiscovery == nil || *n.AutoDiscovery
}

// MonitoringConfig controls the collection loop and the remote probes.
type MonitoringConfig struct {
	Interval     Duration `yaml:"interval" json:"interval"`
	PingTimeout  Duration `yaml:"ping_timeout" json:"ping_timeout"`
	SSHEnabled   *bool    `yaml:"ssh_enabled" json:"ssh_enabled"`
	SSHUser      string   `yaml:"ssh_user" json:"ssh_user"`
	SSHKey       string   `yaml:"ssh_key" json:"ssh_key"`
	SSHPort      int      `yaml:"ssh_port" json:"ssh_port"`
	KnownHosts   string   `yaml:"known_hosts" json:"known_hosts"`
	Timeout      Duration `yaml:"timeout" json:"timeout"`
	Services     []string `yaml:"services" json:"services"`
	Workers      int      `yaml:"workers" json:"workers"`
	ErrorBackoff Duration `yaml:"error_backoff" json:"error_backoff"`
	MaxBackoff   Duration `yaml:"max_backoff" json:"max_backoff"`
	AutoResolve  bool     `yaml:"auto_resolve" json:"auto_resolve"`
}

// RemoteEnabled reports whether remote probes run over SSH.
func (m *MonitoringConfig) RemoteEnabled() bool {
	return m.SSHEnabled == nil || *m.SSHEnabled
}

// Thresholds are the two-tier limits, in percent, used by the evaluator.
type Thresholds struct {
	CPUWarning     float64 `yaml:"cpu_warning" json:"cpu_warning"`
	CPUCritical    float64 `yaml:"cpu_critical" json:"cpu_critical"`
	MemoryWarning  float64 `yaml:"memory_warning" json:"memory_warning"`
	MemoryCritical float64 `yaml:"memory_critical" json:"memory_critical"`
	DiskWarning    float64 `yaml:"disk_warning" json:"disk_warning"`
	DiskCritical   float64 `yaml:"disk_critical" json:"disk_critical"`
}

// EmailConfig configures SMTP delivery.
type EmailConfig struct {
	Enabled      bool     `yaml:"enabled" json:"enabled"`
	SMTPServer   string   `yaml:"smtp_server" json:"smtp_server"`
	SMTPPort     int      `yaml:"smtp_port" json:"smtp_port"`
	SMTPUser     string   `yaml:"smtp_user" json:"smtp_user"`
	SMTPPassword string   `yaml:"smtp_password" json:"smtp_password"`
	From         string   `yaml:"from" json:"from"`
	To           []string `yaml:"to" json:"to"`
}

// TelegramConfig configures the Telegram bot API.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	BotToken string `yaml:"bot_token" json:"bot_token"`
	ChatID   string `yaml:"chat_id" json:"chat_id"`
	APIURL   string `yaml:"api_url" json:"api_url"`
}

// ChatWebhookConfig configures a Discord or Slack incoming webhook.
type ChatWebhookConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
}

// WebhookConfig configures a generic JSON webhook.
type WebhookConfig struct {
	Enabled bool              `yaml:"enabled" json:"enabled"`
	URL     string            `yaml:"url" json:"url"`
	Method  string            `yaml:"method" json:"method"`
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// NotificationsConfig holds every channel.
type NotificationsConfig struct {
	DashboardURL string            `yaml:"dashboard_url" json:"dashboard_url"`
	Timeout      Duration          `yaml:"timeout" json:"timeout"`
	RateLimit    int               `yaml:"rate_limit" json:"rate_limit"`
	Email        EmailConfig       `yaml:"email" json:"email"`
	Telegram     TelegramConfig    `yaml:"telegram" json:"telegram"`
	Discord      ChatWebhookConfig `yaml:"discord" json:"discord"`
	Slack        ChatWebhookConfig `yaml:"slack" json:"slack"`
	Webhook      WebhookConfig     `yaml:"webhook" json:"webhook"`
}

// APIConfig configures the read API served next to the collector.
type APIConfig struct {
	Enabled      bool     `yaml:"enabled" json:"enabled"`
	ListenAddr   string   `yaml:"listen_addr" json:"listen_addr"`
	PushInterval Duration `yaml:"push_interval" json:"push_interval"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Config is the root configuration.
type Config struct {
	DBPath        string              `yaml:"db_path" json:"db_path"`
	Network       NetworkConfig       `yaml:"network" json:"network"`
	Monitoring    MonitoringConfig    `yaml:"monitoring" json:"monitoring"`
	Thresholds    Thresholds          `yaml:"thresholds" json:"thresholds"`
	Notifications NotificationsConfig `yaml:"notifications" json:"notifications"`
	API           APIConfig           `yaml:"api" json:"api"`
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`
}
