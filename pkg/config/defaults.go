package config

import "time"

const (
	defaultDBPath           = "/var/lib/mesh-monitor/metrics.db"
	defaultDiscoveryCommand = "vtysh -c 'show ip ospf neighbor json'"
	defaultDiscoveryTimeout = 5 * time.Second
	defaultInterval         = 30 * time.Second
	defaultPingTimeout      = 2 * time.Second
	defaultSSHUser          = "mesh-monitor"
	defaultSSHKey           = "/opt/mesh-monitor/.ssh/id_ed25519"
	defaultSSHPort          = 22
	defaultRemoteTimeout    = 2 * time.Second
	defaultWorkers          = 4
	defaultErrorBackoff     = 10 * time.Second
	defaultMaxBackoff       = 5 * time.Minute
	defaultDashboardURL     = "http://monitor.mesh.local:8080"
	defaultNotifyTimeout    = 10 * time.Second
	defaultTelegramAPI      = "https://api.telegram.org"
	defaultWebhookMethod    = "POST"
	defaultListenAddr       = ":8080"
	defaultPushInterval     = 5 * time.Second
	defaultLogLevel         = "info"
	defaultLogFormat        = "text"
)

// DefaultServices is the service list probed on every node when none is configured.
var DefaultServices = []string{"frr", "etcd", "coredns", "unbound", "isc-dhcp-server"}

// DefaultThresholds returns the built-in warning/critical limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUWarning:     70,
		CPUCritical:    90,
		MemoryWarning:  80,
		MemoryCritical: 95,
		DiskWarning:    80,
		DiskCritical:   90,
	}
}

// ApplyDefaults fills every unset option.
func (c *Config) ApplyDefaults() {
	if c.DBPath == "" {
		c.DBPath = defaultDBPath
	}

	c.Network.applyDefaults()
	c.Monitoring.applyDefaults()
	c.Thresholds.applyDefaults()
	c.Notifications.applyDefaults()

	if c.API.ListenAddr == "" {
		c.API.ListenAddr = defaultListenAddr
	}

	setDuration(&c.API.PushInterval, defaultPushInterval)

	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func (n *NetworkConfig) applyDefaults() {
	if n.DiscoveryCommand == "" {
		n.DiscoveryCommand = defaultDiscoveryCommand
	}

	setDuration(&n.DiscoveryTimeout, defaultDiscoveryTimeout)

	for i := range n.Nodes {
		if n.Nodes[i].Type == "" {
			n.Nodes[i].Type = "unknown"
		}
	}
}

func (m *MonitoringConfig) applyDefaults() {
	setDuration(&m.Interval, defaultInterval)
	setDuration(&m.PingTimeout, defaultPingTimeout)
	setDuration(&m.Timeout, defaultRemoteTimeout)
	setDuration(&m.ErrorBackoff, defaultErrorBackoff)
	setDuration(&m.MaxBackoff, defaultMaxBackoff)

	if m.SSHUser == "" {
		m.SSHUser = defaultSSHUser
	}

	if m.SSHKey == "" {
		m.SSHKey = defaultSSHKey
	}

	if m.SSHPort == 0 {
		m.SSHPort = defaultSSHPort
	}

	if m.Services == nil {
		m.Services = append([]string(nil), DefaultServices...)
	}

	if m.Workers == 0 {
		m.Workers = defaultWorkers
	}
}

func (t *Thresholds) applyDefaults() {
	d := DefaultThresholds()

	setFloat(&t.CPUWarning, d.CPUWarning)
	setFloat(&t.CPUCritical, d.CPUCritical)
	setFloat(&t.MemoryWarning, d.MemoryWarning)
	setFloat(&t.MemoryCritical, d.MemoryCritical)
	setFloat(&t.DiskWarning, d.DiskWarning)
	setFloat(&t.DiskCritical, d.DiskCritical)
}

func (n *NotificationsConfig) applyDefaults() {
	if n.DashboardURL == "" {
		n.DashboardURL = defaultDashboardURL
	}

	setDuration(&n.Timeout, defaultNotifyTimeout)

	if n.Telegram.APIURL == "" {
		n.Telegram.APIURL = defaultTelegramAPI
	}

	if n.Webhook.Method == "" {
		n.Webhook.Method = defaultWebhookMethod
	}

	if n.Email.SMTPPort == 0 {
		n.Email.SMTPPort = 587
	}
}

func setDuration(d *Duration, def time.Duration) {
	if *d == 0 {
		*d = Duration(def)
	}
}

func setFloat(f *float64, def float64) {
	if *f == 0 {
		*f = def
	}
}
