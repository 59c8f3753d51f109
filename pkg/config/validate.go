package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"
)

// fixed remote probes run per node besides the service list: cpu, memory, disk, uptime, neighbors.
const fixedProbeCount = 5

// Validate implements Validator. Every problem found is reported, joined.
func (c *Config) Validate() error {
	var errs []error

	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}

	errs = append(errs, c.Network.validate()...)
	errs = append(errs, c.Monitoring.validate()...)
	errs = append(errs, c.Thresholds.validate()...)
	errs = append(errs, c.Notifications.validate()...)

	if c.API.Enabled && c.API.PushInterval <= 0 {
		errs = append(errs, errors.New("api.push_interval must be positive"))
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (n *NetworkConfig) validate() []error {
	var errs []error

	seen := make(map[string]string, len(n.Nodes))
	names := make(map[string]int, len(n.Nodes))

	for i, node := range n.Nodes {
		if node.Hostname != "" {
			if prev, ok := names[node.Hostname]; ok {
				errs = append(errs, fmt.Errorf("network.nodes[%d]: hostname %q already used by nodes[%d]", i, node.Hostname, prev))
			} else {
				names[node.Hostname] = i
			}
		}

		if net.ParseIP(node.IP) == nil {
			errs = append(errs, fmt.Errorf("network.nodes[%d]: invalid ip %q", i, node.IP))
			continue
		}

		if prev, ok := seen[node.IP]; ok {
			errs = append(errs, fmt.Errorf("network.nodes[%d]: ip %s already used by %q", i, node.IP, prev))
		}

		seen[node.IP] = node.Hostname
	}

	if n.DiscoveryEnabled() && n.DiscoveryTimeout <= 0 {
		errs = append(errs, errors.New("network.discovery_timeout must be positive"))
	}

	if !n.DiscoveryEnabled() && len(n.Nodes) == 0 {
		errs = append(errs, errors.New("network.nodes is empty and auto_discovery is disabled"))
	}

	return errs
}

func (m *MonitoringConfig) validate() []error {
	var errs []error

	for name, d := range map[string]Duration{
		"interval":      m.Interval,
		"ping_timeout":  m.PingTimeout,
		"timeout":       m.Timeout,
		"error_backoff": m.ErrorBackoff,
		"max_backoff":   m.MaxBackoff,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("monitoring.%s must be positive", name))
		}
	}

	if m.MaxBackoff < m.ErrorBackoff {
		errs = append(errs, errors.New("monitoring.max_backoff must not be below error_backoff"))
	}

	if m.Workers < 1 {
		errs = append(errs, errors.New("monitoring.workers must be at least 1"))
	}

	if m.SSHPort < 1 || m.SSHPort > 65535 {
		errs = append(errs, fmt.Errorf("monitoring.ssh_port %d out of range", m.SSHPort))
	}

	if m.RemoteEnabled() && m.SSHUser == "" {
		errs = append(errs, errors.New("monitoring.ssh_user is required when ssh is enabled"))
	}

	if worst := m.WorstNodeTime(); worst >= m.Interval.Std() {
		errs = append(errs, fmt.Errorf(
			"worst-case node collection time %s is not below monitoring.interval %s", worst, m.Interval.Std()))
	}

	return errs
}

// PingWait is the longest a reachability check may take. The ping binary
// fallback waits whole seconds and gets one more second to exit.
func (m *MonitoringConfig) PingWait() time.Duration {
	return time.Duration(math.Ceil(m.PingTimeout.Std().Seconds()))*time.Second + time.Second
}

// WorstNodeTime is the worst-case time spent on a single node: one reachability
// probe plus every remote probe hitting its timeout.
func (m *MonitoringConfig) WorstNodeTime() time.Duration {
	worst := m.PingWait()

	if m.RemoteEnabled() {
		worst += time.Duration(fixedProbeCount+len(m.Services)) * m.Timeout.Std()
	}

	return worst
}

func (t *Thresholds) validate() []error {
	var errs []error

	check := func(name string, warning, critical float64) {
		if warning <= 0 || warning > 100 || critical <= 0 || critical > 100 {
			errs = append(errs, fmt.Errorf("thresholds.%s: values must be in (0, 100]", name))
			return
		}

		if warning >= critical {
			errs = append(errs, fmt.Errorf("thresholds.%s: warning %.1f must be below critical %.1f", name, warning, critical))
		}
	}

	check("cpu", t.CPUWarning, t.CPUCritical)
	check("memory", t.MemoryWarning, t.MemoryCritical)
	check("disk", t.DiskWarning, t.DiskCritical)

	return errs
}

func (n *NotificationsConfig) validate() []error {
	var errs []error

	if n.Timeout <= 0 {
		errs = append(errs, errors.New("notifications.timeout must be positive"))
	}

	if n.RateLimit < 0 {
		errs = append(errs, errors.New("notifications.rate_limit must not be negative"))
	}

	if e := n.Email; e.Enabled {
		if e.SMTPServer == "" || e.From == "" || len(e.To) == 0 {
			errs = append(errs, errors.New("notifications.email: smtp_server, from and to are required"))
		}
	}

	if t := n.Telegram; t.Enabled && (t.BotToken == "" || t.ChatID == "") {
		errs = append(errs, errors.New("notifications.telegram: bot_token and chat_id are required"))
	}

	if n.Discord.Enabled && n.Discord.WebhookURL == "" {
		errs = append(errs, errors.New("notifications.discord: webhook_url is required"))
	}

	if n.Slack.Enabled && n.Slack.WebhookURL == "" {
		errs = append(errs, errors.New("notifications.slack: webhook_url is required"))
	}

	if w := n.Webhook; w.Enabled {
		if w.URL == "" {
			errs = append(errs, errors.New("notifications.webhook: url is required"))
		}

		switch strings.ToUpper(w.Method) {
		case "POST", "PUT":
		default:
			errs = append(errs, fmt.Errorf("notifications.webhook: unsupported method %q", w.Method))
		}
	}

	return errs
}
