package scan

import (
	"log/slog"
	"time"

	"github.com/mfreeman451/meshmon/pkg/remote"
)

// NewPinger returns the best reachability probe this process can run: a raw
// ICMP socket, then an unprivileged ICMP datagram socket, then the ping binary.
// The ping binary also backs IPv6 targets when ICMPv6 sockets are refused.
func NewPinger(timeout time.Duration, logger *slog.Logger) Pinger {
	command := NewCommandPinger(remote.NewLocalExecutor(), timeout)

	raw := NewICMPPinger(timeout, true).WithFallback(command)
	if err := raw.Available(); err == nil {
		logger.Debug("using raw icmp pinger")

		return raw
	}

	dgram := NewICMPPinger(timeout, false).WithFallback(command)

	err := dgram.Available()
	if err == nil {
		logger.Debug("using unprivileged icmp pinger")

		return dgram
	}

	logger.Warn("icmp sockets unavailable, falling back to ping binary", slog.Any("error", err))

	return command
}
