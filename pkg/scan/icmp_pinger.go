package scan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	protocolICMP   = 1
	protocolICMPv6 = 58
	maxPacket      = 1500
)

// family holds the per address family socket and message parameters.
type family struct {
	raw       string
	datagram  string
	listen    string
	protocol  int
	echo      icmp.Type
	echoReply icmp.Type
}

var (
	familyV4 = family{
		raw:       "ip4:icmp",
		datagram:  "udp4",
		listen:    "0.0.0.0",
		protocol:  protocolICMP,
		echo:      ipv4.ICMPTypeEcho,
		echoReply: ipv4.ICMPTypeEchoReply,
	}
	familyV6 = family{
		raw:       "ip6:ipv6-icmp",
		datagram:  "udp6",
		listen:    "::",
		protocol:  protocolICMPv6,
		echo:      ipv6.ICMPTypeEchoRequest,
		echoReply: ipv6.ICMPTypeEchoReply,
	}
)

// ICMPPinger sends a single echo request per probe. Privileged mode uses a raw
// socket; unprivileged mode uses a datagram socket, which Linux allows when
// net.ipv4.ping_group_range covers the process group. IPv6 targets use
// ICMPv6; when no ICMPv6 socket can be opened they go to the fallback.
type ICMPPinger struct {
	timeout    time.Duration
	privileged bool
	id         int
	seq        atomic.Uint32
	v4, v6     family
	fallback   Pinger
}

var _ Pinger = (*ICMPPinger)(nil)

func NewICMPPinger(timeout time.Duration, privileged bool) *ICMPPinger {
	return &ICMPPinger{
		timeout:    timeout,
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
		v4:         familyV4,
		v6:         familyV6,
	}
}

// WithFallback sets the pinger used for IPv6 targets when this process
// cannot open an ICMPv6 socket, for example on hosts without IPv6.
func (p *ICMPPinger) WithFallback(fallback Pinger) *ICMPPinger {
	p.fallback = fallback

	return p
}

// Available reports whether an IPv4 ICMP socket of the configured kind can
// be opened.
func (p *ICMPPinger) Available() error {
	conn, err := p.listen(p.v4)
	if err != nil {
		return err
	}

	return conn.Close()
}

func (p *ICMPPinger) Reachable(ctx context.Context, ip string) (bool, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return false, fmt.Errorf("%w: %q", errInvalidIP, ip)
	}

	fam := p.v4
	if addr.To4() == nil {
		fam = p.v6
	}

	conn, err := p.listen(fam)
	if err != nil {
		if fam.protocol == protocolICMPv6 && p.fallback != nil {
			return p.fallback.Reachable(ctx, ip)
		}

		return false, err
	}
	defer conn.Close()

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := conn.SetDeadline(deadline); err != nil {
		return false, err
	}

	seq := int(p.seq.Add(1) & 0xffff)

	msg := icmp.Message{
		Type: fam.echo,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: []byte("meshmon"),
		},
	}

	wire, err := msg.Marshal(nil)
	if err != nil {
		return false, err
	}

	var dst net.Addr = &net.IPAddr{IP: addr}
	if !p.privileged {
		dst = &net.UDPAddr{IP: addr}
	}

	if _, err := conn.WriteTo(wire, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %w", errSendFailed, ip, err)
	}

	// an expired read deadline unblocks ReadFrom when ctx is cancelled
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()

	buf := make([]byte, maxPacket)

	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return false, nil
			}

			return false, err
		}

		if !samePeer(peer, addr) {
			continue
		}

		reply, err := icmp.ParseMessage(fam.protocol, buf[:n])
		if err != nil || reply.Type != fam.echoReply {
			continue
		}

		echo, ok := reply.Body.(*icmp.Echo)
		if !ok || echo.Seq != seq {
			continue
		}

		// datagram sockets rewrite the identifier, so only raw replies are checked
		if p.privileged && echo.ID != p.id {
			continue
		}

		return true, nil
	}
}

func (p *ICMPPinger) listen(fam family) (*icmp.PacketConn, error) {
	network := fam.datagram
	if p.privileged {
		network = fam.raw
	}

	conn, err := icmp.ListenPacket(network, fam.listen)
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", errSocketFailed, network, err)
	}

	return conn, nil
}

func samePeer(peer net.Addr, ip net.IP) bool {
	switch a := peer.(type) {
	case *net.IPAddr:
		return a.IP.Equal(ip)
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	default:
		return false
	}
}
