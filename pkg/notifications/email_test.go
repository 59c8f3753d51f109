package notifications

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smtpSink is a minimal SMTP server that accepts one message per session.
type smtpSink struct {
	ln net.Listener

	mu    sync.Mutex
	from  string
	rcpts []string
	data  string
	// rejectRcpt makes RCPT TO fail with 550.
	rejectRcpt bool
}

func newSMTPSink(t *testing.T, rejectRcpt bool) *smtpSink {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &smtpSink{ln: ln, rejectRcpt: rejectRcpt}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			go s.serve(conn)
		}
	}()

	return s
}

func (s *smtpSink) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *smtpSink) serve(conn net.Conn) {
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 sink ESMTP")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}

		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

		switch verb {
		case "EHLO", "HELO":
			_ = tp.PrintfLine("250-sink")
			_ = tp.PrintfLine("250 8BITMIME")
		case "MAIL":
			s.mu.Lock()
			s.from = strings.TrimSuffix(strings.TrimPrefix(line, "MAIL FROM:<"), ">")
			if i := strings.Index(s.from, ">"); i >= 0 {
				s.from = s.from[:i]
			}
			s.mu.Unlock()
			_ = tp.PrintfLine("250 ok")
		case "RCPT":
			if s.rejectRcpt {
				_ = tp.PrintfLine("550 no such user")

				continue
			}

			s.mu.Lock()
			s.rcpts = append(s.rcpts, strings.TrimSuffix(strings.TrimPrefix(line, "RCPT TO:<"), ">"))
			s.mu.Unlock()
			_ = tp.PrintfLine("250 ok")
		case "DATA":
			_ = tp.PrintfLine("354 go ahead")

			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}

			s.mu.Lock()
			s.data = string(body)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")

			return
		default:
			_ = tp.PrintfLine("250 ok")
		}
	}
}

func emailConfig(port int) config.EmailConfig {
	return config.EmailConfig{
		Enabled:    true,
		SMTPServer: "127.0.0.1",
		SMTPPort:   port,
		From:       "monitor@mesh.local",
		To:         []string{"ops@mesh.local", "noc@mesh.local"},
	}
}

func TestEmailSender(t *testing.T) {
	sink := newSMTPSink(t, false)

	s, err := NewEmailSender(emailConfig(sink.port()), dashboard, 2*time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), sample))

	sink.mu.Lock()
	defer sink.mu.Unlock()

	assert.Equal(t, "monitor@mesh.local", sink.from)
	assert.Equal(t, []string{"ops@mesh.local", "noc@mesh.local"}, sink.rcpts)

	msg, err := textproto.NewReader(bufio.NewReader(strings.NewReader(sink.data))).ReadMIMEHeader()
	require.NoError(t, err)
	assert.Equal(t, "[CRITICAL] Mesh Network: core-1 - high_cpu", msg.Get("Subject"))
	assert.Equal(t, "ops@mesh.local, noc@mesh.local", msg.Get("To"))

	for _, want := range []string{
		"Severity: CRITICAL",
		"Node: core-1",
		"Type: high_cpu",
		"Time: 2025-03-01T12:00:00Z",
		sample.Message,
		"View dashboard: " + dashboard,
	} {
		assert.Contains(t, sink.data, want)
	}
}

func TestEmailSender_RecipientRejected(t *testing.T) {
	sink := newSMTPSink(t, true)

	s, err := NewEmailSender(emailConfig(sink.port()), dashboard, 2*time.Second)
	require.NoError(t, err)

	err = s.Send(context.Background(), sample)
	require.ErrorIs(t, err, errSMTP)
	assert.Contains(t, err.Error(), "550")
}

func TestEmailSender_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s, err := NewEmailSender(emailConfig(port), dashboard, time.Second)
	require.NoError(t, err)

	err = s.Send(context.Background(), sample)
	require.ErrorIs(t, err, errSMTP)
	assert.Contains(t, err.Error(), "dial 127.0.0.1:"+strconv.Itoa(port))
}

func TestNewEmailSender_Validation(t *testing.T) {
	_, err := NewEmailSender(config.EmailConfig{SMTPServer: "smtp"}, dashboard, time.Second)
	require.ErrorIs(t, err, ErrConfigurationError)
}
