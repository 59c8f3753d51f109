package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig describes how to reach monitored nodes.
type SSHConfig struct {
	User       string
	KeyFile    string
	Port       int
	KnownHosts string
}

// SSHExecutor runs commands over SSH with key-based auth. One client
// connection is kept per host and reused across cycles; a connection that
// fails is dropped and redialed on the next call.
type SSHExecutor struct {
	config *ssh.ClientConfig
	port   string

	mu      sync.Mutex
	clients map[string]*ssh.Client
}

var _ Executor = (*SSHExecutor)(nil)

func NewSSHExecutor(cfg SSHConfig) (*SSHExecutor, error) {
	key, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyLoad, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrKeyLoad, cfg.KeyFile, err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // nodes are on a closed mesh unless known_hosts is set

	if cfg.KnownHosts != "" {
		hostKeyCallback, err = knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("%w: known_hosts: %w", ErrKeyLoad, err)
		}
	}

	return &SSHExecutor{
		config: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: hostKeyCallback,
		},
		port:    strconv.Itoa(cfg.Port),
		clients: make(map[string]*ssh.Client),
	}, nil
}

type runResult struct {
	out string
	err error
}

// Run executes command on host, bounded by timeout. Opening the session is
// inside the bound too: a node whose sshd stops servicing channels must not
// stall the caller. A timed out client is dropped and redialed next time.
func (e *SSHExecutor) Run(ctx context.Context, host, command string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := e.client(ctx, host)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: connecting to %s: %w", ErrTimeout, host, err)
		}

		return "", err
	}

	done := make(chan runResult, 1)

	go func() {
		session, err := client.NewSession()
		if err != nil {
			done <- runResult{err: fmt.Errorf("%w: %s: %w", ErrSession, host, err)}
			return
		}
		defer session.Close()

		var stdout bytes.Buffer

		session.Stdout = &stdout

		err = session.Run(command)
		done <- runResult{out: stdout.String(), err: err}
	}()

	var res runResult

	select {
	case <-ctx.Done():
		// closing the connection unblocks the goroutine above
		e.drop(host, client)

		return "", fmt.Errorf("%w: %q on %s after %s", ErrTimeout, command, host, timeout)
	case res = <-done:
	}

	if res.err == nil {
		return res.out, nil
	}

	var exitErr *ssh.ExitError
	if errors.As(res.err, &exitErr) {
		return res.out, fmt.Errorf("%w: %q on %s: status %d", ErrNonZeroExit, command, host, exitErr.ExitStatus())
	}

	e.drop(host, client)

	if errors.Is(res.err, ErrSession) {
		return "", res.err
	}

	return "", fmt.Errorf("%w: %q on %s: %w", ErrCommandFailed, command, host, res.err)
}

// Close tears down every cached connection.
func (e *SSHExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error

	for host, c := range e.clients {
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}

		delete(e.clients, host)
	}

	return errors.Join(errs...)
}

func (e *SSHExecutor) client(ctx context.Context, host string) (*ssh.Client, error) {
	e.mu.Lock()
	c, ok := e.clients[host]
	e.mu.Unlock()

	if ok {
		return c, nil
	}

	c, err := e.dial(ctx, host)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.clients[host]; ok {
		_ = c.Close()
		return existing, nil
	}

	e.clients[host] = c

	return c, nil
}

func (e *SSHExecutor) dial(ctx context.Context, host string) (*ssh.Client, error) {
	addr := net.JoinHostPort(host, e.port)

	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, addr, err)
	}

	// the handshake is not context aware
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, e.config)
	if err != nil {
		_ = conn.Close()

		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, fmt.Errorf("%w: %s: %w", ErrAuth, addr, err)
		}

		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, addr, err)
	}

	_ = conn.SetDeadline(time.Time{})

	return ssh.NewClient(sshConn, chans, reqs), nil
}

func (e *SSHExecutor) drop(host string, c *ssh.Client) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.clients[host] == c {
		delete(e.clients, host)
	}

	_ = c.Close()
}
