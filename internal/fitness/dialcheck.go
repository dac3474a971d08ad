package fitness

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// DialCheck treats the host as online when a TCP connection to the provider
// host can be opened within the timeout.
type DialCheck struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer
}

func NewDialCheck(baseURL string, timeout time.Duration) (*DialCheck, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("fitness: check url: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("fitness: check url %q has no host", baseURL)
	}
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	return &DialCheck{addr: net.JoinHostPort(u.Hostname(), port), timeout: timeout}, nil
}

func (d *DialCheck) Online(ctx context.Context) bool {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	conn, err := d.dialer.DialContext(ctx, "tcp", d.addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

var _ ConnectivityProbe = (*DialCheck)(nil)
