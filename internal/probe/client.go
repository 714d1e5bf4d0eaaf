package probe

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// FallbackNameserver is used when no nameserver is configured and
// /etc/resolv.conf cannot be read.
const FallbackNameserver = "1.1.1.1:53"

// resolvConf is swapped in tests.
var resolvConf = "/etc/resolv.conf"

// DNSClient queries a single recursive nameserver directly over UDP,
// repeating the question over TCP when the UDP answer is truncated.
type DNSClient struct {
	udp    *dns.Client
	tcp    *dns.Client
	server string
}

// NewDNSClient creates a backend for server ("host" or "host:port").
// An empty server falls back to DefaultNameserver.
func NewDNSClient(server string, timeout time.Duration) *DNSClient {
	if server == "" {
		server = DefaultNameserver()
	}
	return &DNSClient{
		udp:    &dns.Client{Net: "udp", Timeout: timeout},
		tcp:    &dns.Client{Net: "tcp", Timeout: timeout},
		server: WithPort(server),
	}
}

// Server returns the host:port queries are sent to.
func (c *DNSClient) Server() string { return c.server }

// Query implements Backend.
func (c *DNSClient) Query(ctx context.Context, domain string, qtype uint16) error {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), qtype)

	resp, _, err := c.udp.ExchangeContext(ctx, m, c.server)
	if err == nil && resp.Truncated {
		resp, _, err = c.tcp.ExchangeContext(ctx, m, c.server)
	}
	if err != nil {
		return err
	}
	return checkAnswer(resp, qtype)
}

// DefaultNameserver returns the first nameserver from /etc/resolv.conf, or
// FallbackNameserver when none can be read.
func DefaultNameserver() string {
	conf, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil || len(conf.Servers) == 0 {
		return FallbackNameserver
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}

// WithPort appends the DNS port to server when it has none.
func WithPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), "53")
}
