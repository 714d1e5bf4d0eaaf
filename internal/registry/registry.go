// Package registry looks up domain registration records over WHOIS.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/net/proxy"
	"golang.org/x/sync/singleflight"

	"github.com/tbckr/namescout/internal/apperr"
	"github.com/tbckr/namescout/internal/output"
	"github.com/tbckr/namescout/internal/resolver"
)

// DefaultTimeout bounds one WHOIS exchange for a domain, the registrar
// referral included. The per-TLD server discovery gets its own budget.
const DefaultTimeout = 10 * time.Second

// WhoisClient is the raw WHOIS transport. *whois.Client satisfies it.
type WhoisClient interface {
	Whois(domain string, servers ...string) (string, error)
}

var _ WhoisClient = (*whois.Client)(nil)

// Record is the registration-relevant subset of a WHOIS answer.
type Record struct {
	Registered bool
	Registrar  string
	Created    string
}

// RegistryError is returned when a WHOIS answer could not be obtained or
// understood. Callers treat it as "not registered".
type RegistryError struct {
	Domain string
	Err    error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("whois %s: %v", e.Domain, e.Err)
}

func (e *RegistryError) Unwrap() error { return e.Err }

// NewClient builds a WHOIS client with the given timeout. When proxyURL names
// a SOCKS5 proxy (directly or via ALL_PROXY) every connection is tunnelled
// through it; otherwise a plain dialer with the same connect timeout is used.
func NewClient(timeout time.Duration, proxyURL string) (*whois.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer, err := newDialer(timeout, proxyURL)
	if err != nil {
		return nil, err
	}
	return whois.NewClient().SetDialer(dialer).SetTimeout(timeout), nil
}

func newDialer(timeout time.Duration, proxyURL string) (proxy.Dialer, error) {
	dialer, err := resolver.SOCKS5Dialer(proxyURL, timeout)
	if err != nil {
		return nil, err
	}
	if dialer == nil {
		return &net.Dialer{Timeout: timeout}, nil
	}
	return dialer, nil
}

// Registry performs WHOIS lookups and interprets the answers.
//
// The WHOIS server of each TLD is asked from IANA once per Registry and
// remembered for its lifetime.
type Registry struct {
	client  WhoisClient
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	servers map[string]string
	group   singleflight.Group
}

// New creates a Registry backed by client. timeout caps every call into the
// client regardless of how many connections it makes; zero means
// DefaultTimeout.
func New(client WhoisClient, timeout time.Duration, logger *slog.Logger) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		client:  client,
		timeout: timeout,
		logger:  logger,
		servers: make(map[string]string),
	}
}

// Lookup issues the WHOIS query for domain against its TLD's server.
func (r *Registry) Lookup(ctx context.Context, domain string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, &RegistryError{Domain: domain, Err: err}
	}

	var servers []string
	if i := strings.LastIndexByte(domain, '.'); i >= 0 {
		server, err := r.serverFor(ctx, domain[i+1:])
		if err != nil {
			return Record{}, &RegistryError{Domain: domain, Err: err}
		}
		servers = append(servers, server)
	}

	raw, err := r.query(ctx, domain, servers...)
	if err != nil {
		return Record{}, &RegistryError{Domain: domain, Err: fmt.Errorf("%w: %w", apperr.ErrRequestFailed, err)}
	}

	info, err := whoisparser.Parse(raw)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) {
			r.logger.Debug("whois reports no record", "domain", domain)
			return Record{}, nil
		}
		return Record{}, &RegistryError{Domain: domain, Err: fmt.Errorf("parsing whois answer: %w", err)}
	}
	return recordFrom(info), nil
}

// serverFor returns the WHOIS server IANA lists for tld. Concurrent callers
// for the same TLD share one IANA query; failed queries are not remembered.
func (r *Registry) serverFor(ctx context.Context, tld string) (string, error) {
	tld = strings.ToLower(tld)
	r.mu.Lock()
	server, ok := r.servers[tld]
	r.mu.Unlock()

	if !ok {
		v, err, _ := r.group.Do(tld, func() (any, error) {
			// A name without a dot goes straight to IANA.
			raw, err := r.query(ctx, tld)
			if err != nil {
				return "", fmt.Errorf("%w: asking iana for .%s: %w", apperr.ErrRequestFailed, tld, err)
			}
			s := referral(raw)
			r.mu.Lock()
			r.servers[tld] = s
			r.mu.Unlock()
			r.logger.Debug("whois server discovered", "tld", tld, "server", s)
			return s, nil
		})
		if err != nil {
			return "", err
		}
		server = v.(string)
	}

	if server == "" {
		return "", fmt.Errorf("no whois server listed for .%s", tld)
	}
	return server, nil
}

// query runs one client call under the registry timeout. The client has no
// context support; an abandoned call ends at its own connection deadlines.
func (r *Registry) query(ctx context.Context, domain string, servers ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type answer struct {
		raw string
		err error
	}
	done := make(chan answer, 1)
	go func() {
		raw, err := r.client.Whois(domain, servers...)
		done <- answer{raw, err}
	}()

	select {
	case a := <-done:
		return a.raw, a.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// referral extracts the server from an IANA TLD record.
func referral(raw string) string {
	var whoisLine string
	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		value = strings.ToLower(strings.TrimSpace(value))
		switch strings.ToLower(key) {
		case "refer":
			if value != "" {
				return value
			}
		case "whois":
			if whoisLine == "" {
				whoisLine = value
			}
		}
	}
	return whoisLine
}

func recordFrom(info whoisparser.WhoisInfo) Record {
	var rec Record
	if info.Registrar != nil {
		name := info.Registrar.Name
		if strings.TrimSpace(name) == "" {
			name = info.Registrar.Organization
		}
		rec.Registrar = strings.TrimSpace(output.StripANSI(name))
	}
	if info.Domain != nil {
		rec.Created = normalizeCreated(info.Domain.CreatedDate)
	}
	rec.Registered = rec.Registrar != "" || rec.Created != ""
	return rec
}

var createdLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"02.01.2006",
}

// normalizeCreated keeps the first listed creation date and renders it in
// RFC 3339 when it is in a recognised layout. Unknown layouts are returned
// trimmed but otherwise untouched.
func normalizeCreated(s string) string {
	if i := strings.IndexAny(s, ",\n|"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return s
}
