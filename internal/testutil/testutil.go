// Package testutil provides shared test helpers for probe, registry and checker tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/tbckr/namescout/internal/probe"
)

// MockResolver implements probe.SystemResolver for testing.
// Each field is a function so tests can set only the methods they need.
type MockResolver struct {
	LookupIPFn func(ctx context.Context, network, host string) ([]net.IP, error)
	LookupMXFn func(ctx context.Context, name string) ([]*net.MX, error)
}

var _ probe.SystemResolver = (*MockResolver)(nil)

// LookupIP implements SystemResolver.
func (m *MockResolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	if m.LookupIPFn != nil {
		return m.LookupIPFn(ctx, network, host)
	}
	return nil, nil
}

// LookupMX implements SystemResolver.
func (m *MockResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	if m.LookupMXFn != nil {
		return m.LookupMXFn(ctx, name)
	}
	return nil, nil
}

// MockWhois implements registry.WhoisClient for testing.
type MockWhois struct {
	WhoisFn func(domain string, servers ...string) (string, error)
}

// Whois implements WhoisClient.
func (m *MockWhois) Whois(domain string, servers ...string) (string, error) {
	if m.WhoisFn != nil {
		return m.WhoisFn(domain, servers...)
	}
	return "", nil
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
