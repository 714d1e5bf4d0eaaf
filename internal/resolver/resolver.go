package resolver

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// socks5Proxy returns the host:port of a socks5 proxy taken from proxyURL,
// falling back to ALL_PROXY / all_proxy when proxyURL is empty.
// ok is false when no socks5 proxy applies.
func socks5Proxy(proxyURL string) (host string, ok bool) {
	if proxyURL == "" {
		proxyURL = os.Getenv("ALL_PROXY")
		if proxyURL == "" {
			proxyURL = os.Getenv("all_proxy")
		}
	}
	if !strings.HasPrefix(proxyURL, "socks5://") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(proxyURL, "socks5://"), "/"), true
}

// SOCKS5Dialer returns a dialer that connects through the socks5 proxy in
// proxyURL (or ALL_PROXY). It returns nil and no error when no socks5 proxy
// is configured, in which case callers dial directly.
func SOCKS5Dialer(proxyURL string, timeout time.Duration) (proxy.Dialer, error) {
	host, ok := socks5Proxy(proxyURL)
	if !ok {
		return nil, nil
	}
	dialer, err := proxy.SOCKS5("tcp", host, nil, &net.Dialer{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("creating SOCKS5 dialer: %w", err)
	}
	return dialer, nil
}

// NewResolver returns a *net.Resolver appropriate for the given proxy URL.
//
// When no socks5 proxy applies, the standard system resolver is returned
// (nil Dial field, so Go uses the platform resolver).
//
// When a socks5 proxy applies, DNS queries are tunnelled through it using
// DNS-over-TCP, preventing DNS leaks to the local network.
func NewResolver(proxyURL string) (*net.Resolver, error) {
	dialer, err := SOCKS5Dialer(proxyURL, 0)
	if err != nil {
		return nil, fmt.Errorf("creating SOCKS5 dialer for DNS: %w", err)
	}
	if dialer == nil {
		return &net.Resolver{}, nil
	}

	// proxy.SOCKS5 returns a ContextDialer; assert it to get DialContext.
	ctxDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer does not implement ContextDialer")
	}

	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, address string) (net.Conn, error) {
			return ctxDialer.DialContext(ctx, "tcp", address)
		},
	}, nil
}
