// Package doh sends single DNS questions over HTTPS using the RFC 8484 wire format.
package doh

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
	"github.com/miekg/dns"

	"github.com/tbckr/namescout/internal/apperr"
)

const (
	// DefaultURL is the Quad9 DNS-over-HTTPS endpoint.
	DefaultURL = "https://dns.quad9.net/dns-query"

	// DefaultRPS is the target request rate against a DoH endpoint.
	DefaultRPS float64 = 5
	// DefaultBurst is the burst capacity above DefaultRPS.
	DefaultBurst = 10
)

// buildQuery encodes a recursive question for domain and qtype into wire format.
// The message ID is zero as RFC 8484 recommends for cache friendliness.
func buildQuery(domain string, qtype uint16) ([]byte, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), qtype)
	m.Id = 0
	return m.Pack()
}

// parseResponse decodes a DNS wire-format response.
func parseResponse(data []byte) (*dns.Msg, error) {
	m := new(dns.Msg)
	if err := m.Unpack(data); err != nil {
		return nil, fmt.Errorf("failed to parse DNS response: %w", err)
	}
	return m, nil
}

// Exchange performs a DNS-over-HTTPS GET query against endpoint.
// The query is encoded as base64url and sent as the "dns" query parameter.
func Exchange(ctx context.Context, client *req.Client, endpoint, domain string, qtype uint16) (*dns.Msg, error) {
	query, err := buildQuery(domain, qtype)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build DNS query for %q type %s: %w", apperr.ErrRequestFailed, domain, dns.TypeToString[qtype], err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(query)

	httpResp, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/dns-message").
		SetQueryParam("dns", encoded).
		Get(endpoint)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: doh request error for %q type %s: %w", apperr.ErrRequestFailed, domain, dns.TypeToString[qtype], err)
	}
	if !httpResp.IsSuccessState() {
		body := httpResp.String()
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		return nil, fmt.Errorf("%w: doh endpoint returned HTTP %d for %q type %s: %q", apperr.ErrRequestFailed, httpResp.StatusCode, domain, dns.TypeToString[qtype], body)
	}
	return parseResponse(httpResp.Bytes())
}
