package probe

import (
	"context"

	"github.com/imroc/req/v3"

	"github.com/tbckr/namescout/internal/doh"
)

// DoH sends questions to a DNS-over-HTTPS endpoint.
type DoH struct {
	client   *req.Client
	endpoint string
}

// NewDoH creates a backend for endpoint. An empty endpoint uses doh.DefaultURL.
func NewDoH(client *req.Client, endpoint string) *DoH {
	if endpoint == "" {
		endpoint = doh.DefaultURL
	}
	return &DoH{client: client, endpoint: endpoint}
}

// Query implements Backend.
func (d *DoH) Query(ctx context.Context, domain string, qtype uint16) error {
	m, err := doh.Exchange(ctx, d.client, d.endpoint, domain, qtype)
	if err != nil {
		return err
	}
	return checkAnswer(m, qtype)
}
