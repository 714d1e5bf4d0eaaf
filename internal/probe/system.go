package probe

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// SystemResolver abstracts net.Resolver for the system backend.
// *net.Resolver satisfies this interface directly.
type SystemResolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// System asks the platform resolver (or a proxied Go resolver).
type System struct {
	resolver SystemResolver
}

// NewSystem creates a backend around resolver.
func NewSystem(resolver SystemResolver) *System {
	return &System{resolver: resolver}
}

// Query implements Backend. Only A and MX questions are supported.
func (s *System) Query(ctx context.Context, domain string, qtype uint16) error {
	var n int
	var err error
	switch qtype {
	case dns.TypeA:
		var ips []net.IP
		ips, err = s.resolver.LookupIP(ctx, "ip4", domain)
		n = len(ips)
	case dns.TypeMX:
		var mxs []*net.MX
		mxs, err = s.resolver.LookupMX(ctx, domain)
		n = len(mxs)
	default:
		return fmt.Errorf("system resolver: unsupported query type %s", dns.TypeToString[qtype])
	}
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return fmt.Errorf("%w: %w", ErrNXDomain, err)
		}
		return err
	}
	if n == 0 {
		return ErrNoAnswer
	}
	return nil
}
