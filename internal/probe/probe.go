// Package probe decides whether a domain is reachable in DNS. A domain is
// active when it has an A record or, failing that, an MX record. Reachability
// says nothing about ownership; it is only the fast first stage of a check.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// DefaultTimeout bounds each individual DNS query.
const DefaultTimeout = 2 * time.Second

var (
	// ErrNXDomain means the name does not exist.
	ErrNXDomain = errors.New("no such domain")
	// ErrNoAnswer means the name exists but has no record of the queried type.
	ErrNoAnswer = errors.New("no answer")
	// ErrServerFailure means the server answered with an rcode other than
	// NOERROR or NXDOMAIN.
	ErrServerFailure = errors.New("server failure")
)

// queryTypes are tried in order until one succeeds.
var queryTypes = []uint16{dns.TypeA, dns.TypeMX}

// Backend answers a single question. It returns nil iff the answer holds at
// least one record of qtype.
type Backend interface {
	Query(ctx context.Context, domain string, qtype uint16) error
}

// ResolverError records a failed query. Every kind of failure, from NXDOMAIN
// to a network timeout, is reported the same way and ends up meaning
// "not active".
type ResolverError struct {
	Domain string
	Type   uint16
	Err    error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("resolving %s %s: %v", dns.TypeToString[e.Type], e.Domain, e.Err)
}

func (e *ResolverError) Unwrap() error { return e.Err }

// Probe runs the A-then-MX check against a Backend.
type Probe struct {
	backend Backend
	timeout time.Duration
}

// New creates a Probe. A timeout of zero or less uses DefaultTimeout.
func New(backend Backend, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Probe{backend: backend, timeout: timeout}
}

// IsActive reports whether domain has an A or MX record. The MX query is only
// sent when the A query fails. On a negative result the returned error joins
// one *ResolverError per query; callers treat it as diagnostic only.
func (p *Probe) IsActive(ctx context.Context, domain string) (bool, error) {
	var errs []error
	for _, qtype := range queryTypes {
		qctx, cancel := context.WithTimeout(ctx, p.timeout)
		err := p.backend.Query(qctx, domain, qtype)
		cancel()
		if err == nil {
			return true, nil
		}
		errs = append(errs, &ResolverError{Domain: domain, Type: qtype, Err: err})
	}
	return false, errors.Join(errs...)
}

// checkAnswer maps a response message onto the Backend contract.
func checkAnswer(m *dns.Msg, qtype uint16) error {
	switch m.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return ErrNXDomain
	default:
		return fmt.Errorf("%w: %s", ErrServerFailure, dns.RcodeToString[m.Rcode])
	}
	for _, rr := range m.Answer {
		if rr.Header().Rrtype == qtype {
			return nil
		}
	}
	return ErrNoAnswer
}
