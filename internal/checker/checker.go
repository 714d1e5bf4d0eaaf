// Package checker drives the per-domain availability pipeline: a DNS probe,
// then a paced WHOIS lookup, then the premium heuristic for available names.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tbckr/namescout/internal/domain"
	"github.com/tbckr/namescout/internal/premium"
	"github.com/tbckr/namescout/internal/registry"
	"github.com/tbckr/namescout/internal/report"
	"github.com/tbckr/namescout/internal/worker"
)

// Prober reports whether a domain answers in DNS.
type Prober interface {
	IsActive(ctx context.Context, domain string) (bool, error)
}

// Registry looks up a domain's registration record.
type Registry interface {
	Lookup(ctx context.Context, domain string) (registry.Record, error)
}

// Assessor scores an available domain.
type Assessor interface {
	Assess(name string) premium.Assessment
}

// Pacer blocks until a WHOIS query for key may be issued.
type Pacer interface {
	Pace(ctx context.Context, key string) error
}

// Options tune a Checker. The zero value runs sequentially.
type Options struct {
	// Concurrency is the number of domains processed at once; values below 1 mean 1.
	Concurrency int
	// Now stamps results; defaults to time.Now.
	Now func() time.Time
	// OnResult, when set, is called once per finished domain. It may be
	// called from several goroutines at once when Concurrency > 1.
	OnResult func(report.LookupResult)
}

// Checker owns the collaborators of one run.
type Checker struct {
	prober   Prober
	registry Registry
	assessor Assessor
	pacer    Pacer
	logger   *slog.Logger
	opts     Options
}

// New creates a Checker.
func New(prober Prober, reg Registry, assessor Assessor, pacer Pacer, logger *slog.Logger, opts Options) *Checker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Checker{
		prober:   prober,
		registry: reg,
		assessor: assessor,
		pacer:    pacer,
		logger:   logger,
		opts:     opts,
	}
}

// Run checks every non-blank entry of domains and returns the results in
// input order. Cancellation is honoured between domains only: when ctx is
// done, domains already started are finished and the rest are left out.
// The partial report is returned together with an error wrapping ctx.Err().
func (c *Checker) Run(ctx context.Context, domains []string) (report.Report, error) {
	inputs := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = strings.TrimSpace(d); d != "" {
			inputs = append(inputs, d)
		}
	}

	results := worker.Run(ctx, inputs, c.opts.Concurrency, func(ctx context.Context, raw string) (report.LookupResult, error) {
		res := c.Check(context.WithoutCancel(ctx), raw)
		if c.opts.OnResult != nil {
			c.opts.OnResult(res)
		}
		return res, nil
	})

	rep := make(report.Report, 0, len(results))
	skipped := 0
	for _, r := range results {
		if r.Skipped {
			skipped++
			continue
		}
		rep = append(rep, r.Output)
	}
	if skipped > 0 {
		return rep, fmt.Errorf("interrupted after %d of %d domains: %w", len(rep), len(inputs), ctx.Err())
	}
	return rep, nil
}

// Check runs the pipeline for a single domain. It always produces a result;
// lookup failures are logged at debug level and count as "not found".
func (c *Checker) Check(ctx context.Context, raw string) report.LookupResult {
	d := domain.Parse(raw)
	if !d.LooksValid() {
		c.logger.Debug("input does not look like a hostname, checking anyway", "domain", d.Raw)
	}

	active, err := c.prober.IsActive(ctx, d.ASCII)
	if err != nil {
		c.logger.Debug("dns probe failed", "domain", d.ASCII, "type", "dns", "error", err)
	}
	if active {
		return c.result(d, report.StatusTaken, report.Details{Method: report.MethodDNS}, nil)
	}

	if err := c.pacer.Pace(ctx, d.TLD); err != nil {
		c.logger.Debug("pacing interrupted", "domain", d.ASCII, "error", err)
	}

	rec, err := c.registry.Lookup(ctx, d.ASCII)
	if err != nil {
		c.logger.Debug("whois lookup failed", "domain", d.ASCII, "type", "whois", "error", err)
		rec = registry.Record{}
	}
	if rec.Registered {
		return c.result(d, report.StatusTaken, report.Details{
			Method:    report.MethodWhois,
			Registrar: rec.Registrar,
			Created:   rec.Created,
		}, nil)
	}

	assessment := c.assessor.Assess(d.Raw)
	return c.result(d, report.StatusAvailable, report.Details{Method: report.MethodWhois}, &assessment)
}

func (c *Checker) result(d domain.Domain, status report.Status, details report.Details, assessment *premium.Assessment) report.LookupResult {
	return report.LookupResult{
		Domain:    d.Raw,
		CheckedAt: c.opts.Now().UTC(),
		Status:    status,
		Details:   details,
		Premium:   assessment,
	}
}
