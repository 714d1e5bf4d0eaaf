package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tbckr/namescout/internal/appdir"
	"github.com/tbckr/namescout/internal/checker"
	"github.com/tbckr/namescout/internal/config"
	"github.com/tbckr/namescout/internal/doh"
	"github.com/tbckr/namescout/internal/httpclient"
	"github.com/tbckr/namescout/internal/premium"
	"github.com/tbckr/namescout/internal/probe"
	"github.com/tbckr/namescout/internal/ratelimit"
	"github.com/tbckr/namescout/internal/registry"
	"github.com/tbckr/namescout/internal/report"
	"github.com/tbckr/namescout/internal/resolver"
)

// rulesFileName is looked up in the config dir when --rules is not given.
const rulesFileName = "premium.yaml"

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
	runID  string
}

// buildDeps resolves config and the logger. Every invocation gets its own run id.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).With("run_id", runID)

	return &deps{cfg: cfg, logger: logger, runID: runID}, nil
}

// newBackend builds the DNS probe backend selected by --resolver.
func (d *deps) newBackend() (probe.Backend, error) {
	switch d.cfg.Resolver {
	case config.ResolverDoH:
		client, err := httpclient.New(d.cfg.Proxy, d.cfg.UserAgent, d.logger, d.cfg.Verbose)
		if err != nil {
			return nil, fmt.Errorf("creating HTTP client: %w", err)
		}
		client.SetTimeout(d.cfg.DNSTimeout)
		httpclient.AttachLimiter(client, ratelimit.New(doh.DefaultRPS, doh.DefaultBurst))
		return probe.NewDoH(client, d.cfg.DoHURL), nil
	case config.ResolverSystem:
		r, err := resolver.NewResolver(d.cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("creating resolver: %w", err)
		}
		return probe.NewSystem(r), nil
	default:
		var server string
		if d.cfg.Nameserver != "" {
			server = probe.WithPort(d.cfg.Nameserver)
		}
		c := probe.NewDNSClient(server, d.cfg.DNSTimeout)
		d.logger.Debug("using nameserver", "server", c.Server())
		return c, nil
	}
}

func (d *deps) newProbe() (*probe.Probe, error) {
	backend, err := d.newBackend()
	if err != nil {
		return nil, err
	}
	return probe.New(backend, d.cfg.DNSTimeout), nil
}

func (d *deps) newRegistry() (*registry.Registry, error) {
	client, err := registry.NewClient(d.cfg.WhoisTimeout, d.cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("creating whois client: %w", err)
	}
	return registry.New(client, d.cfg.WhoisTimeout, d.logger), nil
}

// newHeuristic loads premium rules from --rules, which must exist, or from
// premium.yaml in the config dir, falling back to the built-in rules.
func (d *deps) newHeuristic() (*premium.Heuristic, error) {
	var paths []string
	if d.cfg.Rules != "" {
		if _, err := os.Stat(d.cfg.Rules); err != nil {
			return nil, fmt.Errorf("rules file: %w", err)
		}
		paths = append(paths, d.cfg.Rules)
	} else if p, err := appdir.File(rulesFileName); err == nil {
		paths = append(paths, p)
	}
	rules, err := premium.LoadRules(paths...)
	if err != nil {
		return nil, err
	}
	return premium.New(rules), nil
}

// newPacer sleeps before every WHOIS query when running sequentially and
// shares one token bucket per TLD between workers otherwise.
func (d *deps) newPacer() checker.Pacer {
	if d.cfg.Concurrency <= 1 {
		return ratelimit.Sleeper{Delay: d.cfg.DelayDuration()}
	}
	return ratelimit.NewKeyed(d.cfg.DelayDuration(), 1)
}

func (d *deps) newChecker(onResult func(report.LookupResult)) (*checker.Checker, error) {
	p, err := d.newProbe()
	if err != nil {
		return nil, err
	}
	reg, err := d.newRegistry()
	if err != nil {
		return nil, err
	}
	h, err := d.newHeuristic()
	if err != nil {
		return nil, err
	}
	return checker.New(p, reg, h, d.newPacer(), d.logger, checker.Options{
		Concurrency: d.cfg.Concurrency,
		OnResult:    onResult,
	}), nil
}
