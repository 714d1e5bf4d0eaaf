// Package config resolves namescout settings from flags, NAMESCOUT_* environment
// variables, the YAML config file, and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tbckr/namescout/internal/apperr"
	"github.com/tbckr/namescout/internal/appdir"
	"github.com/tbckr/namescout/internal/doh"
	"github.com/tbckr/namescout/internal/output"
	"github.com/tbckr/namescout/internal/probe"
	"github.com/tbckr/namescout/internal/registry"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "NAMESCOUT"

// Resolver backends accepted by --resolver.
const (
	ResolverDNS    = "dns"
	ResolverDoH    = "doh"
	ResolverSystem = "system"
)

// Resolvers lists the accepted --resolver values.
var Resolvers = []string{ResolverDNS, ResolverDoH, ResolverSystem}

// Defaults.
const (
	DefaultDelay       = 1.5
	DefaultConcurrency = 1
	DefaultFormat      = string(output.FormatTable)
)

// ErrUnknownKey is returned for config keys namescout does not know about.
var ErrUnknownKey = errors.New("unknown config key")

// Config is the fully resolved configuration of one invocation.
type Config struct {
	ConfigFile string `yaml:"-" mapstructure:"-"`

	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Quiet   bool   `yaml:"quiet" mapstructure:"quiet"`
	Format  string `yaml:"format" mapstructure:"format"`

	// Delay is the pause before each WHOIS query, in seconds.
	Delay       float64 `yaml:"delay" mapstructure:"delay"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`

	Resolver     string        `yaml:"resolver" mapstructure:"resolver"`
	Nameserver   string        `yaml:"nameserver" mapstructure:"nameserver"`
	DoHURL       string        `yaml:"doh_url" mapstructure:"doh_url"`
	DNSTimeout   time.Duration `yaml:"dns_timeout" mapstructure:"dns_timeout"`
	WhoisTimeout time.Duration `yaml:"whois_timeout" mapstructure:"whois_timeout"`

	Proxy     string `yaml:"proxy" mapstructure:"proxy"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	Rules     string `yaml:"rules" mapstructure:"rules"`
}

// DelayDuration returns Delay as a time.Duration.
func (c *Config) DelayDuration() time.Duration {
	return time.Duration(c.Delay * float64(time.Second))
}

// RegisterFlags adds every config flag to fs. The same set is later handed to Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default is $XDG_CONFIG_HOME/namescout/config.yaml)")
	fs.BoolP("verbose", "v", false, "enable debug logging")
	fs.BoolP("quiet", "q", false, "suppress per-domain progress lines")
	fs.StringP("format", "f", DefaultFormat, "summary format: table, plain, json")
	fs.Float64("delay", DefaultDelay, "seconds to wait before each WHOIS query")
	fs.IntP("concurrency", "c", DefaultConcurrency, "number of domains checked in parallel")
	fs.String("resolver", ResolverDNS, "DNS probe backend: dns, doh, system")
	fs.String("nameserver", "", "nameserver host[:port] for the dns backend (default from /etc/resolv.conf)")
	fs.String("doh-url", doh.DefaultURL, "endpoint for the doh backend")
	fs.Duration("dns-timeout", probe.DefaultTimeout, "timeout per DNS query")
	fs.Duration("whois-timeout", registry.DefaultTimeout, "timeout per WHOIS query")
	fs.String("proxy", "", "proxy URL (http, https, socks5); WHOIS and the system resolver need socks5")
	fs.String("user-agent", "", "User-Agent for DNS-over-HTTPS requests")
	fs.String("rules", "", "premium heuristic rules file (YAML)")
}

// DefaultConfigPath returns the OS-appropriate default config file path.
func DefaultConfigPath() (string, error) {
	return appdir.File("config.yaml")
}

// Load resolves the configuration for flags. The config file named by
// --config (or the default path) is created empty when missing.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfgFile, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if cfgFile == "" {
		if cfgFile, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	if err := appdir.EnsureFile(cfgFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(Key(f.Name), f)
	})
	if bindErr != nil {
		return nil, fmt.Errorf("binding flags: %w", bindErr)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigFile = cfgFile
	return &cfg, nil
}

// Validate range-checks cfg.
func (c *Config) Validate() error {
	var errs []error
	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must not be negative, got %v", c.Delay))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.DNSTimeout <= 0 {
		errs = append(errs, fmt.Errorf("dns_timeout must be positive, got %s", c.DNSTimeout))
	}
	if c.WhoisTimeout <= 0 {
		errs = append(errs, fmt.Errorf("whois_timeout must be positive, got %s", c.WhoisTimeout))
	}
	if !slices.Contains(Resolvers, c.Resolver) {
		errs = append(errs, fmt.Errorf("resolver must be one of %s, got %q", strings.Join(Resolvers, ", "), c.Resolver))
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// Key converts a flag name into its config key ("doh-url" becomes "doh_url").
func Key(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindInt
	kindFloat
	kindDuration
)

var keys = map[string]keyKind{
	"verbose":       kindBool,
	"quiet":         kindBool,
	"format":        kindString,
	"delay":         kindFloat,
	"concurrency":   kindInt,
	"resolver":      kindString,
	"nameserver":    kindString,
	"doh_url":       kindString,
	"dns_timeout":   kindDuration,
	"whois_timeout": kindDuration,
	"proxy":         kindString,
	"user_agent":    kindString,
	"rules":         kindString,
}

// ValidKeys returns every settable key, sorted.
func ValidKeys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ValidateKey checks that key (hyphens allowed) is a known config key.
func ValidateKey(key string) error {
	if _, ok := keys[Key(key)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// ParseValue converts the string value into the type stored for key and
// applies the same range checks as Validate. Durations are kept as strings
// so they stay readable in the YAML file.
func ParseValue(key, value string) (any, error) {
	key = Key(key)
	kind, ok := keys[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", key, value)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s: must be a positive integer, got %q", key, value)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%s: must be a non-negative number, got %q", key, value)
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%s: must be a positive duration such as 2s, got %q", key, value)
		}
		return d.String(), nil
	}

	switch key {
	case "format":
		if _, err := output.ParseFormat(value); err != nil {
			return nil, err
		}
	case "resolver":
		if !slices.Contains(Resolvers, value) {
			return nil, fmt.Errorf("resolver must be one of %s, got %q", strings.Join(Resolvers, ", "), value)
		}
	}
	return value, nil
}

// KeyCompletions returns value suggestions for key.
func KeyCompletions(key string) []string {
	switch Key(key) {
	case "format":
		return formatNames()
	case "resolver":
		return Resolvers
	case "verbose", "quiet":
		return []string{"true", "false"}
	default:
		return nil
	}
}

func formatNames() []string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return names
}

