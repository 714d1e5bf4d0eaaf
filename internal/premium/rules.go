package premium

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed premium.yaml
var embeddedRules []byte

// Rules is the static configuration of the heuristic. Load it once at startup
// and hand it to New; the heuristic keeps its own copy.
type Rules struct {
	// UltraShortMax is the largest name length reported as ultra-short.
	UltraShortMax int `yaml:"ultra_short_max"`
	// ShortMax is the largest name length reported as short.
	ShortMax int `yaml:"short_max"`
	// AlphaBelow is the exclusive length bound for the pure-alphabetic rule.
	AlphaBelow int `yaml:"alpha_below"`
	// TLDNameBelow is the exclusive name length bound for the high-demand TLD rule.
	TLDNameBelow int `yaml:"tld_name_below"`

	Keywords       []string `yaml:"keywords"`
	HighDemandTLDs []string `yaml:"high_demand_tlds"`
}

// DefaultRules returns the embedded rule set.
func DefaultRules() Rules {
	r, err := parseRules(embeddedRules)
	if err != nil {
		panic(fmt.Sprintf("premium: embedded rules are invalid: %v", err))
	}
	return r
}

// LoadRules tries each path in order; the first file that exists is used.
// Falls back to the embedded premium.yaml when no override file is found.
func LoadRules(paths ...string) (Rules, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Rules{}, fmt.Errorf("reading rules file %q: %w", path, err)
		}
		r, err := parseRules(data)
		if err != nil {
			return Rules{}, fmt.Errorf("parsing rules file %q: %w", path, err)
		}
		return r, nil
	}
	return DefaultRules(), nil
}

func parseRules(data []byte) (Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, err
	}
	if r.UltraShortMax < 0 || r.ShortMax < 0 || r.AlphaBelow < 0 || r.TLDNameBelow < 0 {
		return Rules{}, fmt.Errorf("length thresholds must not be negative")
	}
	return r, nil
}
