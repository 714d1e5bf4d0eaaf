// Package premium scores available domain names for likely resale value.
// Assess is a pure function of its input and the rules fixed at construction.
package premium

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tbckr/namescout/internal/domain"
)

// Reasons reported by Assess, in evaluation order.
const (
	ReasonUltraShort    = "ultra-short"
	ReasonShort         = "short name"
	ReasonAlphabetic    = "pure alphabetic short-name"
	ReasonKeyword       = "contains high-value keyword"
	ReasonHighDemandTLD = "high-demand TLD with short name"
)

// Assessment is the heuristic verdict for one domain.
type Assessment struct {
	IsLikelyPremium bool     `json:"is_likely_premium"`
	Reasons         []string `json:"reasons"`
}

// Heuristic evaluates Rules against domain names.
type Heuristic struct {
	ultraShortMax int
	shortMax      int
	alphaBelow    int
	tldNameBelow  int
	keywords      []string
	tlds          map[string]struct{}
}

// New builds a Heuristic from rules. Keywords and TLDs are lowercased and
// copied, so later changes to rules have no effect.
func New(rules Rules) *Heuristic {
	h := &Heuristic{
		ultraShortMax: rules.UltraShortMax,
		shortMax:      rules.ShortMax,
		alphaBelow:    rules.AlphaBelow,
		tldNameBelow:  rules.TLDNameBelow,
		tlds:          make(map[string]struct{}, len(rules.HighDemandTLDs)),
	}
	for _, k := range rules.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			h.keywords = append(h.keywords, k)
		}
	}
	for _, t := range rules.HighDemandTLDs {
		t = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(t)), ".")
		if t != "" {
			h.tlds[t] = struct{}{}
		}
	}
	return h
}

// Assess computes the premium reasons for name (e.g. "go.ai").
// Every rule is evaluated; all matching reasons are returned in rule order.
func (h *Heuristic) Assess(name string) Assessment {
	d := domain.Parse(name)
	n := utf8.RuneCountInString(d.Name)

	reasons := []string{}
	switch {
	case n <= h.ultraShortMax:
		reasons = append(reasons, ReasonUltraShort)
	case n <= h.shortMax:
		reasons = append(reasons, ReasonShort)
	}
	if n > 0 && n < h.alphaBelow && isAlpha(d.Name) {
		reasons = append(reasons, ReasonAlphabetic)
	}
	if h.hasKeyword(d.Name) {
		reasons = append(reasons, ReasonKeyword)
	}
	if _, ok := h.tlds[d.TLD]; ok && n < h.tldNameBelow {
		reasons = append(reasons, ReasonHighDemandTLD)
	}

	return Assessment{IsLikelyPremium: len(reasons) > 0, Reasons: reasons}
}

func (h *Heuristic) hasKeyword(name string) bool {
	for _, k := range h.keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
