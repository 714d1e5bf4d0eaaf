// Package domain splits candidate domain names into the labels the rest of
// namescout reasons about.
package domain

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// hostnameRegexp matches RFC-style hostnames with an alphabetic TLD.
var hostnameRegexp = regexp.MustCompile(`^([a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$|^([a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?\.)+xn--[a-z0-9\-]{1,59}$`)

// Domain is a single candidate taken from one input line.
type Domain struct {
	// Raw is the input line with surrounding whitespace removed.
	Raw string
	// Name is the label immediately before the TLD, lowercased.
	Name string
	// TLD is the suffix after the last dot, lowercased. Empty for dotless input.
	TLD string
	// ASCII is the lowercased IDNA form handed to resolvers.
	ASCII string
}

// Parse splits raw into its name and TLD. It never fails: input that is not a
// hostname is passed through so the resolvers can reject it themselves.
func Parse(raw string) Domain {
	raw = strings.TrimSpace(raw)
	lower := strings.TrimSuffix(strings.ToLower(raw), ".")

	d := Domain{Raw: raw, ASCII: toASCII(lower)}

	i := strings.LastIndexByte(lower, '.')
	if i < 0 {
		d.Name = lower
		return d
	}
	d.TLD = lower[i+1:]
	rest := lower[:i]
	if j := strings.LastIndexByte(rest, '.'); j >= 0 {
		rest = rest[j+1:]
	}
	d.Name = rest
	return d
}

// LooksValid reports whether the ASCII form is a syntactically plausible hostname.
// Lookups run regardless; this only feeds diagnostics.
func (d Domain) LooksValid() bool {
	return len(d.ASCII) <= 253 && hostnameRegexp.MatchString(d.ASCII)
}

func toASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii, err := idna.Lookup.ToASCII(s)
			if err != nil {
				return s
			}
			return strings.ToLower(ascii)
		}
	}
	return s
}
