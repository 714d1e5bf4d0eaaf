package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbckr/namescout/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw   string
		name  string
		tld   string
		ascii string
	}{
		{"example.com", "example", "com", "example.com"},
		{"  Go.AI  ", "go", "ai", "go.ai"},
		{"sub.example.co.uk", "co", "uk", "sub.example.co.uk"},
		{"shop.example.io", "example", "io", "shop.example.io"},
		{"example.com.", "example", "com", "example.com"},
		{"localhost", "localhost", "", "localhost"},
		{"münchen.de", "münchen", "de", "xn--mnchen-3ya.de"},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			d := domain.Parse(tc.raw)
			assert.Equal(t, tc.name, d.Name)
			assert.Equal(t, tc.tld, d.TLD)
			assert.Equal(t, tc.ascii, d.ASCII)
		})
	}
}

func TestParse_KeepsRawTrimmed(t *testing.T) {
	d := domain.Parse("\tExample.COM \n")
	assert.Equal(t, "Example.COM", d.Raw)
}

func TestLooksValid(t *testing.T) {
	valid := []string{"example.com", "a-b.io", "münchen.de", "x.y.z.dev"}
	for _, v := range valid {
		assert.True(t, domain.Parse(v).LooksValid(), v)
	}
	invalid := []string{"localhost", "has space.com", "-bad.com", "under_score.com", "$(x).com"}
	for _, v := range invalid {
		assert.False(t, domain.Parse(v).LooksValid(), v)
	}
}
