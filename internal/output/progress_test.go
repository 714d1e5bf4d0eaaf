package output_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbckr/namescout/internal/output"
)

func TestProgress_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewProgress(&buf, false)

	p.Start(3, "out.json")
	p.Result(output.Verdict{Domain: "google.com", Method: "dns_resolution"})
	p.Result(output.Verdict{Domain: "go.ai", Available: true, Premium: true, Method: "whois_query"})
	p.Result(output.Verdict{Domain: "long-boring-name.net", Available: true, Method: "whois_query"})
	p.Done("out.json")

	assert.Equal(t,
		"Checking 3 domains. Outputting to out.json...\n"+
			"  [1/3] google.com: taken via dns_resolution\n"+
			"  [2/3] go.ai: available (likely premium) via whois_query\n"+
			"  [3/3] long-boring-name.net: available via whois_query\n"+
			"Success: Results saved to out.json\n",
		buf.String())
}

func TestProgress_Quiet(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewProgress(&buf, true)
	p.Start(1, "out.json")
	p.Result(output.Verdict{Domain: "google.com", Method: "dns_resolution"})
	p.Done("out.json")
	assert.Equal(t, "Success: Results saved to out.json\n", buf.String())
}

func TestProgress_Partial(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewProgress(&buf, true)
	p.Start(3, "out.json")
	p.Result(output.Verdict{Domain: "google.com", Method: "dns_resolution"})
	p.Partial("out.json")
	assert.Equal(t, "Partial results saved to out.json (1 of 3 domains checked)\n", buf.String())
}

func TestProgress_StripsEscapes(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewProgress(&buf, false)
	p.Start(1, "x")
	p.Result(output.Verdict{Domain: "\x1b[31mevil\x1b[0m.com", Method: "dns_resolution"})
	assert.Contains(t, buf.String(), " evil.com: ")
}

func TestProgress_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewProgress(&buf, false)
	p.Start(50, "x")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Result(output.Verdict{Domain: "a.com", Method: "dns_resolution"})
		}()
	}
	wg.Wait()
	assert.Contains(t, buf.String(), "[50/50]")
}
