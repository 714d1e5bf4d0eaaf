// Package report holds the per-domain lookup results of a run and renders
// them as a JSON file or a console summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tbckr/namescout/internal/output"
	"github.com/tbckr/namescout/internal/premium"
)

// Status is the availability verdict for one domain.
type Status string

const (
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
)

// Method names the pipeline stage that produced the verdict.
type Method string

const (
	MethodDNS   Method = "dns_resolution"
	MethodWhois Method = "whois_query"
)

// Details describes how a verdict was reached.
type Details struct {
	Method    Method `json:"method"`
	Registrar string `json:"registrar,omitempty"`
	Created   string `json:"created,omitempty"`
}

// LookupResult is the outcome for a single input domain.
// Premium is set only when Status is StatusAvailable.
type LookupResult struct {
	Domain    string              `json:"domain"`
	CheckedAt time.Time           `json:"checked_at"`
	Status    Status              `json:"status"`
	Details   Details             `json:"details"`
	Premium   *premium.Assessment `json:"premium_prediction,omitempty"`
}

// LikelyPremium reports whether the result is available and flagged premium.
func (r LookupResult) LikelyPremium() bool {
	return r.Premium != nil && r.Premium.IsLikelyPremium
}

// Report is the ordered list of results, one per non-blank input line.
type Report []LookupResult

// Counts summarises a report.
type Counts struct {
	Total     int `json:"total"`
	Taken     int `json:"taken"`
	Available int `json:"available"`
	Premium   int `json:"premium"`
}

func (c Counts) String() string {
	return fmt.Sprintf("%d checked: %d taken, %d available (%d likely premium)",
		c.Total, c.Taken, c.Available, c.Premium)
}

// Counts tallies the verdicts in r.
func (r Report) Counts() Counts {
	c := Counts{Total: len(r)}
	for _, res := range r {
		switch res.Status {
		case StatusTaken:
			c.Taken++
		case StatusAvailable:
			c.Available++
			if res.LikelyPremium() {
				c.Premium++
			}
		}
	}
	return c
}

// WriteTable renders the report as a table followed by the counts line.
func (r Report) WriteTable(w io.Writer) error {
	rows := make([][]string, 0, len(r))
	for _, res := range r {
		rows = append(rows, []string{
			res.Domain,
			string(res.Status),
			string(res.Details.Method),
			premiumCell(res),
			noteCell(res),
		})
	}
	table := output.NewWrappingTable(w, 20, 50)
	table.Header([]string{"Domain", "Status", "Method", "Premium", "Notes"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, r.Counts())
	return err
}

// WritePlain writes one tab-separated line per result:
// domain, status, method, and "premium" for likely premium names.
func (r Report) WritePlain(w io.Writer) error {
	for _, res := range r {
		fields := []string{res.Domain, string(res.Status), string(res.Details.Method)}
		if res.LikelyPremium() {
			fields = append(fields, "premium")
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func premiumCell(res LookupResult) string {
	switch {
	case res.Premium == nil:
		return "-"
	case res.Premium.IsLikelyPremium:
		return "yes"
	default:
		return "no"
	}
}

func noteCell(res LookupResult) string {
	if res.Premium != nil {
		return strings.Join(res.Premium.Reasons, "; ")
	}
	var parts []string
	if res.Details.Registrar != "" {
		parts = append(parts, res.Details.Registrar)
	}
	if res.Details.Created != "" {
		parts = append(parts, "created "+res.Details.Created)
	}
	return strings.Join(parts, ", ")
}
