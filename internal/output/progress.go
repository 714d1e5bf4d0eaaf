package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Verdict is what Progress needs to know about one finished domain.
type Verdict struct {
	Domain    string
	Available bool
	Premium   bool
	Method    string
}

// Progress prints run progress to stderr-like writers. Colours are only used
// when the writer is a terminal. All methods are safe for concurrent use.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
	total int
	done  int

	taken     lipgloss.Style
	available lipgloss.Style
	premium   lipgloss.Style
	muted     lipgloss.Style
}

// NewProgress creates a Progress writing to w. A quiet Progress only prints
// the final "saved" line.
func NewProgress(w io.Writer, quiet bool) *Progress {
	p := &Progress{w: w, quiet: quiet}
	if IsTerminal(w) {
		r := lipgloss.NewRenderer(w)
		p.taken = r.NewStyle().Foreground(lipgloss.Color("241"))
		p.available = r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
		p.premium = r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
		p.muted = r.NewStyle().Foreground(lipgloss.Color("245"))
	}
	return p
}

// Start announces a run over n domains.
func (p *Progress) Start(n int, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = n
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "Checking %d domains. Outputting to %s...\n", n, path)
}

// Result prints one line per finished domain.
func (p *Progress) Result(v Verdict) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.quiet {
		return
	}

	label := p.taken.Render("taken")
	switch {
	case v.Available && v.Premium:
		label = p.premium.Render("available (likely premium)")
	case v.Available:
		label = p.available.Render("available")
	}
	counter := p.muted.Render(fmt.Sprintf("[%d/%d]", p.done, p.total))
	fmt.Fprintf(p.w, "  %s %s: %s %s\n", counter, StripANSI(v.Domain), label, p.muted.Render("via "+v.Method))
}

// Done reports where the results were saved.
func (p *Progress) Done(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "Success: Results saved to %s\n", path)
}

// Partial reports where the results of an interrupted run were saved.
func (p *Progress) Partial(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "Partial results saved to %s (%d of %d domains checked)\n", path, p.done, p.total)
}
