package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbckr/namescout/internal/output"
	"github.com/tbckr/namescout/internal/premium"
)

// assessment pairs a name with its premium verdict for display.
type assessment struct {
	Domain string `json:"domain"`
	premium.Assessment
}

type assessments []assessment

func (a assessments) WriteTable(w io.Writer) error {
	rows := make([][]string, 0, len(a))
	for _, r := range a {
		verdict := "no"
		if r.IsLikelyPremium {
			verdict = "yes"
		}
		rows = append(rows, []string{r.Domain, verdict, strings.Join(r.Reasons, "; ")})
	}
	table := output.NewWrappingTable(w, 20, 30)
	table.Header([]string{"Domain", "Premium", "Reasons"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func (a assessments) WritePlain(w io.Writer) error {
	for _, r := range a {
		line := r.Domain
		if len(r.Reasons) > 0 {
			line += "\t" + strings.Join(r.Reasons, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newAssessCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "assess <domain>...",
		Short:   "Run the premium heuristic on names without any network lookup",
		GroupID: "utility",
		Args:    cobra.MinimumNArgs(1),
		Example: `  namescout assess go.ai averylongdomainname123.net`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := d.newHeuristic()
			if err != nil {
				return err
			}
			out := make(assessments, 0, len(args))
			for _, name := range args {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				out = append(out, assessment{Domain: name, Assessment: h.Assess(name)})
			}
			return output.Write(cmd.OutOrStdout(), output.Format(d.cfg.Format), out)
		},
	}
}
