// Package cli provides the Cobra command tree for namescout.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbckr/namescout/internal/config"
	"github.com/tbckr/namescout/internal/input"
	"github.com/tbckr/namescout/internal/output"
	"github.com/tbckr/namescout/internal/report"
	"github.com/tbckr/namescout/internal/version"
)

// newRootCmd builds the top-level Cobra command for namescout.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any RunE runs. Cobra only
	// runs the innermost PersistentPreRunE, so subcommands must not define
	// their own (completion is the exception: it needs no deps).
	var d deps

	cmd := &cobra.Command{
		Use:   "namescout <input> [output]",
		Short: "Check a list of domains for availability and flag likely premium names",
		Long: `namescout reads one domain per line from <input> and reports, for each,
whether it is taken or available.

A domain that answers an A or MX query is taken. Otherwise a WHOIS lookup
decides; only names without a registrar or creation date are reported as
available, together with a premium-value guess.

Results are written as JSON to [output], or to <input>-results.json next to
the input file. An existing results file is never overwritten unless it is
named explicitly.`,
		Example: `  namescout domains.txt
  namescout domains.txt out.json --delay 2
  namescout domains.txt -c 4 --resolver doh -f plain`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, &d, args)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	config.RegisterFlagCompletions(cmd)

	cmd.Version = version.Version
	cmd.SetVersionTemplate("namescout version {{.Version}}\n")

	cmd.AddGroup(&cobra.Group{ID: "utility", Title: "Utility Commands:"})
	cmd.AddCommand(
		newAssessCmd(&d),
		newConfigCmd(&d),
		newCompletionCmd(),
		newVersionCmd(&d),
	)

	return cmd
}

// runCheck checks every domain in args[0] and writes the report. The report
// is written even when the run was interrupted; the interruption is then
// returned so the process exits non-zero.
func runCheck(cmd *cobra.Command, d *deps, args []string) error {
	inputPath := args[0]
	domains, err := input.ReadFile(inputPath)
	if err != nil {
		return err
	}

	outPath := report.DerivePath(inputPath, time.Now(), report.FileExists)
	if len(args) == 2 {
		outPath = args[1]
	}
	if err := report.CheckWritable(outPath); err != nil {
		return err
	}

	progress := output.NewProgress(cmd.ErrOrStderr(), d.cfg.Quiet)
	chk, err := d.newChecker(func(res report.LookupResult) {
		progress.Result(output.Verdict{
			Domain:    res.Domain,
			Available: res.Status == report.StatusAvailable,
			Premium:   res.LikelyPremium(),
			Method:    string(res.Details.Method),
		})
	})
	if err != nil {
		return err
	}

	d.logger.Debug("run started",
		"input", inputPath,
		"output", outPath,
		"domains", len(domains),
		"resolver", d.cfg.Resolver,
		"concurrency", d.cfg.Concurrency,
		"delay", d.cfg.DelayDuration(),
	)
	progress.Start(len(domains), outPath)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rep, runErr := chk.Run(ctx, domains)
	if runErr != nil {
		d.logger.Info("run interrupted; writing partial report", "checked", len(rep), "domains", len(domains))
	}

	if err := report.WriteFile(outPath, rep); err != nil {
		return err
	}
	if runErr != nil {
		progress.Partial(outPath)
	} else {
		progress.Done(outPath)
	}

	if err := output.Write(cmd.OutOrStdout(), output.Format(d.cfg.Format), rep); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return runErr
}

// Execute builds the root command and runs it with args (without the program name).
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}
