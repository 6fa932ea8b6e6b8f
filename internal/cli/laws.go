package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/cosync/internal/harness"
	"github.com/roach88/cosync/internal/laws"
)

// LawsResult is the outcome of the laws command.
type LawsResult struct {
	Scenario   string           `json:"scenario"`
	Samples    int              `json:"samples"`
	Laws       []laws.Law       `json:"laws"`
	Violations []laws.Violation `json:"violations"`
}

// NewLawsCommand creates the laws command.
func NewLawsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laws <scenario-file>",
		Short: "Check implementer laws over a scenario's items",
		Long: `Check the obligations every synchronizable type must meet
(reflexivity, symmetry, determinism, confluence, declared capability)
over the items of one scenario. The core-equivalence check is not run.

Exit codes:
  0 - Every law holds
  1 - One or more laws violated
  2 - Command error (unreadable scenario, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaws(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runLaws(opts *RootOptions, file string, cmd *cobra.Command) error {
	runID := opts.runID()
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), RunID: runID, Verbose: opts.Verbose}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return out.Fail(NewCommandError("E_LOAD", "failed to load scenario", err))
	}

	report, err := harness.CheckLaws(scenario)
	if err != nil {
		return out.Fail(NewCommandError("E_ITEMS", "failed to build items", err))
	}

	slog.Debug("laws checked", "run_id", runID, "scenario", scenario.Name, "violations", len(report.Violations))

	result := LawsResult{
		Scenario:   scenario.Name,
		Samples:    report.Samples,
		Laws:       report.Laws,
		Violations: report.Violations,
	}

	if opts.Format == "json" {
		var failed *CLIError
		if !report.OK() {
			failed = &CLIError{
				Code:    "E_LAWS_VIOLATED",
				Message: fmt.Sprintf("%d violation(s)", len(report.Violations)),
			}
		}
		if err := out.Report(result, failed); err != nil {
			return err
		}
	} else {
		printLawsText(cmd, result)
	}

	if !report.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d law violation(s)", len(report.Violations)))
	}
	return nil
}

func printLawsText(cmd *cobra.Command, result LawsResult) {
	w := cmd.OutOrStdout()

	violated := make(map[laws.Law]bool)
	for _, v := range result.Violations {
		violated[v.Law] = true
	}

	fmt.Fprintf(w, "%s: %d item(s)\n", result.Scenario, result.Samples)
	for _, law := range result.Laws {
		if violated[law] {
			fmt.Fprintf(w, "✗ %s\n", law)
			continue
		}
		fmt.Fprintf(w, "✓ %s\n", law)
	}

	for _, v := range result.Violations {
		fmt.Fprintf(w, "  %s\n", v)
	}
}
