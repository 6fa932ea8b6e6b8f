package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cosync/internal/harness"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Laws   bool   // evaluate laws even when a scenario does not ask for them
	Filter string // scenario filter (glob pattern on the file name)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name      string           `json:"name"`
	File      string           `json:"file"`
	Pass      bool             `json:"pass"`
	Verdict   bool             `json:"verdict"`
	Direction string           `json:"direction,omitempty"`
	Failure   *harness.Failure `json:"failure,omitempty"`
	Errors    []string         `json:"errors,omitempty"`
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <scenario-file-or-dir>...",
		Short: "Run core-equivalence scenarios",
		Long: `Run core-equivalence scenarios and compare each outcome with its
expectation.

Directories are searched recursively for .yaml, .yml and .cue files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  cosync check ./scenarios
  cosync check ledger.yaml units.cue --laws
  cosync check ./scenarios --filter "ledger_*" --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Laws, "laws", false, "also evaluate implementer laws for every scenario")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runCheck(opts *CheckOptions, paths []string, cmd *cobra.Command) error {
	runID := opts.runID()
	logger := slog.Default().With("run_id", runID)
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), RunID: runID, Verbose: opts.Verbose}

	files, err := collectScenarioFiles(paths, opts.Filter)
	if err != nil {
		return out.Fail(err)
	}

	result := CheckResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}

	for _, file := range files {
		sr := checkScenario(cmd, opts, logger, file)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	logger.Info("check finished", "passed", result.Passed, "failed", result.Failed)

	if opts.Format == "json" {
		var failed *CLIError
		if result.Failed > 0 {
			failed = &CLIError{
				Code:    "E_CHECK_FAILED",
				Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
			}
		}
		if err := out.Report(result, failed); err != nil {
			return err
		}
	} else {
		printCheckText(cmd, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// collectScenarioFiles expands directories and applies the filter.
// Explicitly named files are kept regardless of extension so that
// LoadScenario can report the unsupported format.
func collectScenarioFiles(paths []string, filter string) ([]string, *ExitError) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, NewCommandError("E_PATH", fmt.Sprintf("path not found: %s", path), err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		found, err := harness.FindScenarios(path)
		if err != nil {
			return nil, NewCommandError("E_FIND", "failed to find scenarios", err)
		}
		files = append(files, found...)
	}

	if filter == "" {
		return files, nil
	}

	filtered := files[:0]
	for _, file := range files {
		base := filepath.Base(file)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		matched, err := filepath.Match(filter, name)
		if err != nil {
			return nil, NewCommandError("E_FILTER", "invalid filter pattern", err)
		}
		if matched {
			filtered = append(filtered, file)
		}
	}
	return filtered, nil
}

// checkScenario loads and runs one scenario file.
func checkScenario(cmd *cobra.Command, opts *CheckOptions, logger *slog.Logger, file string) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		logger.Debug("scenario load failed", "file", file, "error", err)
		return ScenarioResult{
			Name:   filepath.Base(file),
			File:   file,
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}
	if opts.Laws {
		scenario.Laws = true
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := harness.RunContext(ctx, scenario, harness.WithLogger(logger))
	if err != nil {
		logger.Debug("scenario execution failed", "scenario", scenario.Name, "error", err)
		return ScenarioResult{
			Name:   scenario.Name,
			File:   file,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	return ScenarioResult{
		Name:      scenario.Name,
		File:      file,
		Pass:      result.Pass,
		Verdict:   result.Verdict,
		Direction: result.Direction,
		Failure:   result.Failure,
		Errors:    result.Errors,
	}
}

func printCheckText(cmd *cobra.Command, result CheckResult) {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}

	for _, sr := range result.Scenarios {
		if sr.Pass {
			fmt.Fprintf(w, "✓ %s (%s, check=%t)\n", sr.Name, sr.Direction, sr.Verdict)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(e, "\n", "\n  "))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
