package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit   int
	Periods bool
}

// HistoryEntry is one run, with its period records when requested.
type HistoryEntry struct {
	store.Run
	Periods []store.PeriodRecord `json:"periods,omitempty"`
}

// HistoryResult is the output of the history command.
type HistoryResult struct {
	Fingerprint string         `json:"fingerprint,omitempty"`
	Runs        []HistoryEntry `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [network]",
		Short: "List recorded runs",
		Long: `List runs recorded in the run history, oldest first. With a network
file, only runs of that network (by content fingerprint) are listed.

Examples:
  pulsenet history --db runs.db
  pulsenet history network.txt --db runs.db --limit 5
  pulsenet history --db runs.db --periods --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent runs (0 shows all)")
	cmd.Flags().BoolVar(&opts.Periods, "periods", false, "include per-entry period records")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	var fingerprint string
	if len(args) > 0 {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read network", err)
		}
		g, err := circuit.Parse(string(text))
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid network %s", args[0]), err)
		}
		fingerprint = g.Fingerprint()
	}

	st, err := opts.requireStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, fingerprint, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	result := HistoryResult{
		Fingerprint: fingerprint,
		Runs:        make([]HistoryEntry, 0, len(runs)),
	}
	for _, r := range runs {
		entry := HistoryEntry{Run: r}
		if opts.Periods && r.Mode == store.ModePeriod {
			entry.Periods, err = st.ReadPeriods(ctx, r.ID)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read periods", err)
			}
		}
		result.Runs = append(result.Runs, entry)
	}

	return opts.formatter(cmd).Success(result, func(w io.Writer) {
		outputHistoryText(w, result)
	})
}

func outputHistoryText(w io.Writer, result HistoryResult) {
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	fmt.Fprintf(w, "%-5s %-36s %-7s %10s %20s\n", "SEQ", "ID", "MODE", "PRESSES", "ANSWER")
	for _, r := range result.Runs {
		fmt.Fprintf(w, "%-5d %-36s %-7s %10d %20d\n", r.Seq, r.ID, r.Mode, r.Presses, r.Answer)
		for _, p := range r.Periods {
			fmt.Fprintf(w, "      %s: period %d, cycle %d from %d\n", p.Entry, p.Presses, p.CycleLength, p.CycleStart)
		}
	}
}
