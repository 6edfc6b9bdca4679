package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/period"
	"github.com/roach88/pulsenet/internal/sim"
)

// PeriodOptions holds flags for the period command.
type PeriodOptions struct {
	*RootOptions
	Entries    []string
	MaxPresses int64
	Emissions  bool
}

// PeriodResult is the output of the period command.
type PeriodResult struct {
	Network     string      `json:"network"`
	Fingerprint string      `json:"fingerprint"`
	Report      *sim.Report `json:"report"`
	RunID       string      `json:"run_id,omitempty"`
}

// NewPeriodCommand creates the period command.
func NewPeriodCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PeriodOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "period [network]",
		Short: "Find subsystem periods and combine them",
		Long: `Decompose the network into strongly connected subsystems, find the
period of the subsystem containing each entry module, and combine the
periods. The answer is their least common multiple, which equals their
product when the periods are pairwise coprime.

Entries default to the broadcaster targets.

Exit codes:
  0 - Periods found
  1 - Search error (unknown entry, press limit exceeded, overflow)
  2 - Command error (missing network, invalid network, etc.)

Examples:
  pulsenet period network.txt
  pulsenet period network.txt --entry a --entry x
  pulsenet period network.txt --max-presses 5000 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeriod(opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Entries, "entry", "e", nil, "entry module (repeatable, default from config or broadcaster targets)")
	cmd.Flags().Int64Var(&opts.MaxPresses, "max-presses", 0, "give up a search after this many presses (0 never gives up)")
	cmd.Flags().BoolVar(&opts.Emissions, "emissions", false, "list pulses leaving each subsystem")

	return cmd
}

func runPeriod(opts *PeriodOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	g, path, err := opts.loadNetwork(args)
	if err != nil {
		return err
	}

	entries := opts.Entries
	if len(entries) == 0 {
		entries = opts.Config.Entries
	}
	maxPresses := opts.Config.MaxPresses
	if cmd.Flags().Changed("max-presses") {
		maxPresses = opts.MaxPresses
	}
	if maxPresses < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("max-presses must be non-negative, got %d", maxPresses))
	}

	rep, err := sim.CombinedPeriod(ctx, g, entries, period.WithMaxPresses(maxPresses))
	if err != nil {
		return out.Fail(ExitFailure, "period search failed", err)
	}

	result := PeriodResult{
		Network:     path,
		Fingerprint: g.Fingerprint(),
		Report:      rep,
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		run, err := st.WritePeriodRun(ctx, engine.UUIDv7Generator{}.Generate(), g, rep)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = run.ID
	}

	return out.Success(result, func(w io.Writer) {
		outputPeriodText(w, result, opts.Emissions)
	})
}

func outputPeriodText(w io.Writer, result PeriodResult, emissions bool) {
	rep := result.Report
	fmt.Fprintf(w, "Network: %s\n\n", result.Network)

	for _, r := range rep.Results {
		fmt.Fprintf(w, "%s: period %d", r.Entry, r.Presses)
		if r.CycleStart != 0 {
			fmt.Fprintf(w, " (cycle of %d from press %d)", r.CycleLength, r.CycleStart)
		}
		fmt.Fprintf(w, "\n  members: %s (%d bits)\n", strings.Join(r.Members, ", "), r.Bits)
		if !emissions {
			continue
		}
		for _, e := range r.Emissions {
			pulses := make([]string, len(e.Pulses))
			for i, p := range e.Pulses {
				pulses[i] = p.String()
			}
			fmt.Fprintf(w, "  press %d: %s\n", e.Press, strings.Join(pulses, "; "))
		}
	}

	fmt.Fprintln(w)
	if !rep.Combination.Coprime {
		fmt.Fprintf(w, "Note: periods %v are not pairwise coprime (product %d)\n", rep.Combination.Periods, rep.Combination.Product)
	}
	if !rep.Aligned {
		fmt.Fprintln(w, "Note: some subsystems do not return to their initial state")
	}
	fmt.Fprintf(w, "Answer: %d\n", rep.Answer)
	if result.RunID != "" {
		fmt.Fprintf(w, "Run:    %s\n", result.RunID)
	}
}
